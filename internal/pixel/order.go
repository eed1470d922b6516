package pixel

import (
	"fmt"
	"strings"
)

// Order selects the sequence in which a pixel's channels are written to the
// wire. It belongs to the session, not to the pixel.
type Order uint8

const (
	RGB Order = iota
	RBG
	GRB
	GBR
	BRG
	BGR
)

var orderNames = [...]string{
	RGB: "RGB",
	RBG: "RBG",
	GRB: "GRB",
	GBR: "GBR",
	BRG: "BRG",
	BGR: "BGR",
}

// Orders lists every supported order.
func Orders() []Order {
	return []Order{RGB, RBG, GRB, GBR, BRG, BGR}
}

// Valid reports whether o is one of the six known orders.
func (o Order) Valid() bool {
	return int(o) < len(orderNames)
}

func (o Order) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
	return orderNames[o]
}

// ParseOrder parses an order name such as "grb", case-insensitively.
func ParseOrder(s string) (Order, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range orderNames {
		if n == name {
			return Order(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pixel order %q (want one of RGB, RBG, GRB, GBR, BRG, BGR)", s)
}

// Bytes returns p's channels in wire order. The result is undefined for an
// invalid order; callers validate first.
func (o Order) Bytes(p Pixel) (b0, b1, b2 byte) {
	switch o {
	case RGB:
		return p.R, p.G, p.B
	case RBG:
		return p.R, p.B, p.G
	case GRB:
		return p.G, p.R, p.B
	case GBR:
		return p.G, p.B, p.R
	case BRG:
		return p.B, p.R, p.G
	case BGR:
		return p.B, p.G, p.R
	}
	return p.R, p.G, p.B
}

// Pixel is the inverse of Bytes.
func (o Order) Pixel(b0, b1, b2 byte) Pixel {
	switch o {
	case RBG:
		return Pixel{R: b0, B: b1, G: b2}
	case GRB:
		return Pixel{G: b0, R: b1, B: b2}
	case GBR:
		return Pixel{G: b0, B: b1, R: b2}
	case BRG:
		return Pixel{B: b0, R: b1, G: b2}
	case BGR:
		return Pixel{B: b0, G: b1, R: b2}
	}
	return Pixel{R: b0, G: b1, B: b2}
}
