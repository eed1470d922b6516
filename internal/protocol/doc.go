// Package protocol implements the Open Pixel Control (OPC) wire format.
//
// OPC is a one-way stream of length-prefixed messages over TCP. There are no
// replies, acknowledgements or delimiters; a receiver reads exactly
// header+payload bytes per message.
//
// # Message Layout
//
//	[0]     channel        0 = broadcast, 1-255 = addressed channel
//	[1]     command        0x00 = set pixel colors, 0xFF = system exclusive
//	[2-3]   length         Payload length (big-endian uint16)
//	[4+]    payload        Message payload bytes
//
// Set-pixel payloads carry three bytes per pixel in the session's pixel order.
// Fadecandy firmware configuration uses a system exclusive payload:
//
//	[4-5]   0x00 0x01      System ID (Fadecandy)
//	[6-7]   0x00 0x02      Sysex ID (firmware configuration)
//	[8]     config         Configuration bits
//
// # Usage Example - Encoding
//
//	msg, err := protocol.BuildPixelMessage(0, pixels, pixel.GRB)
//	if err != nil {
//	    return err
//	}
//	_, err = conn.Write(msg)
//
// # Usage Example - Decoding
//
//	msg, err := protocol.ReadMessage(conn)
//	if err != nil {
//	    return err
//	}
//	pixels, err := msg.Pixels(pixel.GRB)
//
// All builders are pure: they allocate a fresh buffer and never write partial
// output on error.
package protocol
