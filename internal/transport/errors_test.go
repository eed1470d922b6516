package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantKind      ErrorKind
		wantRetryable bool
	}{
		{"timeout", os.ErrDeadlineExceeded, KindTimeout, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "fadecandy.local", IsNotFound: true}, KindDNS, false},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}}, KindConnectionRefused, true},
		{"closed", net.ErrClosed, KindClosed, true},
		{"eof", io.EOF, KindClosed, true},
		{"closed pipe", io.ErrClosedPipe, KindClosed, true},
		{"broken pipe", fmt.Errorf("write: %w", syscall.EPIPE), KindClosed, true},
		{"not connected", ErrNotConnected, KindNotConnected, false},
		{"other", errors.New("boom"), KindNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "write", "127.0.0.1:7890")
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
			if IsRetryable(got) != tt.wantRetryable {
				t.Error("IsRetryable disagrees with Retryable")
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil, "write", "x") != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestClassify_AlreadyClassified(t *testing.T) {
	orig := &Error{Kind: KindTimeout, Op: "dial", Addr: "a"}
	wrapped := fmt.Errorf("connect: %w", orig)
	if got := Classify(wrapped, "write", "b"); got != orig {
		t.Errorf("Classify() = %v, want original *Error", got)
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{Kind: KindClosed, Op: "write", Addr: "1.2.3.4:7890", Err: io.EOF}
	want := "Connection Closed: write 1.2.3.4:7890 (caused by: EOF)"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
	if ErrorKind(99).String() != "ErrorKind(99)" {
		t.Errorf("String() = %q", ErrorKind(99).String())
	}
}
