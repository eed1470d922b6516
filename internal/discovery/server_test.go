package discovery

import "testing"

func TestServer_String(t *testing.T) {
	server := &Server{
		Instance: "fcserver",
		Hostname: "pixelpi.local.",
		IP:       "192.168.4.16",
		Port:     7890,
	}

	expected := "OPC server fcserver (pixelpi.local.) at 192.168.4.16:7890"
	if server.String() != expected {
		t.Errorf("Server.String() = %v, want %v", server.String(), expected)
	}
}

func TestServer_Address(t *testing.T) {
	tests := []struct {
		name     string
		server   *Server
		expected string
	}{
		{
			name:     "IPv4",
			server:   &Server{IP: "10.0.0.5", Port: 7890},
			expected: "10.0.0.5:7890",
		},
		{
			name:     "IPv6",
			server:   &Server{IP: "fe80::1", Port: 7891},
			expected: "[fe80::1]:7891",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.Address(); got != tt.expected {
				t.Errorf("Server.Address() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestServer_GetMetadata(t *testing.T) {
	server := &Server{Metadata: map[string]string{"board": "fadecandy"}}

	if got := server.GetMetadata("board"); got != "fadecandy" {
		t.Errorf("GetMetadata(board) = %v", got)
	}
	if got := server.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %v, want empty", got)
	}

	var empty Server
	if got := empty.GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() with nil map = %v, want empty string", got)
	}
}
