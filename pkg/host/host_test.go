package host

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantStr  string
	}{
		{name: "domain", input: "router.bittorrent.com", wantKind: Domain, wantStr: "router.bittorrent.com"},
		{name: "domain is lowercased", input: "Router.BitTorrent.COM", wantKind: Domain, wantStr: "router.bittorrent.com"},
		{name: "internationalized domain", input: "bücher.de", wantKind: Domain, wantStr: "xn--bcher-kva.de"},
		{name: "ipv4", input: "1.2.3.4", wantKind: IPv4, wantStr: "1.2.3.4"},
		{name: "ipv6", input: "[2001:db8::1]", wantKind: IPv6, wantStr: "[2001:db8::1]"},
		{name: "ipv6 loopback", input: "[::1]", wantKind: IPv6, wantStr: "[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if h.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", h.Kind, tt.wantKind)
			}
			if got := h.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmptyHost},
		{name: "unclosed bracket", input: "[::1", wantErr: ErrInvalidIPv6},
		{name: "ipv4 in brackets", input: "[1.2.3.4]", wantErr: ErrInvalidIPv6},
		{name: "garbage in brackets", input: "[not-an-ip]", wantErr: ErrInvalidIPv6},
		{name: "ipv4 octet overflow", input: "1.2.3.256", wantErr: ErrInvalidIPv4},
		{name: "bad escape", input: "ex%zzample.com", wantErr: ErrInvalidEscape},
		{name: "port suffix", input: "example.com:6881"},
		{name: "path", input: "example.com/x"},
		{name: "space", input: "exa mple.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error = %T, want *ParseError", tt.input, err)
			}
			if perr.Input != tt.input {
				t.Errorf("ParseError.Input = %q, want %q", perr.Input, tt.input)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
