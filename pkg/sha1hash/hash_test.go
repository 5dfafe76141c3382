package sha1hash

import (
	"errors"
	"regexp"
	"testing"
)

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantLen int
		wantErr bool
	}{
		{name: "empty", input: nil, wantLen: 0, wantErr: true},
		{name: "19 bytes", input: make([]byte, 19), wantLen: 19, wantErr: true},
		{name: "21 bytes", input: make([]byte, 21), wantLen: 21, wantErr: true},
		{name: "20 bytes", input: make([]byte, 20), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var lenErr *InvalidLengthError
			if !errors.As(err, &lenErr) {
				t.Fatalf("FromBytes() error = %T, want *InvalidLengthError", err)
			}
			if lenErr.Len != tt.wantLen {
				t.Errorf("InvalidLengthError.Len = %d, want %d", lenErr.Len, tt.wantLen)
			}
		})
	}
}

func TestStringIsLowercaseHex(t *testing.T) {
	input := []byte{
		0x00, 0x01, 0x0a, 0x0f, 0x10, 0x7f, 0x80, 0xab, 0xcd, 0xef,
		0xff, 0xde, 0xad, 0xbe, 0xef, 0x12, 0x34, 0x56, 0x78, 0x9a,
	}
	h, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	want := "00010a0f107f80abcdefffdeadbeef123456789a"
	if got := h.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !regexp.MustCompile(`^[0-9a-f]{40}$`).MatchString(h.String()) {
		t.Errorf("String() = %q is not 40 lowercase hex characters", h.String())
	}
}

func TestFromBytesCopies(t *testing.T) {
	input := make([]byte, Size)
	input[0] = 1
	h, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	input[0] = 2
	if h[0] != 1 {
		t.Errorf("hash shares storage with its input")
	}

	b := h.Bytes()
	b[0] = 3
	if h[0] != 1 {
		t.Errorf("Bytes() shares storage with the hash")
	}
}

func TestEquality(t *testing.T) {
	a, _ := FromBytes([]byte("aaaaaaaaaaaaaaaaaaaa"))
	b, _ := FromBytes([]byte("aaaaaaaaaaaaaaaaaaaa"))
	c, _ := FromBytes([]byte("aaaaaaaaaaaaaaaaaaab"))
	if a != b {
		t.Errorf("identical hashes compare unequal")
	}
	if a == c {
		t.Errorf("different hashes compare equal")
	}
}
