// Package host parses the host half of a DHT node hint: a domain name, a
// dotted IPv4 address, or a bracketed IPv6 address.
package host

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Kind says which form a Host took.
type Kind int

const (
	Domain Kind = iota + 1
	IPv4
	IPv6
)

func (k Kind) String() string {
	switch k {
	case Domain:
		return "domain"
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	}
	return "unknown"
}

var (
	ErrEmptyHost              = errors.New("empty host")
	ErrInvalidIPv4            = errors.New("invalid IPv4 address")
	ErrInvalidIPv6            = errors.New("invalid IPv6 address")
	ErrInvalidDomainCharacter = errors.New("invalid domain character")
	ErrInvalidEscape          = errors.New("invalid percent escape")
)

// ParseError reports which input failed and why.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse host %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Host is a parsed host. Domain is set for Domain hosts, Addr for the two
// address forms.
type Host struct {
	Kind   Kind
	Domain string
	Addr   netip.Addr
}

// characters that may never appear in a domain, even after IDNA mapping
const forbidden = "\x00\t\n\r #%/:?@[\\]"

var profile = idna.New(
	idna.MapForLookup(),
	idna.StrictDomainName(false),
	idna.BidiRule(),
)

// Parse parses s as a host.
func Parse(s string) (Host, error) {
	if s == "" {
		return Host{}, &ParseError{Input: s, Err: ErrEmptyHost}
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Host{}, &ParseError{Input: s, Err: ErrInvalidIPv6}
		}
		addr, err := netip.ParseAddr(s[1 : len(s)-1])
		if err != nil || !addr.Is6() || addr.Zone() != "" {
			return Host{}, &ParseError{Input: s, Err: ErrInvalidIPv6}
		}
		return Host{Kind: IPv6, Addr: addr}, nil
	}

	decoded, err := url.PathUnescape(s)
	if err != nil {
		return Host{}, &ParseError{Input: s, Err: ErrInvalidEscape}
	}

	ascii, err := profile.ToASCII(decoded)
	if err != nil {
		return Host{}, &ParseError{Input: s, Err: err}
	}
	if ascii == "" {
		return Host{}, &ParseError{Input: s, Err: ErrEmptyHost}
	}
	if strings.ContainsAny(ascii, forbidden) {
		return Host{}, &ParseError{Input: s, Err: ErrInvalidDomainCharacter}
	}

	if endsInNumber(ascii) {
		addr, err := netip.ParseAddr(ascii)
		if err != nil || !addr.Is4() {
			return Host{}, &ParseError{Input: s, Err: ErrInvalidIPv4}
		}
		return Host{Kind: IPv4, Addr: addr}, nil
	}

	return Host{Kind: Domain, Domain: ascii}, nil
}

// endsInNumber reports whether the last non-empty label is all digits, which
// means the host must be read as an IPv4 address.
func endsInNumber(s string) bool {
	labels := strings.Split(s, ".")
	last := labels[len(labels)-1]
	if last == "" && len(labels) > 1 {
		last = labels[len(labels)-2]
	}
	if last == "" {
		return false
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (h Host) String() string {
	switch h.Kind {
	case Domain:
		return h.Domain
	case IPv4:
		return h.Addr.String()
	case IPv6:
		return "[" + h.Addr.String() + "]"
	}
	return ""
}

// MarshalText lets renderers emit the canonical form.
func (h Host) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
