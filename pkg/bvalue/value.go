// Package bvalue is a closed, four-variant view of a bencoded document:
// byte strings, integers, lists and dictionaries.
//
// Values are produced by Parse (or FromGeneric for trees already decoded by a
// bencode library) and are never modified afterwards.
package bvalue

import (
	"math"
	"math/big"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	KindBytes Kind = iota + 1
	KindInt
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "byte string"
	case KindInt:
		return "integer"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	}
	return "unknown"
}

// Value is one of Bytes, Int, List or Dict.
type Value interface {
	Kind() Kind
}

// Bytes is a bencode byte string. It is not necessarily valid UTF-8.
type Bytes []byte

// Int is a bencode integer. Bencode places no bound on integer size, so the
// value is kept arbitrary-precision and narrowed by the caller.
type Int struct {
	n *big.Int
}

// List is a bencode list in document order.
type List []Value

// Dict is a bencode dictionary keyed by raw byte strings.
type Dict map[string]Value

func (Bytes) Kind() Kind { return KindBytes }
func (Int) Kind() Kind   { return KindInt }
func (List) Kind() Kind  { return KindList }
func (Dict) Kind() Kind  { return KindDict }

// NewInt returns an Int holding n.
func NewInt(n int64) Int {
	return Int{n: big.NewInt(n)}
}

// IntFromBig returns an Int holding a copy of n.
func IntFromBig(n *big.Int) Int {
	return Int{n: new(big.Int).Set(n)}
}

func (i Int) big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return i.n
}

// Sign returns -1, 0 or +1.
func (i Int) Sign() int {
	return i.big().Sign()
}

// Int64 returns the value if it fits in an int64.
func (i Int) Int64() (int64, bool) {
	n := i.big()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// Uint64 returns the value if it fits in a uint64.
func (i Int) Uint64() (uint64, bool) {
	n := i.big()
	if !n.IsUint64() {
		return 0, false
	}
	return n.Uint64(), true
}

// Uint16 returns the value if it fits in a uint16.
func (i Int) Uint16() (uint16, bool) {
	n, ok := i.Uint64()
	if !ok || n > math.MaxUint16 {
		return 0, false
	}
	return uint16(n), true
}

func (i Int) String() string {
	return i.big().String()
}

// Get looks up key by exact byte match.
func (d Dict) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}
