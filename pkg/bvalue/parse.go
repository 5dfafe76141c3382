package bvalue

import (
	"fmt"
	"math/big"

	"github.com/anacrolix/torrent/bencode"
	"github.com/pkg/errors"
)

// Parse decodes a complete bencoded document. Trailing bytes after the
// top-level value are an error.
func Parse(data []byte) (Value, error) {
	// Decode into Go native types first, then close the tree over our variants
	var generic interface{}
	if err := bencode.Unmarshal(data, &generic); err != nil {
		return nil, errors.Wrap(err, "bencode")
	}
	return FromGeneric(generic)
}

// UnsupportedTypeError is returned by FromGeneric for Go values that have no
// bencode counterpart.
type UnsupportedTypeError struct {
	Value interface{}
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("bencode: unsupported value of type %T", e.Value)
}

// FromGeneric converts the interface{} tree produced by the common bencode
// libraries (string, []byte, integers, *big.Int, []interface{},
// map[string]interface{}) into a Value.
func FromGeneric(v interface{}) (Value, error) {
	switch x := v.(type) {
	case string:
		return Bytes(x), nil
	case []byte:
		b := make(Bytes, len(x))
		copy(b, x)
		return b, nil
	case int64:
		return NewInt(x), nil
	case int:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case uint64:
		return IntFromBig(new(big.Int).SetUint64(x)), nil
	case *big.Int:
		return IntFromBig(x), nil
	case []interface{}:
		l := make(List, 0, len(x))
		for _, elem := range x {
			ev, err := FromGeneric(elem)
			if err != nil {
				return nil, err
			}
			l = append(l, ev)
		}
		return l, nil
	case map[string]interface{}:
		d := make(Dict, len(x))
		for k, elem := range x {
			ev, err := FromGeneric(elem)
			if err != nil {
				return nil, err
			}
			d[k] = ev
		}
		return d, nil
	case Value:
		return x, nil
	}
	return nil, &UnsupportedTypeError{Value: v}
}
