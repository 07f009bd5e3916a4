package arith

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Bigger is implemented by numeric wrappers that can expose their exact
// underlying integer.
type Bigger interface {
	Big() *big.Int
}

// Plain unwraps v into an exact *big.Int. It accepts Go integers, decimal
// or 0x/0o/0b prefixed strings, big.Int values and anything implementing
// Bigger. Strings are NFKC-normalized first. The result never aliases v.
//
// Plain belongs to configuration decoding and diagnostics; arithmetic paths
// work on *big.Int directly.
func Plain(v any) (*big.Int, error) {
	switch n := v.(type) {
	case nil:
		return nil, fmt.Errorf("plain: nil value")
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("plain: nil *big.Int")
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case Bigger:
		b := n.Big()
		if b == nil {
			return nil, fmt.Errorf("plain: %T exposes a nil integer", v)
		}
		return new(big.Int).Set(b), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		// NFKC folds fullwidth digits and signs to ASCII.
		s := strings.ReplaceAll(strings.TrimSpace(norm.NFKC.String(n)), "_", "")
		out, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("plain: %q is not an integer", n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("plain: unsupported type %T", v)
	}
}

// MustPlain is Plain for literals known to be valid, mostly in tests.
func MustPlain(v any) *big.Int {
	out, err := Plain(v)
	if err != nil {
		panic(err)
	}
	return out
}
