package table

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind classifies a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "empty"
	}
}

// Value is a scalar cell: a number, a string, or empty.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Number wraps a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Of converts a Go scalar into a Value. Unsupported types are rendered with %v.
func Of(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case string:
		return String(x)
	default:
		return String(fmt.Sprint(x))
	}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsEmpty() bool   { return v.kind == KindEmpty }
func (v Value) IsNumeric() bool { return v.kind == KindNumber }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Interface returns the underlying Go value (float64, string or nil).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		return nil
	}
}

// String renders the value as it would appear in a cell.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.str == o.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Empty()
	case float64:
		*v = Number(x)
	case string:
		*v = String(x)
	case bool:
		if x {
			*v = Number(1)
		} else {
			*v = Number(0)
		}
	default:
		return fmt.Errorf("unsupported cell value %s", string(data))
	}
	return nil
}
