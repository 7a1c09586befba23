package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// TimestampLayout is the textual form used for DATETIME columns.
const TimestampLayout = "2006-01-02 15:04:05"

// Value is a sealed interface over the scalar types a column can hold.
// Only Null, Int, Float, Text and Bool implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null is SQL NULL.
type Null struct{}

func (Null) value() {}

// Int is an integer column value. Always int64.
type Int int64

func (Int) value() {}

// Float is a floating point column value.
type Float float64

func (Float) value() {}

// Text is a string column value.
type Text string

func (Text) value() {}

// Bool is a boolean column value.
type Bool bool

func (Bool) value() {}

// Of converts a native Go value to a Value.
// Values that are already a Value are returned unchanged.
func Of(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUint(val)
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case bool:
		return Bool(val), nil
	case time.Time:
		return Text(val.Format(TimestampLayout)), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q out of range", val)
		}
		return Float(f), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// MustOf is like Of but panics on unsupported types. Meant for literals.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

// FromDriver converts a value scanned from a database/sql driver.
// The SQLite driver yields int64, float64, []byte, string, bool, time.Time or nil.
func FromDriver(src any) Value {
	switch val := src.(type) {
	case nil:
		return Null{}
	case int64:
		return Int(val)
	case float64:
		return Float(val)
	case []byte:
		return Text(string(val))
	case string:
		return Text(val)
	case bool:
		return Bool(val)
	case time.Time:
		return Text(val.Format(TimestampLayout))
	default:
		return Text(fmt.Sprint(val))
	}
}

// Param returns the driver argument a Value binds as.
// Integers bind as integers; floats, text and booleans bind as text.
// Null binds as SQL NULL.
func Param(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Text:
		return string(val)
	case Bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return nil
	}
}

// Parse interprets free-form input such as a CLI argument or the subject
// portion of a token. Integers become Int, everything else Text.
func Parse(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	return Text(s)
}

// String renders v the way it would appear in a result listing.
func String(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "NULL"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Text:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return fmt.Sprint(val)
	}
}

// Describe renders v with its type tag, e.g. int(3) or text("Ana").
func Describe(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "null"
	case Int:
		return fmt.Sprintf("int(%d)", int64(val))
	case Float:
		return fmt.Sprintf("float(%s)", strconv.FormatFloat(float64(val), 'f', -1, 64))
	case Text:
		return fmt.Sprintf("text(%q)", string(val))
	case Bool:
		return fmt.Sprintf("bool(%t)", bool(val))
	default:
		return fmt.Sprintf("unknown(%T)", v)
	}
}

// Native returns the plain Go value for JSON encoding.
func Native(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Text:
		return string(val)
	case Bool:
		return bool(val)
	default:
		return nil
	}
}

// Equal reports whether a and b hold the same type and value.
// A nil Value equals Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	return a == b
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
