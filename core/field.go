package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType selects which slot of a Field carries the value.
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field is a structured key-value pair. Values are packed into the
// fixed-size Int64/Float64/Str slots wherever possible so that common
// types never escape to the heap; Any is the allocating fallback.
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// StringValue renders the field's value as a string. Formatters on
// the hot path should prefer AppendValue.
func (f Field) StringValue() string {
	return string(f.AppendValue(nil))
}

// AppendValue appends the field's rendered value to buf and returns
// the extended buffer. Only the AnyType case allocates beyond buf
// growth.
func (f Field) AppendValue(buf []byte) []byte {
	switch f.Type {
	case StringType:
		return append(buf, f.Str...)
	case IntType, Int64Type:
		return strconv.AppendInt(buf, f.Int64, 10)
	case Float64Type:
		return strconv.AppendFloat(buf, f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.AppendBool(buf, f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).AppendFormat(buf, time.RFC3339)
	case DurationType:
		return append(buf, time.Duration(f.Int64).String()...)
	case ErrorType:
		return append(buf, f.Str...)
	case AnyType:
		return fmt.Appendf(buf, "%v", f.Any)
	default:
		return buf
	}
}
