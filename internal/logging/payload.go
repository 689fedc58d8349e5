package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Kind distinguishes the two payload value forms.
type Kind uint8

const (
	// KindText values render in their plain string form.
	KindText Kind = iota
	// KindStructured values render as JSON.
	KindStructured
)

// Value is one logged argument.
type Value struct {
	kind Kind
	raw  any
}

// Text wraps a plain value.
func Text(v any) Value { return Value{kind: KindText, raw: v} }

// Structured wraps a value that renders as JSON.
func Structured(v any) Value { return Value{kind: KindStructured, raw: v} }

// ValueOf classifies an arbitrary argument. Strings, numbers, booleans and
// errors are text; maps, slices, structs, pointers and nil are structured.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Structured(nil)
	case string, error, bool:
		return Text(v)
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Interface:
		return Structured(v)
	default:
		return Text(v)
	}
}

// Kind returns the value's form.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the wrapped value.
func (v Value) Raw() any { return v.raw }

// String renders the value for the console.
func (v Value) String() string {
	if v.kind == KindStructured {
		if b, err := encodeJSON(v.raw); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%+v", v.raw)
	}
	return plainString(v.raw)
}

func plainString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}

// Payload is the ordered list of values from one log call.
type Payload []Value

// NewPayload classifies each argument.
func NewPayload(args ...any) Payload {
	p := make(Payload, len(args))
	for i, a := range args {
		p[i] = ValueOf(a)
	}
	return p
}

// String joins the console renderings with single spaces.
func (p Payload) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

// MarshalLogArray writes the payload as a JSON array of the original values.
func (p Payload) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, v := range p {
		if err, ok := v.raw.(error); ok {
			enc.AppendString(err.Error())
			continue
		}
		b, err := encodeJSON(v.raw)
		if err != nil {
			enc.AppendString(v.String())
			continue
		}
		if err := enc.AppendReflected(json.RawMessage(b)); err != nil {
			enc.AppendString(v.String())
		}
	}
	return nil
}

// encodeJSON marshals v without HTML escaping and without a trailing newline.
func encodeJSON(v any) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode %T: %v", v, r)
		}
	}()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
