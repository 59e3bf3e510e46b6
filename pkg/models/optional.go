package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state payload field: absent (the zero value, dropped by
// `omitzero`), explicit null, or a value.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// FromPtr maps nil to Null and anything else to Some.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Some(*p)
}

// IsZero reports absence. encoding/json uses it for `omitzero`.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) IsNull() bool {
	return o.set && o.null
}

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

// Ptr returns a copy of the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.set || o.null {
		return nil
	}
	v := o.value
	return &v
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
