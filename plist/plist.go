// Package plist reads and writes Apple style XML property lists.
package plist

import (
	"fmt"

	"github.com/lestrrat-go/xylem/internal/ordered"
)

// Value is the type of all property list values: String, Bool,
// Integer, Real, Data, Date, *Dict and Array.
type Value interface {
	plistValue()
}

type String string

func (String) plistValue() {}

type Bool bool

func (Bool) plistValue() {}

type Integer int64

func (Integer) plistValue() {}

type Real float64

func (Real) plistValue() {}

// Data is the raw body of a <data> element, typically base64 text.
// The body is not decoded.
type Data string

func (Data) plistValue() {}

// Date is the raw body of a <date> element.
type Date string

func (Date) plistValue() {}

// Dict is an insertion ordered dictionary. Duplicate keys are kept;
// Get returns the first occurrence.
type Dict struct {
	pairs ordered.Pairs[string, Value]
}

func (*Dict) plistValue() {}

func NewDict() *Dict {
	return &Dict{}
}

func (d *Dict) Add(key string, v Value) *Dict {
	d.pairs.Add(key, v)
	return d
}

func (d *Dict) Get(key string) (Value, bool) {
	return d.pairs.Get(key)
}

func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return d.pairs.Len()
}

func (d *Dict) Range(f func(key string, v Value) bool) {
	if d == nil {
		return
	}
	for k, v := range d.pairs.Range() {
		if !f(k, v) {
			return
		}
	}
}

type Array []Value

func (Array) plistValue() {}

// MalformedError reports input that parses as XML but does not form a
// property list.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed plist: " + e.Reason
}

func malformedf(format string, args ...interface{}) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}
