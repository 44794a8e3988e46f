// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

// Package schema maps source column descriptors to the target columnar
// types written to the output file. The mapping is a pure function of the
// descriptor; a column that cannot be mapped aborts the transfer before any
// row is fetched.
package schema

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/sqlarc/sqlarc/source"
)

// Kind enumerates the closed set of target column types.
type Kind int

const (
	Boolean Kind = iota
	Int32
	Int64
	Float32
	Float64
	FixedDecimal
	Utf8Text
	Bytes
	Date
	TimeOfDay
	Stamp
)

var kindNames = [...]string{
	"Boolean", "Int32", "Int64", "Float32", "Float64", "FixedDecimal",
	"Utf8Text", "Bytes", "Date", "TimeOfDay", "Stamp",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MaxDecimalPrecision is the widest fixed-point decimal the target layout
// supports (128-bit two's complement).
const MaxDecimalPrecision = 38

// TargetColumn is the derived target type for one source column. Derived
// once, immutable for the lifetime of the transfer.
type TargetColumn struct {
	Name     string
	Kind     Kind
	Nullable bool

	// Precision and Scale apply to FixedDecimal columns.
	Precision int
	Scale     int

	// Unit applies to TimeOfDay and Stamp columns.
	Unit arrow.TimeUnit

	// ByteWidth is the fixed buffer stride for fixed-width kinds. Zero for
	// variable-width kinds, whose stride is resolved by the buffer pool
	// from DeclaredWidth or a configured fallback cap.
	ByteWidth int

	// DeclaredWidth is the source-declared maximum byte width for
	// variable-width kinds; zero means unknown or unbounded.
	DeclaredWidth int
}

// Variable reports whether the column is transported at variable width
// (text, binary, decimal digit strings, time-of-day text).
func (c TargetColumn) Variable() bool {
	switch c.Kind {
	case Utf8Text, Bytes, FixedDecimal, TimeOfDay:
		return true
	}
	return false
}

// UnsupportedTypeError is returned when no target type exists for a source
// column. It is fatal pre-flight: nothing has been fetched yet.
type UnsupportedTypeError struct {
	Column string
	Native source.NativeType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("column %q: unsupported source type %s", e.Column, e.Native)
}

// Map derives the target column type for one descriptor. Deterministic:
// the same descriptor always yields the same target column.
func Map(d source.ColumnDescriptor) (TargetColumn, error) {
	c := TargetColumn{Name: d.Name, Nullable: d.Nullable}

	switch d.Type {
	case source.Bit:
		c.Kind = Boolean
		c.ByteWidth = 1

	case source.TinyInt:
		c.Kind = Int32
		c.ByteWidth = 1
	case source.SmallInt:
		c.Kind = Int32
		c.ByteWidth = 2
	case source.Integer:
		c.Kind = Int32
		c.ByteWidth = 4
	case source.BigInt:
		c.Kind = Int64
		c.ByteWidth = 8

	case source.Real:
		c.Kind = Float32
		c.ByteWidth = 4
	case source.Double:
		c.Kind = Float64
		c.ByteWidth = 8

	case source.Decimal:
		p, s := d.Precision, d.Scale
		if p == 0 {
			p = MaxDecimalPrecision
		}
		if p > MaxDecimalPrecision {
			return c, &UnsupportedTypeError{Column: d.Name, Native: d.Type}
		}
		c.Kind = FixedDecimal
		c.Precision = p
		c.Scale = s
		// Digit string plus sign and decimal point.
		c.DeclaredWidth = p + 2

	case source.Char, source.VarChar, source.LongVarChar:
		c.Kind = Utf8Text
		c.DeclaredWidth = d.DisplaySize

	case source.Binary, source.VarBinary, source.LongVarBinary:
		c.Kind = Bytes
		c.DeclaredWidth = d.DisplaySize

	case source.Date:
		c.Kind = Date
		c.ByteWidth = 4

	case source.Time:
		c.Kind = TimeOfDay
		if d.Precision <= 3 {
			c.Unit = arrow.Millisecond
		} else {
			c.Unit = arrow.Microsecond
		}
		// HH:MM:SS plus point and fractional digits.
		c.DeclaredWidth = 8 + 1 + 9

	case source.Timestamp:
		c.Kind = Stamp
		switch {
		case d.Precision == 0:
			c.Unit = arrow.Second
		case d.Precision <= 3:
			c.Unit = arrow.Millisecond
		default:
			c.Unit = arrow.Microsecond
		}
		c.ByteWidth = 12

	default:
		return c, &UnsupportedTypeError{Column: d.Name, Native: d.Type}
	}

	return c, nil
}

// MapAll derives the full target schema, preserving column order.
func MapAll(descs []source.ColumnDescriptor) ([]TargetColumn, error) {
	cols := make([]TargetColumn, len(descs))
	for i, d := range descs {
		c, err := Map(d)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

// ArrowField returns the arrow field for a target column.
func (c TargetColumn) ArrowField() arrow.Field {
	f := arrow.Field{Name: c.Name, Nullable: c.Nullable}
	switch c.Kind {
	case Boolean:
		f.Type = arrow.FixedWidthTypes.Boolean
	case Int32:
		f.Type = arrow.PrimitiveTypes.Int32
	case Int64:
		f.Type = arrow.PrimitiveTypes.Int64
	case Float32:
		f.Type = arrow.PrimitiveTypes.Float32
	case Float64:
		f.Type = arrow.PrimitiveTypes.Float64
	case FixedDecimal:
		f.Type = &arrow.Decimal128Type{Precision: int32(c.Precision), Scale: int32(c.Scale)}
	case Utf8Text:
		f.Type = arrow.BinaryTypes.String
	case Bytes:
		f.Type = arrow.BinaryTypes.Binary
	case Date:
		f.Type = arrow.FixedWidthTypes.Date32
	case TimeOfDay:
		if c.Unit == arrow.Millisecond {
			f.Type = arrow.FixedWidthTypes.Time32ms
		} else {
			f.Type = arrow.FixedWidthTypes.Time64us
		}
	case Stamp:
		f.Type = &arrow.TimestampType{Unit: c.Unit, TimeZone: "UTC"}
	}
	return f
}

// ArrowSchema builds the output schema, mirroring the target column
// sequence in source column order.
func ArrowSchema(cols []TargetColumn) *arrow.Schema {
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = c.ArrowField()
	}
	return arrow.NewSchema(fields, nil)
}
