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

// Package convert turns raw buffer-encoded batches into the typed,
// nullable columnar representation accumulated for the next row group.
// Conversion is pure per row and column; the accumulator is the only
// state it mutates.
package convert

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/sqlarc/sqlarc/buffer"
	"github.com/sqlarc/sqlarc/schema"
)

// ConversionError reports a malformed value or an upstream contract
// breach (e.g. a truncated value reaching conversion). Always fatal.
type ConversionError struct {
	Column string
	Row    int
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("column %q row %d: %v", e.Column, e.Row, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Accumulator grows one typed columnar buffer with null bitmap per output
// column until the current row group is full, then flushes it as an arrow
// record.
type Accumulator struct {
	cols []schema.TargetColumn
	bldr *array.RecordBuilder
	rows int
}

// NewAccumulator builds typed builders matching the target schema.
func NewAccumulator(mem memory.Allocator, cols []schema.TargetColumn) *Accumulator {
	return &Accumulator{
		cols: cols,
		bldr: array.NewRecordBuilder(mem, schema.ArrowSchema(cols)),
	}
}

// Rows is the number of rows accumulated since the last flush.
func (a *Accumulator) Rows() int { return a.rows }

// Flush assembles the accumulated columns into a record and resets the
// builders. The caller owns the returned record and must Release it.
func (a *Accumulator) Flush() arrow.Record {
	a.rows = 0
	return a.bldr.NewRecord()
}

// Release frees the underlying builders.
func (a *Accumulator) Release() { a.bldr.Release() }

// AppendBatch converts the first n rows of every column in the filled
// pool. Each row contributes exactly one value or null per column; a
// failed row fails the whole transfer, so no row ever appears partially
// converted in the output.
func (a *Accumulator) AppendBatch(p *buffer.Pool, n int) error {
	for i := range a.cols {
		if err := a.appendColumn(i, p.Column(i), n); err != nil {
			return err
		}
	}
	a.rows += n
	return nil
}

func (a *Accumulator) appendColumn(i int, cb *buffer.ColumnBuffer, n int) error {
	col := a.cols[i]
	bind := cb.Binding()
	fb := a.bldr.Field(i)

	for row := 0; row < n; row++ {
		if bind.IsNull(row) {
			fb.AppendNull()
			continue
		}
		if col.Variable() && bind.Truncated(row) {
			// Truncation is resolved by the fetch cycle before batches
			// reach conversion; hitting one here is a buffer-sizing bug.
			return &ConversionError{Column: col.Name, Row: row,
				Err: fmt.Errorf("truncated value reached conversion (buffer width %d, value %d bytes)",
					cb.Stride(), bind.Length(row))}
		}

		switch col.Kind {
		case schema.Boolean:
			fb.(*array.BooleanBuilder).Append(bind.Bool(row))

		case schema.Int32:
			fb.(*array.Int32Builder).Append(int32(bind.Int(row)))

		case schema.Int64:
			fb.(*array.Int64Builder).Append(bind.Int(row))

		case schema.Float32:
			fb.(*array.Float32Builder).Append(bind.Float32(row))

		case schema.Float64:
			fb.(*array.Float64Builder).Append(bind.Float(row))

		case schema.FixedDecimal:
			unscaled, err := ParseUnscaled(bind.Bytes(row), col.Precision, col.Scale)
			if err != nil {
				return &ConversionError{Column: col.Name, Row: row, Err: err}
			}
			fb.(*array.Decimal128Builder).Append(decimal128.FromBigInt(unscaled))

		case schema.Utf8Text:
			fb.(*array.StringBuilder).Append(string(bind.Bytes(row)))

		case schema.Bytes:
			fb.(*array.BinaryBuilder).Append(bind.Bytes(row))

		case schema.Date:
			y, mo, d := bind.Date(row)
			t := dateTime(y, mo, d)
			fb.(*array.Date32Builder).Append(arrow.Date32(floorDiv(t.Unix(), 86400)))

		case schema.TimeOfDay:
			nanos, err := parseTimeOfDay(bind.Bytes(row))
			if err != nil {
				return &ConversionError{Column: col.Name, Row: row, Err: err}
			}
			if col.Unit == arrow.Millisecond {
				fb.(*array.Time32Builder).Append(arrow.Time32(nanos / 1_000_000))
			} else {
				fb.(*array.Time64Builder).Append(arrow.Time64(nanos / 1_000))
			}

		case schema.Stamp:
			t := bind.Timestamp(row)
			var v int64
			switch col.Unit {
			case arrow.Second:
				v = t.Unix()
			case arrow.Millisecond:
				v = t.UnixMilli()
			default:
				v = t.UnixMicro()
			}
			fb.(*array.TimestampBuilder).Append(arrow.Timestamp(v))

		default:
			return &ConversionError{Column: col.Name, Row: row,
				Err: fmt.Errorf("no conversion for target kind %s", col.Kind)}
		}
	}
	return nil
}
