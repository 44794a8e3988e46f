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

// Package source defines the contract between the transfer engine and a
// row-oriented data source driver: describe the result columns, bind
// column-wise buffers, and fetch batches of rows into them. Implementations
// live under integrations/ (e.g. integrations/sqldriver for database/sql).
package source

import "context"

// NativeType identifies the source column type as reported by the driver.
type NativeType int

const (
	Unknown NativeType = iota
	Bit
	TinyInt
	SmallInt
	Integer
	BigInt
	Real
	Double
	Decimal
	Char
	VarChar
	LongVarChar
	Binary
	VarBinary
	LongVarBinary
	Date
	Time
	Timestamp
)

var nativeTypeNames = map[NativeType]string{
	Unknown:       "UNKNOWN",
	Bit:           "BIT",
	TinyInt:       "TINYINT",
	SmallInt:      "SMALLINT",
	Integer:       "INTEGER",
	BigInt:        "BIGINT",
	Real:          "REAL",
	Double:        "DOUBLE",
	Decimal:       "DECIMAL",
	Char:          "CHAR",
	VarChar:       "VARCHAR",
	LongVarChar:   "LONGVARCHAR",
	Binary:        "BINARY",
	VarBinary:     "VARBINARY",
	LongVarBinary: "LONGVARBINARY",
	Date:          "DATE",
	Time:          "TIME",
	Timestamp:     "TIMESTAMP",
}

func (t NativeType) String() string {
	if s, ok := nativeTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ColumnDescriptor describes one result-set column as reported by the
// driver. It is immutable once obtained; column order is fixed for the
// whole transfer.
type ColumnDescriptor struct {
	Name        string
	Type        NativeType
	Nullable    bool
	DisplaySize int // declared max width in bytes for text/binary; 0 means unknown or unbounded
	Precision   int // decimal precision, or fractional-second digits for time/timestamp
	Scale       int // decimal scale
}

// Connector opens connections to a data source.
type Connector interface {
	Connect(ctx context.Context, dsn string) (Connection, error)
}

// Connection is an open session against the source.
type Connection interface {
	// Execute runs the query and returns a cursor over its result set.
	Execute(ctx context.Context, query string, args ...any) (Cursor, error)
	Close() error
}

// Cursor is a forward-only window over a result set that fills bound
// column buffers batch by batch.
type Cursor interface {
	// Columns describes the result set, in column order.
	Columns() ([]ColumnDescriptor, error)

	// Bind attaches a column buffer to the given column index. Rebinding
	// is allowed between fetches, e.g. after the caller widened a buffer.
	Bind(col int, b Binding) error

	// Fetch advances the cursor by up to the bound capacity and fills the
	// bound buffers. It returns the number of rows delivered; 0 signals
	// end of result.
	Fetch(ctx context.Context) (int, error)

	// Refetch re-delivers the most recent window into the current
	// bindings without advancing the cursor. Used after a truncation
	// retry rebound a wider buffer.
	Refetch(ctx context.Context) (int, error)

	Close() error
}
