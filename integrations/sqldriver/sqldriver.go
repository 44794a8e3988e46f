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

// Package integrations implements the source contract on top of
// database/sql, so any registered driver (sqlite, mysql, pgx, odbc, ...)
// can feed the transfer engine. Rows are scanned into a staged window of
// driver values, then encoded into the bound column buffers with
// ODBC-style indicators; the staged window makes truncation retries
// (Refetch after a rebind) possible without advancing the cursor.
package integrations

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sqlarc/sqlarc/source"
)

// Connector opens database/sql connections for a named driver.
type Connector struct {
	Driver string
}

// Connect opens and pings the database.
func (c Connector) Connect(ctx context.Context, dsn string) (source.Connection, error) {
	db, err := sql.Open(c.Driver, dsn)
	if err != nil {
		return nil, &source.ConnectionError{Driver: c.Driver, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &source.ConnectionError{Driver: c.Driver, Err: err}
	}
	return &connection{db: db}, nil
}

type connection struct {
	db *sql.DB
}

func (c *connection) Execute(ctx context.Context, query string, args ...any) (source.Cursor, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &source.QueryError{SQL: query, Err: err}
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, &source.QueryError{SQL: query, Err: err}
	}
	descs := make([]source.ColumnDescriptor, len(types))
	for i, ct := range types {
		descs[i] = describeColumn(ct)
	}
	return &cursor{
		rows:  rows,
		descs: descs,
		binds: make([]source.Binding, len(descs)),
		bound: make([]bool, len(descs)),
	}, nil
}

func (c *connection) Close() error {
	return c.db.Close()
}

var reTypeName = regexp.MustCompile(`^([A-Z][A-Z0-9 ]*?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

// describeColumn derives a column descriptor from database/sql metadata.
// Length, precision and scale come from the driver when it reports them,
// falling back to the arguments in the declared type name (e.g.
// "VARCHAR(10)", "DECIMAL(5,2)").
func describeColumn(ct *sql.ColumnType) source.ColumnDescriptor {
	d := source.ColumnDescriptor{Name: ct.Name(), Nullable: true}
	if nullable, ok := ct.Nullable(); ok {
		d.Nullable = nullable
	}

	base := strings.ToUpper(strings.TrimSpace(ct.DatabaseTypeName()))
	arg1, arg2 := -1, -1
	if m := reTypeName.FindStringSubmatch(base); m != nil {
		base = strings.TrimSpace(m[1])
		if m[2] != "" {
			arg1, _ = strconv.Atoi(m[2])
		}
		if m[3] != "" {
			arg2, _ = strconv.Atoi(m[3])
		}
	}

	d.Type = nativeTypeFor(base)

	switch d.Type {
	case source.Decimal:
		if p, s, ok := ct.DecimalSize(); ok {
			d.Precision, d.Scale = int(p), int(s)
		} else if arg1 > 0 {
			d.Precision = arg1
			if arg2 >= 0 {
				d.Scale = arg2
			}
		}
	case source.Char, source.VarChar, source.Binary, source.VarBinary:
		if l, ok := ct.Length(); ok && l > 0 {
			d.DisplaySize = int(l)
		} else if arg1 > 0 {
			d.DisplaySize = arg1
		}
	case source.Time:
		if arg1 >= 0 {
			d.Precision = arg1
		}
	case source.Timestamp:
		// Fractional-second digits; database/sql rarely reports them, so
		// default to microseconds rather than dropping sub-second data.
		d.Precision = 6
		if arg1 >= 0 {
			d.Precision = arg1
		}
	}
	return d
}

func nativeTypeFor(base string) source.NativeType {
	switch base {
	case "BOOL", "BOOLEAN", "BIT":
		return source.Bit
	case "TINYINT", "INT1":
		return source.TinyInt
	case "SMALLINT", "INT2", "SMALLSERIAL":
		return source.SmallInt
	case "INT", "INTEGER", "INT4", "MEDIUMINT", "SERIAL":
		return source.Integer
	case "BIGINT", "INT8", "BIGSERIAL":
		return source.BigInt
	case "REAL", "FLOAT4":
		return source.Real
	case "DOUBLE", "DOUBLE PRECISION", "FLOAT", "FLOAT8":
		return source.Double
	case "DECIMAL", "NUMERIC", "NUMBER", "MONEY":
		return source.Decimal
	case "CHAR", "NCHAR", "CHARACTER", "BPCHAR":
		return source.Char
	case "VARCHAR", "NVARCHAR", "VARCHAR2", "CHARACTER VARYING":
		return source.VarChar
	case "TEXT", "NTEXT", "CLOB", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "JSON", "JSONB", "XML", "UUID":
		return source.LongVarChar
	case "BINARY":
		return source.Binary
	case "VARBINARY":
		return source.VarBinary
	case "BLOB", "BYTEA", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "IMAGE":
		return source.LongVarBinary
	case "DATE":
		return source.Date
	case "TIME", "TIMETZ", "TIME WITH TIME ZONE", "TIME WITHOUT TIME ZONE":
		return source.Time
	case "TIMESTAMP", "TIMESTAMPTZ", "DATETIME", "DATETIME2", "SMALLDATETIME",
		"TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE":
		return source.Timestamp
	default:
		return source.Unknown
	}
}

type cursor struct {
	rows     *sql.Rows
	descs    []source.ColumnDescriptor
	binds    []source.Binding
	bound    []bool
	staged   [][]any
	capacity int
	batch    int
	done     bool
}

func (c *cursor) Columns() ([]source.ColumnDescriptor, error) {
	return c.descs, nil
}

func (c *cursor) Bind(col int, b source.Binding) error {
	if col < 0 || col >= len(c.binds) {
		return fmt.Errorf("bind: column index %d out of range", col)
	}
	if c.bound[col] && b.Capacity() != c.capacity && c.capacity != 0 {
		return fmt.Errorf("bind: column %d capacity %d does not match pool capacity %d",
			col, b.Capacity(), c.capacity)
	}
	c.binds[col] = b
	c.bound[col] = true
	c.capacity = b.Capacity()
	return nil
}

// Fetch advances the staged window by up to the bound capacity and
// encodes it into the bound buffers.
func (c *cursor) Fetch(ctx context.Context) (int, error) {
	for i, ok := range c.bound {
		if !ok {
			return 0, &source.FetchError{Batch: c.batch, Err: fmt.Errorf("column %d is not bound", i)}
		}
	}
	c.batch++
	c.staged = c.staged[:0]

	for !c.done && len(c.staged) < c.capacity {
		if err := ctx.Err(); err != nil {
			// Stop staging; the rows gathered so far still form a batch.
			break
		}
		if !c.rows.Next() {
			c.done = true
			break
		}
		vals := make([]any, len(c.descs))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := c.rows.Scan(ptrs...); err != nil {
			return 0, &source.FetchError{Batch: c.batch, Err: err}
		}
		c.staged = append(c.staged, vals)
	}
	if err := c.rows.Err(); err != nil {
		return 0, &source.FetchError{Batch: c.batch, Err: err}
	}
	return c.encode()
}

// Refetch re-encodes the staged window into the current bindings without
// advancing the cursor.
func (c *cursor) Refetch(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.encode()
}

func (c *cursor) Close() error {
	return c.rows.Close()
}

func (c *cursor) encode() (int, error) {
	for r, vals := range c.staged {
		for i, v := range vals {
			if err := encodeValue(c.binds[i], c.descs[i], r, v); err != nil {
				return 0, &source.FetchError{Batch: c.batch, Err: err}
			}
		}
	}
	return len(c.staged), nil
}

// encodeValue writes one driver value into its bound slot. Values that do
// not fit a variable-width slot are copied as a prefix with the indicator
// carrying the full length, which the engine sees as truncation.
func encodeValue(b source.Binding, d source.ColumnDescriptor, row int, v any) error {
	if v == nil {
		b.SetNull(row)
		return nil
	}

	switch d.Type {
	case source.Bit:
		switch x := v.(type) {
		case bool:
			b.PutBool(row, x)
		case int64:
			b.PutBool(row, x != 0)
		case []byte:
			b.PutBool(row, len(x) > 0 && x[0] != 0 && x[0] != '0')
		default:
			return typeMismatch(d, v)
		}

	case source.TinyInt, source.SmallInt, source.Integer, source.BigInt:
		switch x := v.(type) {
		case int64:
			b.PutInt(row, x)
		case string:
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return typeMismatch(d, v)
			}
			b.PutInt(row, n)
		case []byte:
			n, err := strconv.ParseInt(string(x), 10, 64)
			if err != nil {
				return typeMismatch(d, v)
			}
			b.PutInt(row, n)
		default:
			return typeMismatch(d, v)
		}

	case source.Real, source.Double:
		switch x := v.(type) {
		case float64:
			b.PutFloat(row, x)
		case int64:
			b.PutFloat(row, float64(x))
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return typeMismatch(d, v)
			}
			b.PutFloat(row, f)
		case []byte:
			f, err := strconv.ParseFloat(string(x), 64)
			if err != nil {
				return typeMismatch(d, v)
			}
			b.PutFloat(row, f)
		default:
			return typeMismatch(d, v)
		}

	case source.Decimal:
		// Transported as a digit string; numeric driver values are
		// rendered at the declared scale so no digits are invented.
		switch x := v.(type) {
		case string:
			b.PutString(row, x)
		case []byte:
			b.PutBytes(row, x)
		case int64:
			b.PutString(row, strconv.FormatInt(x, 10))
		case float64:
			b.PutString(row, strconv.FormatFloat(x, 'f', d.Scale, 64))
		default:
			return typeMismatch(d, v)
		}

	case source.Char, source.VarChar, source.LongVarChar:
		switch x := v.(type) {
		case string:
			b.PutString(row, x)
		case []byte:
			b.PutBytes(row, x)
		default:
			b.PutString(row, fmt.Sprintf("%v", x))
		}

	case source.Binary, source.VarBinary, source.LongVarBinary:
		switch x := v.(type) {
		case []byte:
			b.PutBytes(row, x)
		case string:
			b.PutBytes(row, []byte(x))
		default:
			return typeMismatch(d, v)
		}

	case source.Date:
		switch x := v.(type) {
		case time.Time:
			y, mo, day := x.Date()
			b.PutDate(row, y, int(mo), day)
		case string:
			t, err := time.Parse("2006-01-02", x)
			if err != nil {
				return typeMismatch(d, v)
			}
			y, mo, day := t.Date()
			b.PutDate(row, y, int(mo), day)
		default:
			return typeMismatch(d, v)
		}

	case source.Time:
		switch x := v.(type) {
		case time.Time:
			b.PutString(row, x.Format("15:04:05.000000"))
		case string:
			b.PutString(row, x)
		case []byte:
			b.PutBytes(row, x)
		default:
			return typeMismatch(d, v)
		}

	case source.Timestamp:
		switch x := v.(type) {
		case time.Time:
			b.PutTimestamp(row, x)
		case string:
			t, err := parseTimestampText(x)
			if err != nil {
				return typeMismatch(d, v)
			}
			b.PutTimestamp(row, t)
		default:
			return typeMismatch(d, v)
		}

	default:
		return fmt.Errorf("column %q: no encoding for source type %s", d.Name, d.Type)
	}
	return nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

func parseTimestampText(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp text %q", s)
}

func typeMismatch(d source.ColumnDescriptor, v any) error {
	return fmt.Errorf("column %q (%s): unexpected driver value of type %T", d.Name, d.Type, v)
}
