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

// Package integrations provides a DuckDB-backed Arrow record reader via
// ADBC. DuckDB already speaks Arrow natively, so queries against it skip
// the row-at-a-time staging path entirely and stream record batches
// straight into the Parquet writer.
package integrations

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-adbc/go/adbc/drivermgr"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// DriverPathEnv names the environment variable that overrides the
// location of the DuckDB shared library loaded by the ADBC driver
// manager.
const DriverPathEnv = "SQLARC_DUCKDB_DRIVER"

const defaultDriverPath = "/usr/local/lib/libduckdb.so"

// Extension is a DuckDB extension to install and load before the query
// runs.
type Extension struct {
	Name string
}

// ParseExtensions splits a comma-separated extension list ("httpfs, json")
// into Extensions, dropping empty entries.
func ParseExtensions(names string) []Extension {
	var exts []Extension
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			exts = append(exts, Extension{Name: name})
		}
	}
	return exts
}

// ReaderOptions configures a DuckDB query reader.
type ReaderOptions struct {
	Query      string
	Extensions []Extension
}

// Reader streams Arrow record batches out of a DuckDB query. It
// implements interfaces.Reader.
type Reader struct {
	db     adbc.Database
	conn   adbc.Connection
	stmt   adbc.Statement
	stream array.RecordReader
	schema *arrow.Schema
}

// NewReader opens the database at path (":memory:" or a file), loads the
// requested extensions, executes the query, and returns a streaming
// reader over its result batches.
func NewReader(ctx context.Context, path string, opts ReaderOptions) (*Reader, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("duckdb: query must not be empty")
	}

	driverPath := os.Getenv(DriverPathEnv)
	if driverPath == "" {
		driverPath = defaultDriverPath
	}

	var drv drivermgr.Driver
	db, err := drv.NewDatabase(map[string]string{
		"driver":     driverPath,
		"entrypoint": "duckdb_adbc_init",
		"path":       path,
	})
	if err != nil {
		return nil, fmt.Errorf("duckdb: open database: %w", err)
	}

	conn, err := db.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open connection: %w", err)
	}

	for _, ext := range opts.Extensions {
		if err := loadExtension(ctx, conn, ext.Name); err != nil {
			conn.Close()
			return nil, err
		}
	}

	stmt, err := conn.NewStatement()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("duckdb: new statement: %w", err)
	}
	if err := stmt.SetSqlQuery(opts.Query); err != nil {
		stmt.Close()
		conn.Close()
		return nil, fmt.Errorf("duckdb: set query: %w", err)
	}

	stream, _, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		stmt.Close()
		conn.Close()
		return nil, fmt.Errorf("duckdb: execute query: %w", err)
	}

	return &Reader{
		db:     db,
		conn:   conn,
		stmt:   stmt,
		stream: stream,
		schema: stream.Schema(),
	}, nil
}

// Read returns the next record batch, or io.EOF once the result set is
// exhausted. The returned record is retained for the caller.
func (r *Reader) Read() (arrow.Record, error) {
	if r.stream.Next() {
		rec := r.stream.Record()
		rec.Retain()
		return rec, nil
	}
	if err := r.stream.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("duckdb: read batch: %w", err)
	}
	return nil, io.EOF
}

// Schema returns the Arrow schema of the result set.
func (r *Reader) Schema() *arrow.Schema {
	return r.schema
}

// Close releases the result stream and closes the connection.
func (r *Reader) Close() error {
	r.stream.Release()
	if err := r.stmt.Close(); err != nil {
		r.conn.Close()
		return fmt.Errorf("duckdb: close statement: %w", err)
	}
	return r.conn.Close()
}

func loadExtension(ctx context.Context, conn adbc.Connection, name string) error {
	for _, sql := range []string{
		fmt.Sprintf("INSTALL %s;", name),
		fmt.Sprintf("LOAD %s;", name),
	} {
		if err := execStatement(ctx, conn, sql); err != nil {
			return fmt.Errorf("duckdb: extension %s: %w", name, err)
		}
	}
	return nil
}

func execStatement(ctx context.Context, conn adbc.Connection, sql string) error {
	stmt, err := conn.NewStatement()
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err := stmt.SetSqlQuery(sql); err != nil {
		return err
	}
	out, _, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		return err
	}
	out.Release()
	return nil
}
