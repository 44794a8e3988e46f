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

package source

import "fmt"

// ConnectionError reports a failure to open a session against the source.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect via %s driver: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failure to execute the export query.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	sql := e.SQL
	if len(sql) > 100 {
		sql = sql[:100] + "..."
	}
	return fmt.Sprintf("query failed: %v (SQL: %s)", e.Err, sql)
}

func (e *QueryError) Unwrap() error { return e.Err }

// FetchError reports a driver failure while filling bound buffers. It is
// always fatal; no partial batch is forwarded when the driver itself errors.
type FetchError struct {
	Batch int
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed on batch %d: %v", e.Batch, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
