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

// Package buffer owns the reusable row-batch memory the driver fetches
// into: one fixed-stride arena per column plus a parallel indicator array.
// Buffers are allocated once and reused across fetches; the pool hands out
// borrowed binding views, never copies.
package buffer

import (
	"fmt"

	"github.com/sqlarc/sqlarc/schema"
	"github.com/sqlarc/sqlarc/source"
)

// TruncationError reports a variable-length value that did not fit its
// bound buffer width. Recoverable once per column per batch under the
// widen-and-retry policy; otherwise fatal, since the engine cannot
// silently lose data.
type TruncationError struct {
	Column string
	Width  int
	Needed int
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("column %q: value of %d bytes truncated to buffer width %d",
		e.Column, e.Needed, e.Width)
}

// ColumnBuffer is one column's arena: capacity fixed-stride slots plus the
// per-row indicator array.
type ColumnBuffer struct {
	target   schema.TargetColumn
	stride   int
	capacity int
	data     []byte
	ind      []int64
	widened  bool
}

// Target returns the column's derived target type.
func (c *ColumnBuffer) Target() schema.TargetColumn { return c.target }

// Stride is the current per-row slot width in bytes.
func (c *ColumnBuffer) Stride() int { return c.stride }

// Binding returns the borrowed view the driver writes into and the
// converter reads from. It is invalidated by Widen.
func (c *ColumnBuffer) Binding() source.Binding {
	return source.Binding{Data: c.data, Stride: c.stride, Ind: c.ind}
}

// Widen reallocates the arena at a larger stride. Indicators are kept, so
// a re-fetch of the same window sees a clean slate only after the cursor
// rewrites them. Returns true the first time the column is widened within
// the current batch; the fetch cycle resets the flag per batch.
func (c *ColumnBuffer) Widen(stride int) bool {
	if c.widened {
		return false
	}
	c.stride = stride
	c.data = make([]byte, stride*c.capacity)
	c.widened = true
	return true
}

// Pool is the per-transfer set of column buffers. Column count and order
// are fixed and identical to the target schema.
type Pool struct {
	cols     []*ColumnBuffer
	capacity int
}

// NewPool sizes one buffer per column: fixed-width kinds at their element
// size, variable-width kinds at the declared width or fallbackWidth when
// the source reports no bound.
func NewPool(cols []schema.TargetColumn, capacity, fallbackWidth int) *Pool {
	p := &Pool{capacity: capacity, cols: make([]*ColumnBuffer, len(cols))}
	for i, c := range cols {
		stride := c.ByteWidth
		if c.Variable() {
			stride = c.DeclaredWidth
			if stride <= 0 {
				stride = fallbackWidth
			}
		}
		p.cols[i] = &ColumnBuffer{
			target:   c,
			stride:   stride,
			capacity: capacity,
			data:     make([]byte, stride*capacity),
			ind:      make([]int64, capacity),
		}
	}
	return p
}

// Capacity is the batch row capacity shared by all columns.
func (p *Pool) Capacity() int { return p.capacity }

// NumColumns returns the column count.
func (p *Pool) NumColumns() int { return len(p.cols) }

// Column returns the buffer for one column.
func (p *Pool) Column(i int) *ColumnBuffer { return p.cols[i] }

// ResetIndicators clears every indicator before a fetch so truncation or
// null flags from a previous batch never leak into rows that are fully
// fetched this time.
func (p *Pool) ResetIndicators() {
	for _, c := range p.cols {
		for i := range c.ind {
			c.ind[i] = 0
		}
		c.widened = false
	}
}

// Truncation identifies a column whose buffer was too narrow for at least
// one row of the current batch, and the widest value observed.
type Truncation struct {
	Column int
	Needed int
}

// Truncations scans the first n rows of every variable-width column and
// reports truncated columns with the stride they would need.
func (p *Pool) Truncations(n int) []Truncation {
	var out []Truncation
	for i, c := range p.cols {
		if !c.target.Variable() {
			continue
		}
		needed := 0
		for row := 0; row < n; row++ {
			if l := c.ind[row]; l > int64(c.stride) && int(l) > needed {
				needed = int(l)
			}
		}
		if needed > 0 {
			out = append(out, Truncation{Column: i, Needed: needed})
		}
	}
	return out
}
