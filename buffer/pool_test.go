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

package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlarc/sqlarc/schema"
)

func poolColumns() []schema.TargetColumn {
	return []schema.TargetColumn{
		{Name: "id", Kind: schema.Int64, ByteWidth: 8},
		{Name: "name", Kind: schema.Utf8Text, DeclaredWidth: 10},
		{Name: "note", Kind: schema.Utf8Text}, // unsized
		{Name: "price", Kind: schema.FixedDecimal, Precision: 5, Scale: 2, DeclaredWidth: 7},
	}
}

func TestNewPoolSizing(t *testing.T) {
	t.Parallel()
	p := NewPool(poolColumns(), 4, 256)

	require.Equal(t, 4, p.NumColumns())
	assert.Equal(t, 4, p.Capacity())

	assert.Equal(t, 8, p.Column(0).Stride(), "fixed-width column uses its element size")
	assert.Equal(t, 10, p.Column(1).Stride(), "sized text uses its declared width")
	assert.Equal(t, 256, p.Column(2).Stride(), "unsized text falls back to the configured width")
	assert.Equal(t, 7, p.Column(3).Stride(), "decimal width is precision plus sign and point")

	for i := 0; i < p.NumColumns(); i++ {
		b := p.Column(i).Binding()
		assert.Equal(t, 4, b.Capacity(), "every binding spans the batch capacity")
		assert.Len(t, b.Data, p.Column(i).Stride()*4)
	}
}

func TestWidenOncePerBatch(t *testing.T) {
	t.Parallel()
	p := NewPool(poolColumns(), 2, 64)
	cb := p.Column(1)

	require.True(t, cb.Widen(24), "first widen in a batch succeeds")
	assert.Equal(t, 24, cb.Stride())
	assert.Len(t, cb.Binding().Data, 48, "arena is reallocated at the new stride")

	assert.False(t, cb.Widen(48), "second widen in the same batch is refused")
	assert.Equal(t, 24, cb.Stride(), "stride unchanged after the refused widen")

	p.ResetIndicators()
	assert.True(t, cb.Widen(48), "a new batch may widen the column again")
	assert.Equal(t, 48, cb.Stride())
}

func TestResetIndicatorsClearsStaleFlags(t *testing.T) {
	t.Parallel()
	p := NewPool(poolColumns(), 3, 64)
	b := p.Column(1).Binding()

	// A short second batch must not inherit nulls or lengths from the
	// previous, longer batch.
	b.SetNull(0)
	b.PutString(1, "hello")
	b.PutString(2, "a very long value that truncates")
	require.True(t, b.IsNull(0))
	require.True(t, b.Truncated(2))

	p.ResetIndicators()
	b = p.Column(1).Binding()
	for row := 0; row < 3; row++ {
		assert.False(t, b.IsNull(row), "row %d should not be null after reset", row)
		assert.False(t, b.Truncated(row), "row %d should not be truncated after reset", row)
		assert.Equal(t, 0, b.Length(row))
	}
}

func TestTruncationsScan(t *testing.T) {
	t.Parallel()
	p := NewPool(poolColumns(), 3, 64)

	name := p.Column(1).Binding()
	name.PutString(0, "short")
	name.PutString(1, "definitely too long")  // 19 bytes vs stride 10
	name.PutString(2, "even longer than row") // 20 bytes

	// Fixed-width column with a large indicator must never be reported.
	id := p.Column(0).Binding()
	id.PutInt(0, 1)

	trs := p.Truncations(3)
	require.Len(t, trs, 1, "only the narrow text column is truncated")
	assert.Equal(t, 1, trs[0].Column)
	assert.Equal(t, 20, trs[0].Needed, "needed width is the widest truncated value")

	// Rows beyond n are out of scope for the scan.
	trs = p.Truncations(1)
	assert.Empty(t, trs, "first row fits, so a one-row scan sees no truncation")
}

func TestTruncationErrorMessage(t *testing.T) {
	t.Parallel()
	err := &TruncationError{Column: "name", Width: 10, Needed: 19}
	assert.Contains(t, err.Error(), `"name"`)
	assert.Contains(t, err.Error(), "19")
	assert.Contains(t, err.Error(), "10")
}
