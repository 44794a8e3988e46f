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

package convert

import (
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlarc/sqlarc/buffer"
	"github.com/sqlarc/sqlarc/schema"
)

func TestAppendBatchAllKinds(t *testing.T) {
	t.Parallel()

	cols := []schema.TargetColumn{
		{Name: "flag", Kind: schema.Boolean, ByteWidth: 1, Nullable: true},
		{Name: "small", Kind: schema.Int32, ByteWidth: 2},
		{Name: "id", Kind: schema.Int64, ByteWidth: 8},
		{Name: "weight", Kind: schema.Float64, ByteWidth: 8},
		{Name: "price", Kind: schema.FixedDecimal, Precision: 5, Scale: 2, DeclaredWidth: 7, Nullable: true},
		{Name: "name", Kind: schema.Utf8Text, DeclaredWidth: 10},
		{Name: "blob", Kind: schema.Bytes, DeclaredWidth: 8},
		{Name: "born", Kind: schema.Date, ByteWidth: 4},
		{Name: "wake", Kind: schema.TimeOfDay, Unit: arrow.Millisecond, DeclaredWidth: 18},
		{Name: "at", Kind: schema.Stamp, Unit: arrow.Microsecond, ByteWidth: 12},
	}

	p := buffer.NewPool(cols, 2, 64)

	p.Column(0).Binding().PutBool(0, true)
	p.Column(0).Binding().SetNull(1)

	p.Column(1).Binding().PutInt(0, -300)
	p.Column(1).Binding().PutInt(1, 17)

	p.Column(2).Binding().PutInt(0, 1)
	p.Column(2).Binding().PutInt(1, 1<<40)

	p.Column(3).Binding().PutFloat(0, 2.25)
	p.Column(3).Binding().PutFloat(1, -0.5)

	p.Column(4).Binding().PutString(0, "123.45")
	p.Column(4).Binding().SetNull(1)

	p.Column(5).Binding().PutString(0, "alice")
	p.Column(5).Binding().PutString(1, "bob")

	p.Column(6).Binding().PutBytes(0, []byte{0xde, 0xad})
	p.Column(6).Binding().PutBytes(1, []byte{})

	p.Column(7).Binding().PutDate(0, 1970, 1, 2)
	p.Column(7).Binding().PutDate(1, 1969, 12, 31) // pre-epoch

	p.Column(8).Binding().PutString(0, "01:02:03")
	p.Column(8).Binding().PutString(1, "23:59:59.25")

	at := time.Date(2024, 6, 1, 12, 30, 0, 123456789, time.UTC)
	p.Column(9).Binding().PutTimestamp(0, at)
	p.Column(9).Binding().PutTimestamp(1, time.Unix(0, 0).UTC())

	mem := memory.NewGoAllocator()
	acc := NewAccumulator(mem, cols)
	defer acc.Release()

	require.NoError(t, acc.AppendBatch(p, 2))
	assert.Equal(t, 2, acc.Rows())

	rec := acc.Flush()
	defer rec.Release()
	assert.Equal(t, 0, acc.Rows(), "flush resets the accumulator")
	require.EqualValues(t, 2, rec.NumRows())

	flags := rec.Column(0).(*array.Boolean)
	assert.True(t, flags.Value(0))
	assert.True(t, flags.IsNull(1), "null indicator becomes a null bitmap entry")

	smalls := rec.Column(1).(*array.Int32)
	assert.Equal(t, int32(-300), smalls.Value(0), "narrow ints are sign-extended before widening")
	assert.Equal(t, int32(17), smalls.Value(1))

	ids := rec.Column(2).(*array.Int64)
	assert.Equal(t, int64(1<<40), ids.Value(1))

	weights := rec.Column(3).(*array.Float64)
	assert.Equal(t, 2.25, weights.Value(0))

	prices := rec.Column(4).(*array.Decimal128)
	assert.Equal(t, decimal128.FromI64(12345), prices.Value(0), "decimal is exact at the declared scale")
	assert.True(t, prices.IsNull(1))

	names := rec.Column(5).(*array.String)
	assert.Equal(t, "alice", names.Value(0))

	blobs := rec.Column(6).(*array.Binary)
	assert.Equal(t, []byte{0xde, 0xad}, blobs.Value(0))
	assert.Equal(t, 0, len(blobs.Value(1)), "empty binary is a value, not a null")
	assert.False(t, blobs.IsNull(1))

	dates := rec.Column(7).(*array.Date32)
	assert.Equal(t, arrow.Date32(1), dates.Value(0))
	assert.Equal(t, arrow.Date32(-1), dates.Value(1), "pre-epoch dates floor toward negative infinity")

	wakes := rec.Column(8).(*array.Time32)
	assert.Equal(t, arrow.Time32(3723000), wakes.Value(0), "01:02:03 in milliseconds")
	assert.Equal(t, arrow.Time32(86399250), wakes.Value(1))

	stamps := rec.Column(9).(*array.Timestamp)
	assert.Equal(t, arrow.Timestamp(at.UnixMicro()), stamps.Value(0), "nanoseconds floor to the column unit")
	assert.Equal(t, arrow.Timestamp(0), stamps.Value(1))
}

func TestAppendBatchTimestampUnits(t *testing.T) {
	t.Parallel()
	at := time.Date(2001, 2, 3, 4, 5, 6, 789012345, time.UTC)

	tests := []struct {
		description string
		unit        arrow.TimeUnit
		want        int64
	}{
		{"seconds floor the fraction away", arrow.Second, at.Unix()},
		{"milliseconds keep three digits", arrow.Millisecond, at.UnixMilli()},
		{"microseconds keep six digits", arrow.Microsecond, at.UnixMicro()},
	}

	for _, test := range tests {
		test := test
		t.Run(test.description, func(t *testing.T) {
			t.Parallel()
			cols := []schema.TargetColumn{{Name: "at", Kind: schema.Stamp, Unit: test.unit, ByteWidth: 12}}
			p := buffer.NewPool(cols, 1, 64)
			p.Column(0).Binding().PutTimestamp(0, at)

			acc := NewAccumulator(memory.NewGoAllocator(), cols)
			defer acc.Release()
			require.NoError(t, acc.AppendBatch(p, 1))

			rec := acc.Flush()
			defer rec.Release()
			assert.Equal(t, arrow.Timestamp(test.want), rec.Column(0).(*array.Timestamp).Value(0))
		})
	}
}

func TestAppendBatchRejectsTruncatedValue(t *testing.T) {
	t.Parallel()
	cols := []schema.TargetColumn{{Name: "name", Kind: schema.Utf8Text, DeclaredWidth: 4}}
	p := buffer.NewPool(cols, 1, 64)
	p.Column(0).Binding().PutString(0, "much too long")

	acc := NewAccumulator(memory.NewGoAllocator(), cols)
	defer acc.Release()

	err := acc.AppendBatch(p, 1)
	var ce *ConversionError
	require.ErrorAs(t, err, &ce, "a truncated value reaching conversion is a contract breach")
	assert.Equal(t, "name", ce.Column)
	assert.Equal(t, 0, ce.Row)
}

func TestAppendBatchRejectsBadDecimal(t *testing.T) {
	t.Parallel()
	cols := []schema.TargetColumn{{Name: "price", Kind: schema.FixedDecimal, Precision: 5, Scale: 2, DeclaredWidth: 7}}
	p := buffer.NewPool(cols, 1, 64)
	p.Column(0).Binding().PutString(0, "1.2.3")

	acc := NewAccumulator(memory.NewGoAllocator(), cols)
	defer acc.Release()

	err := acc.AppendBatch(p, 1)
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "price", ce.Column)
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		description string
		text        string
		wantNanos   int64
		wantErr     bool
	}{
		{"midnight", "00:00:00", 0, false},
		{"plain seconds", "01:02:03", 3723 * 1_000_000_000, false},
		{"millisecond fraction", "00:00:00.5", 500_000_000, false},
		{"nanosecond fraction", "00:00:01.000000001", 1_000_000_001, false},
		{"fraction beyond nanos is dropped", "00:00:00.0000000015", 1, false},
		{"end of day", "23:59:59", 86399 * 1_000_000_000, false},
		{"too short", "1:2:3", 0, true},
		{"bad separator", "01-02-03", 0, true},
		{"trailing dot", "01:02:03.", 0, true},
		{"letters in fraction", "01:02:03.1x", 0, true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.description, func(t *testing.T) {
			t.Parallel()
			got, err := parseTimeOfDay([]byte(test.text))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantNanos, got)
		})
	}
}

func TestFloorDiv(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(0), floorDiv(0, 86400))
	assert.Equal(t, int64(0), floorDiv(86399, 86400))
	assert.Equal(t, int64(1), floorDiv(86400, 86400))
	assert.Equal(t, int64(-1), floorDiv(-1, 86400), "negative remainders round down")
	assert.Equal(t, int64(-1), floorDiv(-86400, 86400))
	assert.Equal(t, int64(-2), floorDiv(-86401, 86400))
}
