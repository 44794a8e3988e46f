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

package integrations

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/compress"
	parquetgo "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

func buildRecord(t *testing.T, ids []int64, names []string) arrow.Record {
	t.Helper()
	bldr := array.NewRecordBuilder(memory.NewGoAllocator(), testSchema())
	defer bldr.Release()
	for i := range ids {
		bldr.Field(0).(*array.Int64Builder).Append(ids[i])
		bldr.Field(1).(*array.StringBuilder).Append(names[i])
	}
	return bldr.NewRecord()
}

func TestParquetWriterRowGroups(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "groups.parquet")

	w, err := NewParquetWriter(path, testSchema(), WriterProperties(Codec("snappy"), 2))
	require.NoError(t, err)

	batches := []struct {
		ids   []int64
		names []string
	}{
		{[]int64{1, 2}, []string{"a", "b"}},
		{[]int64{3, 4}, []string{"c", "d"}},
		{[]int64{5}, []string{"e"}},
	}
	for _, b := range batches {
		rec := buildRecord(t, b.ids, b.names)
		require.NoError(t, w.Write(rec))
		rec.Release()
	}

	assert.Equal(t, int64(5), w.Rows())
	assert.Equal(t, 3, w.RowGroups(), "each flushed record closes one row group")
	digest := w.Digest()
	assert.NotZero(t, digest)
	require.NoError(t, w.Close())

	// Independent verification with a second Parquet implementation.
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	stat, err := f.Stat()
	require.NoError(t, err)
	pf, err := parquetgo.OpenFile(f, stat.Size())
	require.NoError(t, err, "file must be readable by a foreign implementation")
	assert.Equal(t, int64(5), pf.NumRows())
	assert.Len(t, pf.RowGroups(), 3)
	assert.Contains(t, pf.Metadata().CreatedBy, "sqlarc")
}

func TestParquetRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "roundtrip.parquet")

	w, err := NewParquetWriter(path, testSchema(), WriterProperties(Codec("zstd"), 1024))
	require.NoError(t, err)
	rec := buildRecord(t, []int64{10, 20, 30}, []string{"x", "y", "z"})
	require.NoError(t, w.Write(rec))
	rec.Release()
	require.NoError(t, w.Close())

	rd, err := NewParquetReader(context.Background(), path, NewDefaultParquetReadOptions())
	require.NoError(t, err)
	defer rd.Close()

	assert.True(t, rd.Schema().Equal(testSchema()), "schema survives the round trip")

	var ids []int64
	var names []string
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		idCol := rec.Column(0).(*array.Int64)
		nameCol := rec.Column(1).(*array.String)
		for i := 0; i < int(rec.NumRows()); i++ {
			ids = append(ids, idCol.Value(i))
			names = append(names, nameCol.Value(i))
		}
		rec.Release()
	}
	assert.Equal(t, []int64{10, 20, 30}, ids)
	assert.Equal(t, []string{"x", "y", "z"}, names)
}

func TestParquetWriterDigestTracksContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name string, ids []int64, names []string) uint64 {
		w, err := NewParquetWriter(filepath.Join(dir, name), testSchema(),
			WriterProperties(Codec("snappy"), 1024))
		require.NoError(t, err)
		rec := buildRecord(t, ids, names)
		require.NoError(t, w.Write(rec))
		rec.Release()
		require.NoError(t, w.Close())
		return w.Digest()
	}

	a := write("a.parquet", []int64{1, 2}, []string{"p", "q"})
	b := write("b.parquet", []int64{1, 2}, []string{"p", "q"})
	c := write("c.parquet", []int64{1, 2}, []string{"p", "Q"})

	assert.Equal(t, a, b, "identical content yields an identical digest")
	assert.NotEqual(t, a, c)
}

func TestCodecNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, compress.Codecs.Snappy, Codec("snappy"))
	assert.Equal(t, compress.Codecs.Zstd, Codec("zstd"))
	assert.Equal(t, compress.Codecs.Gzip, Codec("gzip"))
	assert.Equal(t, compress.Codecs.Uncompressed, Codec("none"))
	assert.Equal(t, compress.Codecs.Snappy, Codec(""), "unknown names fall back to snappy")
}
