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

package transfer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filesystem "github.com/sqlarc/sqlarc/integrations/filesystem"
)

func TestStreamCopiesParquetToParquet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	first := filepath.Join(dir, "first.parquet")
	second := filepath.Join(dir, "second.parquet")

	// Produce a source file through the engine, then copy it record-wise.
	res, err := Run(context.Background(), threeColumnSource(), "fake://", "q", first, Config{BatchSize: 2})
	require.NoError(t, err)

	reader, err := filesystem.NewParquetReader(context.Background(), first, filesystem.NewDefaultParquetReadOptions())
	require.NoError(t, err)

	writer, err := filesystem.NewParquetWriter(second, reader.Schema(),
		filesystem.WriterProperties(filesystem.Codec("snappy"), 1024))
	require.NoError(t, err)

	metrics, err := Stream(context.Background(), reader, writer)
	require.NoError(t, err)
	assert.Equal(t, res.RowsTransferred, metrics.RowsProcessed)

	rows := readAllRecords(t, second)
	require.Len(t, rows, 3)
	assert.Equal(t, "alice", rows[0]["name"])
	assert.Equal(t, int64(3), rows[2]["id"])
}

func TestStreamHonorsCancellation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	first := filepath.Join(dir, "src.parquet")

	_, err := Run(context.Background(), threeColumnSource(), "fake://", "q", first, Config{})
	require.NoError(t, err)

	reader, err := filesystem.NewParquetReader(context.Background(), first, filesystem.NewDefaultParquetReadOptions())
	require.NoError(t, err)
	writer, err := filesystem.NewParquetWriter(filepath.Join(dir, "dst.parquet"), reader.Schema(),
		filesystem.WriterProperties(filesystem.Codec("snappy"), 1024))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Stream(ctx, reader, writer)
	assert.ErrorIs(t, err, context.Canceled)
}
