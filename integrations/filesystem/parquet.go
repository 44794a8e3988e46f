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
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/cespare/xxhash/v2"
	pool "github.com/sqlarc/sqlarc/internal/memory"
)

// Codec maps a configured compression name to a parquet codec. Unknown
// names fall back to snappy, the default.
func Codec(name string) compress.Compression {
	switch name {
	case "zstd":
		return compress.Codecs.Zstd
	case "gzip":
		return compress.Codecs.Gzip
	case "brotli":
		return compress.Codecs.Brotli
	case "lz4":
		// LZ4_RAW; arrow v17's compress.Codecs has no named field for it.
		return compress.Compression(7)
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}

// WriterProperties builds parquet writer properties for a transfer: the
// accumulator flushes one record per rowGroupSize rows, and the writer
// enforces the same bound on row-group length.
func WriterProperties(codec compress.Compression, rowGroupSize int64) *parquet.WriterProperties {
	return parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithAllocator(pool.GetAllocator()),
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithDataPageSize(1024*1024),
		parquet.WithMaxRowGroupLength(rowGroupSize),
		parquet.WithCreatedBy("sqlarc"),
	)
}

// ParquetWriter streams converted row groups into a Parquet file. File
// metadata (schema, row-group index, total row count) is only finalized by
// Close, after every row group has been appended; an aborted transfer
// leaves a file that readers must treat as discardable.
type ParquetWriter struct {
	writer    *pqarrow.FileWriter
	file      *os.File
	alloc     memory.Allocator
	digest    *xxhash.Digest
	maxGroup  int64
	rows      int64
	rowGroups int
}

// NewParquetWriter creates the output file and its row-group writer. The
// schema must mirror the derived target column sequence in source order.
func NewParquetWriter(filePath string, schema *arrow.Schema, props *parquet.WriterProperties) (*ParquetWriter, error) {
	alloc := pool.GetAllocator()

	f, err := os.Create(filePath)
	if err != nil {
		pool.PutAllocator(alloc)
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, err := pqarrow.NewFileWriter(schema, f, props, pqarrow.NewArrowWriterProperties())
	if err != nil {
		f.Close()
		pool.PutAllocator(alloc)
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	return &ParquetWriter{
		writer:   writer,
		file:     f,
		alloc:    alloc,
		digest:   xxhash.New(),
		maxGroup: props.MaxRowGroupLength(),
	}, nil
}

// Write appends one converted batch and folds its column buffers into the
// content digest. Records longer than the row-group bound are split by the
// underlying writer, so the group count is derived from the bound rather
// than the call count.
func (p *ParquetWriter) Write(record arrow.Record) error {
	if err := p.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	for _, col := range record.Columns() {
		for _, buf := range col.Data().Buffers() {
			if buf != nil {
				p.digest.Write(buf.Bytes())
			}
		}
	}
	p.rows += record.NumRows()
	p.rowGroups += int((record.NumRows() + p.maxGroup - 1) / p.maxGroup)
	return nil
}

// Rows is the total row count appended so far.
func (p *ParquetWriter) Rows() int64 { return p.rows }

// RowGroups is the number of row groups appended so far.
func (p *ParquetWriter) RowGroups() int { return p.rowGroups }

// Digest is a content hash over the row data written, stable across runs
// with identical source data and configuration.
func (p *ParquetWriter) Digest() uint64 { return p.digest.Sum64() }

// Close finalizes the file footer and releases the output handle.
func (p *ParquetWriter) Close() error {
	defer pool.PutAllocator(p.alloc)
	if err := p.writer.Close(); err != nil {
		p.file.Close()
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return p.file.Close()
}

// ParquetReader iterates a Parquet file as arrow records. It backs the
// round-trip tests and the source side of direct record streaming.
type ParquetReader struct {
	records pqarrow.RecordReader
	footer  *file.Reader
	schema  *arrow.Schema
	alloc   memory.Allocator
}

// ParquetReadOptions narrows a read to selected columns or row groups;
// nil slices mean everything.
type ParquetReadOptions struct {
	MemoryMap     bool
	ColumnIndices []int
	RowGroups     []int
}

// NewDefaultParquetReadOptions reads every column of every row group.
func NewDefaultParquetReadOptions() *ParquetReadOptions {
	return &ParquetReadOptions{}
}

// NewParquetReader opens filePath and positions a record reader over the
// selected columns and row groups.
func NewParquetReader(ctx context.Context, filePath string, opts *ParquetReadOptions) (*ParquetReader, error) {
	alloc := pool.GetAllocator()

	footer, err := file.OpenParquetFile(filePath, opts.MemoryMap)
	if err != nil {
		pool.PutAllocator(alloc)
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	fail := func(err error) (*ParquetReader, error) {
		footer.Close()
		pool.PutAllocator(alloc)
		return nil, err
	}

	props := pqarrow.ArrowReadProperties{BatchSize: 64 * 1024}
	arrowReader, err := pqarrow.NewFileReader(footer, props, alloc)
	if err != nil {
		return fail(fmt.Errorf("arrow reader: %w", err))
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return fail(fmt.Errorf("read schema: %w", err))
	}

	records, err := arrowReader.GetRecordReader(ctx, opts.ColumnIndices, opts.RowGroups)
	if err != nil {
		return fail(fmt.Errorf("record reader: %w", err))
	}

	return &ParquetReader{records: records, footer: footer, schema: schema, alloc: alloc}, nil
}

// Read returns the next record, retained for the caller, or io.EOF once
// the selected row groups are exhausted.
func (p *ParquetReader) Read() (arrow.Record, error) {
	if !p.records.Next() {
		if err := p.records.Err(); err != nil && err != io.EOF {
			return nil, err
		}
		return nil, io.EOF
	}
	rec := p.records.Record()
	rec.Retain()
	return rec, nil
}

func (p *ParquetReader) Schema() *arrow.Schema { return p.schema }

func (p *ParquetReader) Close() error {
	defer pool.PutAllocator(p.alloc)
	p.records.Release()
	return p.footer.Close()
}
