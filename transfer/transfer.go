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

// Package transfer composes the pipeline that exports one SQL result set
// into one Parquet file: describe the columns, derive the target schema,
// bind reusable batch buffers, then alternate fetch/convert/write until
// the result set is exhausted. A transfer is single-threaded by design:
// the buffers are rebound in place, so batch i+1 is never requested
// before batch i has been converted and handed to the writer.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/sqlarc/sqlarc/buffer"
	"github.com/sqlarc/sqlarc/convert"
	filesystem "github.com/sqlarc/sqlarc/integrations/filesystem"
	pool "github.com/sqlarc/sqlarc/internal/memory"
	"github.com/sqlarc/sqlarc/schema"
	"github.com/sqlarc/sqlarc/source"
)

// TruncationPolicy decides what happens when a fetched value did not fit
// its bound buffer width.
type TruncationPolicy string

const (
	// TruncationFail aborts the transfer on the first truncated value.
	TruncationFail TruncationPolicy = "fail"
	// TruncationWidenAndRetry reallocates a wider buffer for the affected
	// column and re-fetches the same rows, at most once per column per
	// batch, to bound memory growth.
	TruncationWidenAndRetry TruncationPolicy = "widen_and_retry"
)

const (
	DefaultBatchSize            = 1024
	DefaultRowGroupSize         = 64 * 1024
	DefaultFallbackMaxTextWidth = 1 << 20
)

// Config tunes one transfer.
type Config struct {
	// BatchSize is the number of rows fetched per driver round-trip.
	BatchSize int
	// RowGroupSize is the number of rows per output row group.
	RowGroupSize int
	// OnTruncation selects the truncation policy. Default: fail.
	OnTruncation TruncationPolicy
	// FallbackMaxTextWidth bounds buffers for text/binary columns whose
	// source declares no maximum width. It is a hard limit: a value
	// larger than this fails the transfer even under widen_and_retry.
	FallbackMaxTextWidth int
	// Compression names the parquet codec (snappy, zstd, gzip, brotli,
	// lz4, none). Default: snappy.
	Compression string
	// Logger receives stage and batch progress. Default: no-op.
	Logger log.Logger
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.RowGroupSize <= 0 {
		c.RowGroupSize = DefaultRowGroupSize
	}
	if c.OnTruncation == "" {
		c.OnTruncation = TruncationFail
	}
	if c.FallbackMaxTextWidth <= 0 {
		c.FallbackMaxTextWidth = DefaultFallbackMaxTextWidth
	}
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	return c
}

// Outcome summarizes a finished transfer.
type Outcome struct {
	TransferID      string   `json:"transfer_id"`
	RowsTransferred int64    `json:"rows_transferred"`
	Batches         int      `json:"batches"`
	RowGroups       int      `json:"row_groups"`
	Partial         bool     `json:"partial"`
	Digest          uint64   `json:"digest"`
	Output          string   `json:"output"`
	Metrics         *Metrics `json:"-"`
}

// Run executes the whole transfer: connect, execute the query, derive the
// target schema, then stream batches into outputPath until the result set
// is exhausted or ctx is cancelled. Cancellation is honored at batch
// boundaries: the rows transferred so far are finalized into a valid file
// and the outcome is marked partial.
func Run(ctx context.Context, connector source.Connector, dsn, query, outputPath string, cfg Config) (*Outcome, error) {
	cfg = cfg.withDefaults()

	out := &Outcome{TransferID: uuid.NewString(), Output: outputPath}
	logger := log.With(cfg.Logger, "transfer_id", out.TransferID)
	metrics := NewMetrics()
	out.Metrics = metrics

	conn, err := connector.Connect(ctx, dsn)
	if err != nil {
		return nil, fail(StageConnecting, err)
	}
	defer conn.Close()

	cur, err := conn.Execute(ctx, query)
	if err != nil {
		return nil, fail(StageDescribing, err)
	}
	defer cur.Close()

	descs, err := cur.Columns()
	if err != nil {
		return nil, fail(StageDescribing, err)
	}
	if len(descs) == 0 {
		return nil, fail(StageDescribing, fmt.Errorf("query produced no result columns"))
	}

	cols, err := schema.MapAll(descs)
	if err != nil {
		return nil, fail(StageMapping, err)
	}
	arrowSchema := schema.ArrowSchema(cols)
	level.Debug(logger).Log("msg", "target schema derived", "columns", len(cols))

	bufs := buffer.NewPool(cols, cfg.BatchSize, cfg.FallbackMaxTextWidth)
	for i := 0; i < bufs.NumColumns(); i++ {
		if err := cur.Bind(i, bufs.Column(i).Binding()); err != nil {
			return nil, fail(StageAllocating, err)
		}
	}

	writer, err := filesystem.NewParquetWriter(outputPath, arrowSchema,
		filesystem.WriterProperties(filesystem.Codec(cfg.Compression), int64(cfg.RowGroupSize)))
	if err != nil {
		return nil, fail(StageAllocating, err)
	}

	alloc := pool.GetAllocator()
	defer pool.PutAllocator(alloc)
	acc := convert.NewAccumulator(alloc, cols)
	defer acc.Release()

	flush := func() error {
		rec := acc.Flush()
		defer rec.Release()
		metrics.AddBatch(0, recordSize(rec))
		if err := writer.Write(rec); err != nil {
			return fail(StageWriting, err)
		}
		return nil
	}

	for {
		bufs.ResetIndicators()
		n, err := cur.Fetch(ctx)
		if err != nil {
			writer.Close()
			return nil, fail(StageFetching, err)
		}
		if n == 0 {
			break
		}

		n, err = resolveTruncations(ctx, cur, bufs, n, cfg, logger)
		if err != nil {
			writer.Close()
			return nil, fail(StageFetching, err)
		}

		if err := acc.AppendBatch(bufs, n); err != nil {
			writer.Close()
			return nil, fail(StageConverting, err)
		}
		out.Batches++
		metrics.AddBatch(int64(n), 0)
		level.Debug(logger).Log("msg", "batch converted", "batch", out.Batches, "rows", n)

		if acc.Rows() >= cfg.RowGroupSize {
			if err := flush(); err != nil {
				writer.Close()
				return nil, err
			}
		}

		if ctx.Err() != nil {
			// Best-effort partial export: finalize what we have.
			out.Partial = true
			level.Info(logger).Log("msg", "cancellation observed, finalizing partial export")
			break
		}
	}

	if acc.Rows() > 0 {
		if err := flush(); err != nil {
			writer.Close()
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fail(StageFinalizing, err)
	}

	out.RowsTransferred = writer.Rows()
	out.RowGroups = writer.RowGroups()
	out.Digest = writer.Digest()
	metrics.Finish()

	level.Info(logger).Log("msg", "transfer complete",
		"rows", out.RowsTransferred,
		"row_groups", out.RowGroups,
		"batches", out.Batches,
		"partial", out.Partial,
		"duration", metrics.Duration())
	return out, nil
}

// resolveTruncations applies the truncation policy to a freshly fetched
// batch. Under widen_and_retry each truncated column is widened exactly
// once and the same rows are re-fetched without advancing the cursor; a
// second truncation of the same column within the batch, or a value
// beyond the fallback cap, is promoted to fatal.
func resolveTruncations(ctx context.Context, cur source.Cursor, bufs *buffer.Pool, n int, cfg Config, logger log.Logger) (int, error) {
	truncs := bufs.Truncations(n)
	for len(truncs) > 0 {
		if cfg.OnTruncation != TruncationWidenAndRetry {
			cb := bufs.Column(truncs[0].Column)
			return 0, &buffer.TruncationError{
				Column: cb.Target().Name,
				Width:  cb.Stride(),
				Needed: truncs[0].Needed,
			}
		}
		for _, tr := range truncs {
			cb := bufs.Column(tr.Column)
			if tr.Needed > cfg.FallbackMaxTextWidth {
				return 0, &buffer.TruncationError{
					Column: cb.Target().Name,
					Width:  cb.Stride(),
					Needed: tr.Needed,
				}
			}
			if !cb.Widen(tr.Needed) {
				return 0, &buffer.TruncationError{
					Column: cb.Target().Name,
					Width:  cb.Stride(),
					Needed: tr.Needed,
				}
			}
			if err := cur.Bind(tr.Column, cb.Binding()); err != nil {
				return 0, err
			}
			level.Debug(logger).Log("msg", "buffer widened after truncation",
				"column", cb.Target().Name, "width", tr.Needed)
		}
		var err error
		n, err = cur.Refetch(ctx)
		if err != nil {
			return 0, err
		}
		truncs = bufs.Truncations(n)
	}
	return n, nil
}

// IsTruncation reports whether err was caused by a truncated value.
func IsTruncation(err error) bool {
	var te *buffer.TruncationError
	return errors.As(err, &te)
}
