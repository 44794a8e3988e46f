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

package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/sqlarc/sqlarc/generator"
	duckdb "github.com/sqlarc/sqlarc/integrations/duckdb"
	filesystem "github.com/sqlarc/sqlarc/integrations/filesystem"
	sqldriver "github.com/sqlarc/sqlarc/integrations/sqldriver"
	"github.com/sqlarc/sqlarc/internal/ui"
	"github.com/sqlarc/sqlarc/pkg/common/config"
	"github.com/sqlarc/sqlarc/transfer"
)

const usage = `sqlarc - SQL query to Parquet transfer.

Usage:
  sqlarc --driver=<name> --dsn=<dsn> --query=<sql> --output=<file> [--batch-size=<rows>] [--row-group-size=<rows>] [--on-truncation=<mode>] [--max-text-width=<bytes>] [--compression=<codec>] [--verbose]
  sqlarc --duckdb=<db> --query=<sql> --output=<file> [--extensions=<names>] [--row-group-size=<rows>] [--compression=<codec>] [--verbose]
  sqlarc --jobs=<file> [--parallel=<n>] [--verbose]
  sqlarc --demo --output=<file> [--rows=<n>] [--batch-size=<rows>] [--row-group-size=<rows>] [--compression=<codec>] [--verbose]
  sqlarc -h | --help

Options:
  -h --help                  Show this screen.
  --driver=<name>            database/sql driver name (e.g. sqlite).
  --dsn=<dsn>                Data source name / connection string.
  --duckdb=<db>              DuckDB database path (or :memory:); streams
                             Arrow batches directly, bypassing row staging.
  --extensions=<names>       Comma-separated DuckDB extensions to install
                             and load before the query runs (duckdb mode).
  --query=<sql>              Query whose result set is exported.
  --output=<file>            Path of the Parquet file to write.
  --batch-size=<rows>        Rows fetched per batch [default: 1024].
  --row-group-size=<rows>    Rows per Parquet row group [default: 65536].
  --on-truncation=<mode>     fail | widen_and_retry [default: widen_and_retry].
  --max-text-width=<bytes>   Fallback cap for unsized text/binary columns [default: 1048576].
  --compression=<codec>      snappy | zstd | gzip | none [default: snappy].
  --jobs=<file>              YAML file declaring multiple transfer jobs.
  --parallel=<n>             Jobs to run concurrently; overrides the job
                             file's parallel_jobs setting.
  --demo                     Seed a throwaway SQLite database with fake data
                             and export it, for trying the tool out.
  --rows=<n>                 Rows to seed in demo mode [default: 1000].
  --verbose                  Enable debug logging and print the metrics
                             report after the transfer.
`

func main() {
	_ = godotenv.Load()

	args, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	verbose, _ := args.Bool("--verbose")
	logger := newLogger(verbose)

	// Interrupts cancel at the next batch boundary; the file written so
	// far is kept as a partial export.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if jobsPath, _ := args.String("--jobs"); jobsPath != "" {
		parallel, _ := args.Int("--parallel")
		if err := runJobs(ctx, logger, jobsPath, parallel); err != nil {
			level.Error(logger).Log("msg", "jobs failed", "err", err)
			os.Exit(1)
		}
		return
	}

	query, _ := args.String("--query")
	output, _ := args.String("--output")
	compression, _ := args.String("--compression")

	if duckPath, _ := args.String("--duckdb"); duckPath != "" {
		rowGroupSize, _ := args.Int("--row-group-size")
		extensions, _ := args.String("--extensions")
		if err := runDuckDB(ctx, logger, duckPath, query, output, compression, rowGroupSize, extensions, verbose); err != nil {
			level.Error(logger).Log("msg", "transfer failed", "err", err)
			os.Exit(1)
		}
		return
	}

	driver, _ := args.String("--driver")
	dsn, _ := args.String("--dsn")
	if demo, _ := args.Bool("--demo"); demo {
		rows, _ := args.Int("--rows")
		driver = "sqlite"
		dsn, err = seedDemoDatabase(ctx, rows)
		if err != nil {
			level.Error(logger).Log("msg", "demo seed failed", "err", err)
			os.Exit(1)
		}
		query = "SELECT * FROM samples ORDER BY id"
		level.Info(logger).Log("msg", "seeded demo database", "path", dsn, "rows", rows)
	}
	batchSize, _ := args.Int("--batch-size")
	rowGroupSize, _ := args.Int("--row-group-size")
	onTruncation, _ := args.String("--on-truncation")
	maxTextWidth, _ := args.Int("--max-text-width")

	cfg := transfer.Config{
		BatchSize:            batchSize,
		RowGroupSize:         rowGroupSize,
		OnTruncation:         transfer.TruncationPolicy(onTruncation),
		FallbackMaxTextWidth: maxTextWidth,
		Compression:          compression,
		Logger:               logger,
	}

	out, err := transfer.Run(ctx, sqldriver.Connector{Driver: driver}, dsn, query, output, cfg)
	if err != nil {
		level.Error(logger).Log("msg", "transfer failed", "err", err)
		os.Exit(1)
	}
	printOutcome(out)
	if verbose {
		fmt.Println(ui.SummaryStyle.Render(out.Metrics.Report()))
	}
	if out.Partial {
		os.Exit(130)
	}
}

// runDuckDB is the direct path: DuckDB already produces Arrow record
// batches, so they stream straight into the Parquet writer with no
// row-level staging or conversion.
func runDuckDB(ctx context.Context, logger log.Logger, dbPath, query, output, compression string, rowGroupSize int, extensions string, verbose bool) error {
	if rowGroupSize <= 0 {
		rowGroupSize = transfer.DefaultRowGroupSize
	}

	opts := duckdb.ReaderOptions{
		Query:      query,
		Extensions: duckdb.ParseExtensions(extensions),
	}
	reader, err := duckdb.NewReader(ctx, dbPath, opts)
	if err != nil {
		return err
	}

	writer, err := filesystem.NewParquetWriter(output, reader.Schema(),
		filesystem.WriterProperties(filesystem.Codec(compression), int64(rowGroupSize)))
	if err != nil {
		reader.Close()
		return err
	}

	metrics, err := transfer.Stream(ctx, reader, writer)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "direct transfer complete",
		"rows", metrics.RowsProcessed, "duration", metrics.Duration())
	fmt.Println(ui.TitleStyle.Render("Transfer complete"))
	fmt.Println(ui.SummaryStyle.Render(fmt.Sprintf("rows=%d output=%s", metrics.RowsProcessed, output)))
	if verbose {
		fmt.Println(ui.SummaryStyle.Render(metrics.Report()))
	}
	return nil
}

// seedDemoDatabase creates a temporary SQLite file, fills a "samples"
// table with fake rows, and returns its path for use as a DSN.
func seedDemoDatabase(ctx context.Context, rows int) (string, error) {
	dir, err := os.MkdirTemp("", "sqlarc-demo-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "demo.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := generator.SeedSQLite(ctx, db, "samples", rows, rng); err != nil {
		return "", err
	}
	return path, nil
}

func runJobs(ctx context.Context, logger log.Logger, path string, parallel int) error {
	jf, err := config.Load(path)
	if err != nil {
		return err
	}
	if parallel < 1 {
		parallel = jf.Settings.ParallelJobs
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, job := range jf.Jobs {
		job := job
		g.Go(func() error {
			cfg := transfer.Config{
				BatchSize:            job.BatchSize,
				RowGroupSize:         job.RowGroupSize,
				OnTruncation:         transfer.TruncationPolicy(job.OnTruncation),
				FallbackMaxTextWidth: job.MaxTextWidth,
				Compression:          job.Compression,
				Logger:               log.With(logger, "job", job.Name),
			}
			out, err := transfer.Run(ctx, sqldriver.Connector{Driver: job.Driver}, job.DSN, job.Query, job.Output, cfg)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			level.Info(logger).Log("msg", "job done", "job", job.Name,
				"rows", out.RowsTransferred, "row_groups", out.RowGroups, "partial", out.Partial)
			return nil
		})
	}
	return g.Wait()
}

func newLogger(verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func printOutcome(out *transfer.Outcome) {
	status := "complete"
	if out.Partial {
		status = "partial (interrupted)"
	}
	fmt.Println(ui.TitleStyle.Render("Transfer " + status))
	fmt.Println(ui.SummaryStyle.Render(fmt.Sprintf(
		"id=%s rows=%d batches=%d row_groups=%d digest=%016x\noutput=%s",
		out.TransferID, out.RowsTransferred, out.Batches, out.RowGroups, out.Digest, out.Output)))
}
