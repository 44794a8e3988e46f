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
	"fmt"
	"io"

	"github.com/sqlarc/sqlarc/internal/interfaces"
)

// Stream pumps records from a column-major source straight into a writer,
// bypassing the buffer-bound engine. Used for sources that already speak
// arrow (e.g. the DuckDB ADBC integration). Sequential: one record in
// flight, cancellation honored between records.
func Stream(ctx context.Context, reader interfaces.Reader, writer interfaces.Writer) (*Metrics, error) {
	metrics := NewMetrics()
	defer reader.Close()

	for {
		if err := ctx.Err(); err != nil {
			writer.Close()
			return metrics, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return metrics, fmt.Errorf("failed to read record: %w", err)
		}
		if record == nil || record.NumRows() == 0 {
			if record != nil {
				record.Release()
			}
			continue
		}

		metrics.AddBatch(record.NumRows(), recordSize(record))
		if err := writer.Write(record); err != nil {
			record.Release()
			writer.Close()
			return metrics, fmt.Errorf("failed to write record: %w", err)
		}
		record.Release()
	}

	if err := writer.Close(); err != nil {
		return metrics, fmt.Errorf("failed to finalize writer: %w", err)
	}
	metrics.Finish()
	return metrics, nil
}
