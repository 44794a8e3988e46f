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
	"fmt"
	"sync"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/sqlarc/sqlarc/internal/json"
)

// Metrics stores transfer processing metrics.
type Metrics struct {
	sync.Mutex
	RowsProcessed int64
	TotalBytes    int64
	StartTime     time.Time
	EndTime       time.Time
	TotalDuration time.Duration
	Throughput    float64
}

// NewMetrics starts the clock for a transfer.
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// AddBatch records one converted batch.
func (m *Metrics) AddBatch(rows int64, bytes int64) {
	m.Lock()
	defer m.Unlock()
	m.RowsProcessed += rows
	m.TotalBytes += bytes
}

// Finish stops the clock and computes throughput.
func (m *Metrics) Finish() {
	m.Lock()
	defer m.Unlock()
	m.EndTime = time.Now()
	m.TotalDuration = m.EndTime.Sub(m.StartTime)
	if m.TotalDuration > 0 {
		m.Throughput = float64(m.RowsProcessed) / m.TotalDuration.Seconds()
	} else {
		m.Throughput = 0
	}
}

// Duration returns the total duration of the transfer.
func (m *Metrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// Report generates a summary of the collected metrics.
func (m *Metrics) Report() string {
	m.Lock()
	defer m.Unlock()

	report := struct {
		RowsProcessed int64   `json:"rows_processed"`
		TotalBytes    int64   `json:"total_bytes"`
		TotalDuration string  `json:"total_duration"`
		Throughput    float64 `json:"throughput_rows_per_second"`
	}{
		RowsProcessed: m.RowsProcessed,
		TotalBytes:    m.TotalBytes,
		TotalDuration: m.TotalDuration.String(),
		Throughput:    m.Throughput,
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating report: %v", err)
	}
	return string(jsonData)
}

// recordSize approximates the size of a record based on its column buffers.
func recordSize(record arrow.Record) int64 {
	size := int64(0)
	for _, col := range record.Columns() {
		for _, buf := range col.Data().Buffers() {
			if buf != nil {
				size += int64(buf.Len())
			}
		}
	}
	return size
}
