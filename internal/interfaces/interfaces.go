package interfaces

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// Reader produces arrow records until io.EOF. Used by the direct export
// path, where the source is already column-major and the buffer-bound
// engine is unnecessary.
type Reader interface {
	Read() (arrow.Record, error)
	Schema() *arrow.Schema
	Close() error
}

// Writer consumes arrow records.
type Writer interface {
	Write(arrow.Record) error
	Close() error
}
