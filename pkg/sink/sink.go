// Package sink persists transformed rows. The core pipeline only depends
// on the Sink and Writer interfaces; the CSV implementation writes one
// {server}_{table}.csv file plus a JSON manifest per table.
package sink

import (
	"github.com/ajitpratap0/daktela-extract/pkg/transform"
)

// Mode selects the destination load semantics for one table.
type Mode string

const (
	// ModeFull replaces prior data for the table.
	ModeFull Mode = "full"
	// ModeIncremental appends to prior data.
	ModeIncremental Mode = "incremental"
)

// Sink accepts a stream of transformed rows per table.
type Sink interface {
	Open(table string, mode Mode) (Writer, error)
}

// Writer persists rows in the order produced. Close persists the manifest;
// a writer must not be used after Close.
type Writer interface {
	Write(row *transform.Row) error
	Close() error
}
