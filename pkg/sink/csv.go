package sink

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
	"github.com/ajitpratap0/daktela-extract/pkg/logger"
	"github.com/ajitpratap0/daktela-extract/pkg/transform"
)

// flushInterval is the number of rows between csv.Writer flushes; the
// streaming contract allows only a small bounded batch in memory.
const flushInterval = 1000

// CSVSink writes one CSV file plus manifest per table under Dir.
type CSVSink struct {
	Dir    string
	Server string
	// Gzip compresses the data file (concatenated members keep appends valid).
	Gzip bool
}

// NewCSVSink creates a CSV sink rooted at dir for one server instance.
func NewCSVSink(dir, server string, gzipped bool) *CSVSink {
	return &CSVSink{Dir: dir, Server: server, Gzip: gzipped}
}

// Manifest declares the output shape of one table file.
type Manifest struct {
	Columns     []string `json:"columns"`
	PrimaryKey  []string `json:"primary_key"`
	Incremental bool     `json:"incremental"`
}

// Open creates or appends the table's output file per mode.
func (s *CSVSink) Open(table string, mode Mode) (Writer, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory")
	}

	name := s.Server + "_" + table + ".csv"
	if s.Gzip {
		name += ".gz"
	}
	path := filepath.Join(s.Dir, name)

	flags := os.O_CREATE | os.O_WRONLY
	if mode == ModeIncremental {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open output file").WithTable(table)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat output file").WithTable(table)
	}

	w := &csvWriter{
		table:       table,
		path:        path,
		file:        file,
		mode:        mode,
		writeHeader: info.Size() == 0,
		logger:      logger.WithTable(table),
	}

	var out io.Writer = file
	if s.Gzip {
		w.gzip = gzip.NewWriter(file)
		out = w.gzip
	}
	w.csv = csv.NewWriter(out)

	return w, nil
}

type csvWriter struct {
	table       string
	path        string
	file        *os.File
	gzip        *gzip.Writer
	csv         *csv.Writer
	mode        Mode
	writeHeader bool

	header  []string
	rows    int
	dropped map[string]bool
	logger  *zap.Logger
}

// Write appends one row. The column set is fixed by the first row written;
// later rows contributing unseen columns have those fields dropped (the
// memory bound forbids rewriting already-flushed output).
func (w *csvWriter) Write(row *transform.Row) error {
	if w.header == nil {
		w.header = append([]string(nil), row.Columns()...)
		if w.writeHeader {
			if err := w.csv.Write(w.header); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write header").WithTable(w.table)
			}
		}
	}

	record := make([]string, len(w.header))
	for i, col := range w.header {
		record[i] = row.Get(col)
	}
	if err := w.csv.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row").WithTable(w.table)
	}

	for _, col := range row.Columns() {
		if !contains(w.header, col) && !w.droppedSeen(col) {
			w.logger.Debug("dropping late column not present in first row", zap.String("column", col))
		}
	}

	w.rows++
	if w.rows%flushInterval == 0 {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush rows").WithTable(w.table)
		}
	}

	return nil
}

func (w *csvWriter) droppedSeen(col string) bool {
	if w.dropped == nil {
		w.dropped = make(map[string]bool)
	}
	seen := w.dropped[col]
	w.dropped[col] = true
	return seen
}

// Close flushes remaining rows and persists the manifest.
func (w *csvWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush output").WithTable(w.table)
	}

	if w.gzip != nil {
		if err := w.gzip.Close(); err != nil {
			w.file.Close()
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to close gzip stream").WithTable(w.table)
		}
	}

	if err := w.file.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close output file").WithTable(w.table)
	}

	if w.rows == 0 {
		w.logger.Warn("no data extracted")
		if w.writeHeader {
			// Fresh file with nothing in it; leave no empty artifacts.
			os.Remove(w.path)
		}
		return nil
	}

	return w.writeManifest()
}

func (w *csvWriter) writeManifest() error {
	manifest := Manifest{
		Columns:     w.header,
		PrimaryKey:  []string{"server", "id"},
		Incremental: w.mode == ModeIncremental,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode manifest").WithTable(w.table)
	}

	if err := os.WriteFile(w.path+".manifest", data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write manifest").WithTable(w.table)
	}

	w.logger.Info("table written",
		zap.Int("rows", w.rows),
		zap.String("file", filepath.Base(w.path)),
		zap.String("mode", string(w.mode)))
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
