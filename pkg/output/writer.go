// Package output names and persists downloaded CAD artifacts.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parametrik/onshape-sweep/pkg/onshape"
)

// FormatValue renders a sweep value for use in a filename. Whole
// numbers drop the fractional part entirely (10.0 becomes "10",
// 12.5 stays "12.5") and the shortest round-trip form is used, so two
// distinct values can never format to the same string.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteError means an artifact could not be persisted. Fatal for the
// iteration, not for the sweep.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer persists artifacts under one destination folder with
// deterministic names. The destination is created on first write.
type Writer struct {
	dir     string
	written map[string]float64 // filename -> originating sweep value
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, written: make(map[string]float64)}
}

// Write stores data as <variableName>_<formattedValue>.<extension> and
// returns the full path. Re-writing the same value is allowed; two
// distinct values mapping to the same filename are rejected rather
// than silently overwritten.
func (w *Writer) Write(variableName string, value float64, format onshape.Format, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s.%s", variableName, FormatValue(value), format.Extension())
	path := filepath.Join(w.dir, name)

	if prev, ok := w.written[name]; ok && prev != value {
		return "", &WriteError{
			Path: path,
			Err: fmt.Errorf("filename collision: values %s and %s both format to %q",
				FormatValue(prev), FormatValue(value), name),
		}
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	w.written[name] = value
	return path, nil
}
