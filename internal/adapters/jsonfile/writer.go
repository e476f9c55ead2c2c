package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// Writer implements ports.GraphWriter by writing compact JSON files
type Writer struct {
	perm os.FileMode
}

// Ensure Writer implements GraphWriter
var _ ports.GraphWriter = (*Writer)(nil)

// Option configures the Writer
type Option func(*Writer)

// WithPermissions sets the mode of written files
func WithPermissions(perm os.FileMode) Option {
	return func(w *Writer) {
		w.perm = perm
	}
}

// NewWriter creates a new Writer
func NewWriter(opts ...Option) *Writer {
	w := &Writer{perm: 0o644}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Marshal serializes doc as a single line of JSON followed by a newline
func Marshal(doc *domain.GraphDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a document, rejecting unknown fields
func Unmarshal(b []byte) (*domain.GraphDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var doc domain.GraphDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return &doc, nil
}

// Read loads the document stored at path
func Read(path string) (*domain.GraphDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(b)
}

// Write serializes doc and stores it at path. The bytes go to a temporary
// file in the same directory which is renamed over path once synced, so
// readers never observe a partial document.
func (w *Writer) Write(path string, doc *domain.GraphDocument) error {
	b, err := Marshal(doc)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(w.perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}

	committed = true
	return nil
}
