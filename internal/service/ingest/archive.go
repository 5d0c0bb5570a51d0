package ingest

import (
	"bytes"
	"fmt"
	"github.com/ulikunitz/xz"
	"path"
)

// ArchiveName is where the compressed copy of a processed source goes.
func ArchiveName(prefix, source string) string {
	return prefix + path.Base(source) + ".xz"
}

// Compress returns data as an xz stream.
func Compress(data []byte) ([]byte, error) {
	const op = "ingest.Compress"

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
