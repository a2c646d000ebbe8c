package readfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ReadBlob loads captured solver output from filename. Files ending in .gz
// or .zst are decompressed on the fly.
func ReadBlob(filename string) (blob string, err error) {
	var (
		file *os.File
		r    io.Reader
		data []byte
	)
	if file, err = os.Open(filename); err != nil {
		return "", fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(file); err != nil {
			return "", fmt.Errorf("%s: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		var zr *zstd.Decoder
		if zr, err = zstd.NewReader(file); err != nil {
			return "", fmt.Errorf("%s: %w", filename, err)
		}
		defer zr.Close()
		r = zr
	default:
		r = file
	}
	if data, err = io.ReadAll(r); err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return string(data), nil
}

// WriteBlob stores solver output, compressing according to the extension
// the same way ReadBlob decompresses
func WriteBlob(filename, blob string) (err error) {
	var (
		file *os.File
		w    io.WriteCloser
	)
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		w = gzip.NewWriter(file)
	case ".zst":
		if w, err = zstd.NewWriter(file); err != nil {
			return
		}
	default:
		_, err = io.WriteString(file, blob)
		return
	}
	if _, err = io.WriteString(w, blob); err != nil {
		w.Close()
		return
	}
	return w.Close()
}
