package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how the exported CSV is encoded on disk.
type Compression string

const (
	CompressNone Compression = "none"
	CompressZstd Compression = "zstd"
)

// ParseCompression maps a config value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressNone, nil
	case "zstd":
		return CompressZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// Extension returns the suffix added to the output file name.
func (c Compression) Extension() string {
	if c == CompressZstd {
		return ".zst"
	}
	return ""
}

// WriteCSV serializes ds to w. The first column holds each row's index and
// has an empty header cell.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(ds.Columns)+1)
	header = append(header, "")
	header = append(header, ds.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(ds.Columns)+1)
	for _, r := range ds.Rows {
		record[0] = strconv.Itoa(r.Index)
		for i := range ds.Columns {
			record[i+1] = ""
			if i < len(r.Values) {
				record[i+1] = r.Values[i]
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Export writes ds to path. Data goes to a temporary file in the same
// directory which is renamed over path once complete, so a failed export
// leaves no output behind.
func Export(ds *Dataset, path string, compress Compression) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	var w io.Writer = tmp
	var enc *zstd.Encoder
	if compress == CompressZstd {
		enc, err = zstd.NewWriter(tmp)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		w = enc
	}

	if err = WriteCSV(w, ds); err != nil {
		return err
	}

	if enc != nil {
		if err = enc.Close(); err != nil {
			return fmt.Errorf("close zstd writer: %w", err)
		}
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
