package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	parquet "github.com/parquet-go/parquet-go"
)

// Compression returns the writer option for name: snappy (default), zstd,
// gzip or none.
func Compression(name string) (parquet.WriterOption, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return parquet.Compression(&parquet.Snappy), nil
	case "zstd":
		return parquet.Compression(&parquet.Zstd), nil
	case "gzip":
		return parquet.Compression(&parquet.Gzip), nil
	case "none", "uncompressed":
		return parquet.Compression(&parquet.Uncompressed), nil
	default:
		return nil, fmt.Errorf("unknown parquet compression %q", name)
	}
}

// WriteRecords encodes records as a single parquet file on w
func WriteRecords(w io.Writer, records []Record, compression string) error {
	opt, err := Compression(compression)
	if err != nil {
		return err
	}

	pw := parquet.NewGenericWriter[Record](w, opt)
	if _, err := pw.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadRecords decodes every row from a parquet file
func ReadRecords(ra io.ReaderAt) ([]Record, error) {
	gr := parquet.NewGenericReader[Record](ra)
	defer gr.Close()

	out := make([]Record, 0, 1024)
	batch := make([]Record, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return out, nil
}

// WriteParquet writes records to path
func WriteParquet(path string, records []Record, compression string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteRecords(f, records, compression); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadParquet reads records back from path
func ReadParquet(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}
