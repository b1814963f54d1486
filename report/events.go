package report

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

const (
	CodecNone   = "none"
	CodecGzip   = "gzip"
	CodecSnappy = "snappy"
	CodecZstd   = "zstd"
	CodecBrotli = "brotli"
	CodecLZ4    = "lz4"
)

// Event is one level transition in newline-delimited JSON form
type Event struct {
	TimeSeconds float64 `json:"t"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Bin         int     `json:"bin"`
	FrequencyHz float64 `json:"frequency_hz,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// EventWriter streams events through an optional compressor
type EventWriter struct {
	compressor io.WriteCloser
	buf        *bufio.Writer
	enc        *json.Encoder
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newCompressor(w io.Writer, codec string) (io.WriteCloser, error) {
	switch strings.ToLower(codec) {
	case "", CodecNone:
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CodecZstd:
		return zstd.NewWriter(w)
	case CodecBrotli:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported event codec: %q", codec)
	}
}

// NewEventWriter wraps w. Close must be called to flush the compressor; it
// does not close w.
func NewEventWriter(w io.Writer, codec string) (*EventWriter, error) {
	compressor, err := newCompressor(w, codec)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(compressor)
	return &EventWriter{
		compressor: compressor,
		buf:        buf,
		enc:        json.NewEncoder(buf),
	}, nil
}

// Write appends one event line
func (ew *EventWriter) Write(e Event) error {
	return ew.enc.Encode(e)
}

// Close flushes buffered lines and finishes the compressed stream
func (ew *EventWriter) Close() error {
	if err := ew.buf.Flush(); err != nil {
		return err
	}
	return ew.compressor.Close()
}

// ReadEvents decodes every event from r
func ReadEvents(r io.Reader, codec string) ([]Event, error) {
	var src io.Reader
	switch strings.ToLower(codec) {
	case "", CodecNone:
		src = r
	case CodecGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		src = gz
	case CodecSnappy:
		src = snappy.NewReader(r)
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		src = zr
	case CodecBrotli:
		src = brotli.NewReader(r)
	case CodecLZ4:
		src = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("unsupported event codec: %q", codec)
	}

	var events []Event
	dec := json.NewDecoder(src)
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return events, nil
			}
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, e)
	}
}
