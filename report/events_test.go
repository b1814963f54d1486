package report

import (
	"bytes"
	"testing"
)

func TestEventRoundTrip(t *testing.T) {
	events := []Event{
		{TimeSeconds: 1.5, From: "none", To: "warning", Bin: 46, FrequencyHz: 990.5, Score: 0.05},
		{TimeSeconds: 2.25, From: "warning", To: "critical", Bin: 46, FrequencyHz: 990.5, Score: 0.17},
		{TimeSeconds: 9, From: "critical", To: "none", Bin: -1},
	}

	for _, codec := range []string{CodecNone, CodecGzip, CodecSnappy, CodecZstd, CodecBrotli, CodecLZ4} {
		t.Run(codec, func(t *testing.T) {
			var buf bytes.Buffer
			ew, err := NewEventWriter(&buf, codec)
			if err != nil {
				t.Fatalf("NewEventWriter error: %v", err)
			}
			for _, e := range events {
				if err := ew.Write(e); err != nil {
					t.Fatalf("Write error: %v", err)
				}
			}
			if err := ew.Close(); err != nil {
				t.Fatalf("Close error: %v", err)
			}

			got, err := ReadEvents(&buf, codec)
			if err != nil {
				t.Fatalf("ReadEvents error: %v", err)
			}
			if len(got) != len(events) {
				t.Fatalf("events=%d want=%d", len(got), len(events))
			}
			for i := range events {
				if got[i] != events[i] {
					t.Fatalf("event %d=%+v want=%+v", i, got[i], events[i])
				}
			}
		})
	}
}

func TestEventCodecRejected(t *testing.T) {
	if _, err := NewEventWriter(&bytes.Buffer{}, "xz"); err == nil {
		t.Fatal("expected writer error")
	}
	if _, err := ReadEvents(&bytes.Buffer{}, "xz"); err == nil {
		t.Fatal("expected reader error")
	}
}
