// Package journal records every game event as one JSON line in a zstd
// stream.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"go-hex-conquest/internal/event"
)

// Entry is one journal line.
type Entry struct {
	Seq  uint64          `json:"seq"`
	Time float64         `json:"t"`
	Type event.EventType `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Writer is an event.Listener. Write failures are kept and returned by Err
// and Close; OnEvent itself never fails.
type Writer struct {
	mu    sync.Mutex
	clock func() float64
	file  io.Closer
	enc   *zstd.Encoder
	w     *bufio.Writer
	seq   uint64
	err   error
}

// Open creates (or truncates) the journal file at path.
func Open(path string, clock func() float64) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, clock)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewWriter journals into out. clock stamps each entry with simulated time;
// nil stamps zero.
func NewWriter(out io.Writer, clock func() float64) (*Writer, error) {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = func() float64 { return 0 }
	}
	return &Writer{
		clock: clock,
		enc:   enc,
		w:     bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// OnEvent реализует интерфейс event.Listener.
func (w *Writer) OnEvent(e event.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil || w.enc == nil {
		return
	}

	entry := Entry{Seq: w.seq, Time: w.clock(), Type: e.Type}
	if e.Data != nil {
		data, err := json.Marshal(e.Data)
		if err != nil {
			w.err = fmt.Errorf("journal: encode %s: %w", e.Type, err)
			return
		}
		entry.Data = data
	}
	b, err := json.Marshal(entry)
	if err != nil {
		w.err = fmt.Errorf("journal: encode %s: %w", e.Type, err)
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = err
		return
	}
	if err := w.w.WriteByte('\n'); err != nil {
		w.err = err
		return
	}
	w.seq++
}

// Len returns the number of entries written.
func (w *Writer) Len() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}

// Err returns the first write failure, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Flush pushes buffered entries through the encoder as a complete frame.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enc == nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close flushes and closes the stream. Further events are dropped.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enc == nil {
		return w.err
	}
	err := w.w.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	w.enc = nil
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
		w.file = nil
	}
	if err == nil {
		err = w.err
	}
	return err
}

// ReadAll decodes a whole journal stream.
func ReadAll(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("journal: line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// ReadFile decodes the journal at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}
