package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"

	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/logging"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR decoder mode: %v", err))
	}
}

// Record is one captured datagram.
type Record struct {
	Time      time.Time `cbor:"1,keyasint"`
	Interface string    `cbor:"2,keyasint,omitempty"`
	Source    string    `cbor:"3,keyasint,omitempty"`
	Payload   []byte    `cbor:"4,keyasint"`
}

// FromDatagram converts a datagram read by the listener into a Record.
func FromDatagram(d discovery.Datagram) Record {
	r := Record{Time: d.Received, Payload: d.Payload}
	if d.Interface != nil {
		r.Interface = d.Interface.String()
	}
	if d.Source != nil {
		r.Source = d.Source.String()
	}
	return r
}

// FileName returns the name used for a capture started at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("capture-%s.cbor", t.Format("20060102-150405"))
}

// Writer appends records to a CBOR sequence. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	closer  io.Closer
	encoder *cbor.Encoder
	count   int
	closed  bool
}

// NewWriter writes records to w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer) *Writer {
	cw := &Writer{encoder: encMode.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		cw.closer = c
	}
	return cw
}

// Create opens a new capture file in dir, named after the current time.
func Create(dir string) (*Writer, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create capture directory: %w", err)
	}
	path := filepath.Join(dir, FileName(time.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open capture file: %w", err)
	}
	logging.Info("Capturing datagrams", zap.String("file", path))
	return NewWriter(f), path, nil
}

// Write appends r. Writing to a closed Writer returns an error.
func (w *Writer) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("capture writer is closed")
	}
	if err := w.encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode capture record: %w", err)
	}
	w.count++
	return nil
}

// Datagram records d, logging rather than returning failures. It has the
// signature of discovery.Options.OnDatagram.
func (w *Writer) Datagram(d discovery.Datagram) {
	if err := w.Write(FromDatagram(d)); err != nil {
		logging.Error("Failed to capture datagram", zap.Error(err))
	}
}

// Count returns how many records have been written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer. It is safe to call more than once.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Reader streams records from a CBOR sequence.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
}

// NewReader reads records from r.
func NewReader(r io.Reader) *Reader {
	cr := &Reader{decoder: decMode.NewDecoder(r)}
	if c, ok := r.(io.Closer); ok {
		cr.closer = c
	}
	return cr
}

// Open opens a capture file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}

// Next returns the next record, or io.EOF at the end of the sequence.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.decoder.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("failed to decode capture record: %w", err)
	}
	return rec, nil
}

// Close closes the underlying reader, if it has one.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
