// Package trace reads the 25-byte-per-record binary trace format.
package trace

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/kerrors"
)

// RecordSize is the fixed on-disk size of one trace record, in bytes.
const RecordSize = 25

// Reader lazily decodes Access records from a little-endian binary trace.
// Not safe for concurrent use.
type Reader struct {
	f   *os.File
	br  *bufio.Reader
	buf [RecordSize]byte
}

// Open validates the file length (must be a multiple of RecordSize) and
// returns a Reader positioned at the first record.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIO, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIO, path, err)
	}
	if info.Size()%RecordSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: size %d is not a multiple of %d bytes",
			kerrors.ErrInputMalformed, path, info.Size(), RecordSize)
	}
	return &Reader{f: f, br: bufio.NewReaderSize(f, 1<<20)}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.f.Close() }

// Next decodes the next record. ok is false at clean end of trace (io.EOF);
// err is non-nil only for a genuine read failure or an unknown op byte.
// SET records are still returned (callers that only want GETs filter them);
// Gets, below, is the convenience that performs that filtering.
func (r *Reader) Next() (a access.Access, ok bool, err error) {
	_, err = io.ReadFull(r.br, r.buf[:])
	if err == io.EOF {
		return access.Access{}, false, nil
	}
	if err != nil {
		return access.Access{}, false, fmt.Errorf("%w: short record: %v", kerrors.ErrInputMalformed, err)
	}

	a.Timestamp = binary.LittleEndian.Uint64(r.buf[0:8])
	switch r.buf[8] {
	case 0:
		a.Op = access.Get
	case 1:
		a.Op = access.Set
	default:
		return access.Access{}, false, fmt.Errorf("%w: unknown op byte %d at timestamp %d",
			kerrors.ErrInputMalformed, r.buf[8], a.Timestamp)
	}
	a.Key = binary.LittleEndian.Uint64(r.buf[9:17])
	a.Size = binary.LittleEndian.Uint32(r.buf[17:21])
	a.TTL = binary.LittleEndian.Uint32(r.buf[21:25])
	return a, true, nil
}

// Gets streams only GET records to ch, closing it at end of trace or on the
// first error (which is sent to errc before errc is closed). SET records
// are silently skipped, per spec: they are not an error condition.
func (r *Reader) Gets(ch chan<- access.Access, errc chan<- error) {
	defer close(ch)
	defer close(errc)
	for {
		a, ok, err := r.Next()
		if err != nil {
			errc <- err
			return
		}
		if !ok {
			return
		}
		if a.Op != access.Get {
			continue
		}
		ch <- a
	}
}
