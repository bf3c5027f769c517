package trace

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/kerrors"
)

func writeRecord(t *testing.T, f *os.File, ts uint64, op byte, key uint64, size, ttl uint32) {
	t.Helper()
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], ts)
	buf[8] = op
	binary.LittleEndian.PutUint64(buf[9:17], key)
	binary.LittleEndian.PutUint32(buf[17:21], size)
	binary.LittleEndian.PutUint32(buf[21:25], ttl)
	if _, err := f.Write(buf[:]); err != nil {
		t.Fatal(err)
	}
}

func TestReader_DecodesRecordsInOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trace.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writeRecord(t, f, 1, 0, 7, 100, 0)
	writeRecord(t, f, 2, 1, 8, 50, 0)
	writeRecord(t, f, 3, 0, 7, 100, 0)
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	want := []access.Access{
		{Timestamp: 1, Op: access.Get, Key: 7, Size: 100},
		{Timestamp: 2, Op: access.Set, Key: 8, Size: 50},
		{Timestamp: 3, Op: access.Get, Key: 7, Size: 100},
	}
	for i, w := range want {
		got, ok, err := r.Next()
		if err != nil || !ok {
			t.Fatalf("record %d: got (%v, %v, %v)", i, got, ok, err)
		}
		if got != w {
			t.Fatalf("record %d: got %+v, want %+v", i, got, w)
		}
	}
	if _, ok, err := r.Next(); ok || err != nil {
		t.Fatalf("expected clean EOF, got ok=%v err=%v", ok, err)
	}
}

func TestReader_RejectsMalformedLength(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, make([]byte, RecordSize+1), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, kerrors.ErrInputMalformed) {
		t.Fatalf("got %v, want ErrInputMalformed", err)
	}
}

func TestReader_RejectsUnknownOpByte(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "badop.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writeRecord(t, f, 1, 2, 7, 1, 0)
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, _, err := r.Next(); !errors.Is(err, kerrors.ErrInputMalformed) {
		t.Fatalf("got %v, want ErrInputMalformed", err)
	}
}

func TestReader_GetsSkipsSets(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trace.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writeRecord(t, f, 1, 0, 1, 10, 0)
	writeRecord(t, f, 2, 1, 2, 10, 0)
	writeRecord(t, f, 3, 0, 3, 10, 0)
	f.Close()

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ch := make(chan access.Access, 8)
	errc := make(chan error, 1)
	go r.Gets(ch, errc)

	var keys []uint64
	for a := range ch {
		keys = append(keys, a.Key)
	}
	if err := <-errc; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != 1 || keys[1] != 3 {
		t.Fatalf("got keys %v, want [1 3]", keys)
	}
}
