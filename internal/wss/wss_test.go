package wss

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTrace(t *testing.T, records [][5]uint64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, r := range records {
		var buf [25]byte
		binary.LittleEndian.PutUint64(buf[0:8], r[0])
		buf[8] = byte(r[1])
		binary.LittleEndian.PutUint64(buf[9:17], r[2])
		binary.LittleEndian.PutUint32(buf[17:21], uint32(r[3]))
		binary.LittleEndian.PutUint32(buf[21:25], uint32(r[4]))
		if _, err := f.Write(buf[:]); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestScan_SumsDistinctKeySizes(t *testing.T) {
	t.Parallel()

	path := writeTrace(t, [][5]uint64{
		{1, 0, 7, 100, 0},
		{2, 0, 7, 100, 0}, // repeat of key 7, does not double-count
		{3, 1, 8, 999, 0}, // SET, ignored entirely
		{4, 0, 9, 50, 0},
	})

	got, err := Scan(path)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got != 150 {
		t.Fatalf("got %d, want 150", got)
	}
}

func TestScan_EmptyTrace(t *testing.T) {
	t.Parallel()

	path := writeTrace(t, nil)
	got, err := Scan(path)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
