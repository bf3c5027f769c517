package accurate

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/policy"
)

func writeTrace(t *testing.T, records [][3]uint64) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "trace-*.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var buf [25]byte
	for i, r := range records {
		binary.LittleEndian.PutUint64(buf[0:8], uint64(i))
		buf[8] = 0 // GET
		binary.LittleEndian.PutUint64(buf[9:17], r[0])
		binary.LittleEndian.PutUint32(buf[17:21], uint32(r[1]))
		binary.LittleEndian.PutUint32(buf[21:25], uint32(r[2]))
		if _, err := f.Write(buf[:]); err != nil {
			t.Fatal(err)
		}
	}
	return f.Name()
}

func TestRun_ProducesFullGrid(t *testing.T) {
	path := writeTrace(t, [][3]uint64{
		{1, 10, 0}, {2, 10, 0}, {1, 10, 0}, {2, 10, 0},
	})
	points, err := Run(path, policy.LRU, 20, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	last := points[len(points)-1]
	if last.MissRatio != 0.5 {
		t.Fatalf("at C=WSS both keys always fit: got ratio %v, want 0.5 (2 misses / 4 accesses)", last.MissRatio)
	}
}
