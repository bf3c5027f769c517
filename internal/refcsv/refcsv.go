// Package refcsv loads and saves the accurate-reference CSV: 100 lines of
// "<cache_size>,<miss_ratio>", ascending by size, no header.
//
// This is the one place in the repo that reaches for stdlib encoding/csv
// instead of a pack-grounded library: no example repo in the retrieval
// pack does CSV I/O, and the format is a flat two-column decimal table
// with no quoting, escaping, or schema evolution concerns that a
// dedicated library would meaningfully help with.
package refcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kosmo-mrc/kosmo/internal/kerrors"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
)

// Load reads an accurate-reference MRC from path.
func Load(path string) ([]mrc.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrIO, path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInputMalformed, path, err)
	}

	points := make([]mrc.Point, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: %s: row %d has %d columns, want 2",
				kerrors.ErrInputMalformed, path, i, len(row))
		}
		size, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", kerrors.ErrInputMalformed, path, i, err)
		}
		ratio, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", kerrors.ErrInputMalformed, path, i, err)
		}
		points = append(points, mrc.Point{CacheSize: size, MissRatio: ratio})
	}
	return points, nil
}

// Save writes an MRC in the accurate-reference format.
func Save(path string, points []mrc.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", kerrors.ErrIO, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, p := range points {
		row := []string{
			strconv.FormatUint(p.CacheSize, 10),
			strconv.FormatFloat(p.MissRatio, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %s: %v", kerrors.ErrIO, path, err)
		}
	}
	w.Flush()
	return w.Error()
}
