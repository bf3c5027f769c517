// Command genload writes a synthetic Zipfian-distributed binary trace for
// the kosmo tools to consume, and optionally exposes progress as Prometheus
// metrics while it runs.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/trace"
	"github.com/kosmo-mrc/kosmo/metrics/prom"
)

func main() {
	var (
		out     = flag.String("out", "trace.bin", "output trace path")
		records = flag.Int64("records", 1_000_000, "number of records to emit (GET and SET)")
		keys    = flag.Int64("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		minSize = flag.Int("min_size", 64, "minimum record size in bytes")
		maxSize = flag.Int("max_size", 4096, "maximum record size in bytes")
		setPct  = flag.Int("sets", 5, "percentage of records emitted as SET [0..100]")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	)
	flag.Parse()

	var metrics *prom.Adapter
	if *metricsAddr != "" {
		metrics = prom.New(nil, "kosmo", "genload", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("genload: %v", err)
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<20)

	r := rand.New(rand.NewSource(*seed))
	zipf := rand.NewZipf(r, *zipfS, *zipfV, uint64(*keys-1))

	sizeSpan := *maxSize - *minSize
	if sizeSpan < 0 {
		log.Fatalf("genload: min_size %d exceeds max_size %d", *minSize, *maxSize)
	}

	start := time.Now()
	var buf [trace.RecordSize]byte
	for i := int64(0); i < *records; i++ {
		op := access.Get
		if int(r.Int31n(100)) < *setPct {
			op = access.Set
		}
		size := *minSize
		if sizeSpan > 0 {
			size += r.Intn(sizeSpan + 1)
		}

		binary.LittleEndian.PutUint64(buf[0:8], uint64(i))
		buf[8] = byte(op)
		binary.LittleEndian.PutUint64(buf[9:17], zipf.Uint64())
		binary.LittleEndian.PutUint32(buf[17:21], uint32(size))
		binary.LittleEndian.PutUint32(buf[21:25], 0) // TTL: unused by MRC generation

		if _, err := w.Write(buf[:]); err != nil {
			log.Fatalf("genload: %v", err)
		}

		if metrics != nil {
			metrics.Access()
			if op == access.Get {
				metrics.Get()
			} else {
				metrics.Set()
			}
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("genload: %v", err)
	}

	elapsed := time.Since(start)
	if metrics != nil {
		metrics.Elapsed(elapsed.Seconds())
	}
	log.Printf("genload: wrote %d records (%d keys, zipf_s=%.2f) to %s in %v",
		*records, *keys, *zipfS, *out, elapsed)
}
