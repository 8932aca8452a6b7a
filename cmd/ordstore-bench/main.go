// ordstore-bench drives a randomized insert/delete/find workload against
// the bare container and reports throughput, the resulting tree height
// against the AVL bound, and the invariant check result.
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/kelseyhightower/envconfig"
	"github.com/valyala/fastrand"

	"github.com/gatogato999/ordstore/pkg/container/avltree"
)

type config struct {
	Ops          int `envconfig:"BENCH_OPS" default:"1000000"`
	KeySpace     int `envconfig:"BENCH_KEY_SPACE" default:"262144"`
	DeletePct    int `envconfig:"BENCH_DELETE_PCT" default:"30"`
	LookupsEvery int `envconfig:"BENCH_LOOKUPS_EVERY" default:"10"`
}

type report struct {
	Ops          int
	Inserts      int
	Deletes      int
	Lookups      int
	Elapsed      time.Duration
	OpsPerSecond float64
	FinalKeys    int
	FinalHeight  int
	HeightBound  float64
	VerifyErr    error
}

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error loading environment variables: %v\n", err)
		os.Exit(1)
	}

	var rng fastrand.RNG
	tree := avltree.New[string, []byte](avltree.Ordered[string])
	rep := report{Ops: cfg.Ops}

	value := []byte("bench-value")
	start := time.Now()
	for op := 0; op < cfg.Ops; op++ {
		key := "k" + strconv.Itoa(int(rng.Uint32n(uint32(cfg.KeySpace))))
		if int(rng.Uint32n(100)) < cfg.DeletePct {
			tree.Delete(key)
			rep.Deletes++
		} else {
			tree.Insert(key, value)
			rep.Inserts++
		}
		if cfg.LookupsEvery > 0 && op%cfg.LookupsEvery == 0 {
			probe := "k" + strconv.Itoa(int(rng.Uint32n(uint32(cfg.KeySpace))))
			tree.Find(probe)
			rep.Lookups++
		}
	}
	rep.Elapsed = time.Since(start)
	rep.OpsPerSecond = float64(cfg.Ops) / rep.Elapsed.Seconds()

	rep.FinalKeys = tree.Len()
	rep.FinalHeight = tree.Height()
	rep.HeightBound = 1.45 * math.Log2(float64(tree.Len()+1))
	rep.VerifyErr = tree.Verify()

	spew.Fdump(os.Stdout, rep)

	if rep.VerifyErr != nil {
		os.Exit(1)
	}
	if float64(rep.FinalHeight) > rep.HeightBound {
		fmt.Fprintf(os.Stderr, "height %d exceeds AVL bound %.2f\n", rep.FinalHeight, rep.HeightBound)
		os.Exit(1)
	}
}
