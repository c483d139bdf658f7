package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ForestMars/DrZONST"
)

func main() {
	count := flag.Int("count", 500, "Number of documents to generate")
	things := flag.Int("things", 20, "Things per document")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "drzonst_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d documents in %s...\n", *count, benchDir)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		filename := filepath.Join(benchDir, fmt.Sprintf("doc_%d.prd.md", i))
		if err := os.WriteFile(filename, []byte(document(i, *things)), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	req := drzonst.GenerateRequest{
		Inputs: []string{filepath.Join(benchDir, "*.prd.md")},
		Schema: true,
	}
	ctx := context.Background()

	run := func(workers int) time.Duration {
		start := time.Now()
		results, err := drzonst.GenerateFiles(ctx, req, drzonst.WithLogger(logger), drzonst.WithWorkers(workers))
		if err != nil {
			panic(err)
		}
		d := time.Since(start)
		fmt.Printf("Workers %d: %v (Documents: %d)\n", workers, d, len(results))
		return d
	}

	serial := run(1)
	parallel := run(runtime.NumCPU())

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d documents, %d things each):\n", *count, *things)
	fmt.Printf("  Serial:   %v\n", serial)
	fmt.Printf("  Parallel: %v\n", parallel)
	fmt.Printf("--------------------------------------------------\n")
}

// document builds a synthetic requirements document with n things, every
// other one an entity, plus one operation per entity.
func document(i, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Section: Overview\n- Product Description: Benchmark %d.\n- Business Area: Bench Area %d\n\n", i, i)

	b.WriteString("# Section: Things\n")
	for t := 0; t < n; t++ {
		fmt.Fprintf(&b, "- Thing%d: Thing number %d.\n  ## Properties:\n    - name: text, required\n", t, t)
		if t%2 == 0 {
			b.WriteString("    - id: text, unique, required\n")
			fmt.Fprintf(&b, "  ## Actions:\n    - Add Thing%d: Adds one\n    - Remove Thing%d: Removes one\n", t, t)
		}
	}

	b.WriteString("\n# Section: Operations\n")
	for t := 0; t < n; t += 2 {
		fmt.Fprintf(&b, "## Add Thing%d\n- Describe what the action does: Adds one.\n- Who Can Do It: Admin Only\n- Inputs:\n  - name: text\n- Notifications:\n  - A thing was added.\n\n", t)
	}
	return b.String()
}
