package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unkn0wn-root/kiohash"
	"github.com/unkn0wn-root/kiohash/accel"
	"github.com/unkn0wn-root/kiohash/codec"
	"github.com/unkn0wn-root/kiohash/promstats"
)

const usage = `usage: kiohash [flags] <mode> [args]

modes:
  hash <values...>     hash each argument
  seq                  hash stdin lines as one ordered sequence
  sim <fileA> <fileB>  MinHash vs exact Jaccard of the word sets

flags:
`

func main() {
	var (
		algName  = flag.String("alg", "default", "algorithm: default|fnv|fastwide|distribution|legacy")
		digest   = flag.String("digest", "", "bind a named digest (keccak256|md5|sha1|blowfish|blake2b) behind -alg")
		parallel = flag.Bool("parallel", true, "allow parallel sequence hashing")
		k        = flag.Int("k", 128, "MinHash signature length")
		seed     = flag.Uint64("seed", 0, "MinHash seed (0 = random)")
		accelStr = flag.String("accel", "auto", "acceleration mode: auto|scalar|simd")
		level    = flag.String("log-level", "warn", "log level: debug|info|warn|error")
		metrics  = flag.String("metrics-addr", "", "serve /metrics on this address after the run, e.g. :9090")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := kiohash.NewTextLogger(parseLevel(*level))
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	alg, err := kiohash.ParseAlgorithm(*algName)
	if err != nil {
		fatal(logger, err)
	}
	mode, ok := accel.ParseMode(*accelStr)
	if !ok {
		logger.Warn("unknown accel mode, using auto", "accel", *accelStr)
	}

	cfg := kiohash.DefaultConfig()
	cfg.AccelMode = mode
	if *digest != "" {
		cfg.Digests = map[kiohash.Algorithm]string{alg: *digest}
	}

	cache, err := kiohash.NewHashCache(kiohash.CacheConfig{
		Capacity:     cfg.CacheCapacity,
		ShardCount:   cfg.CacheShards,
		StatsEnabled: true,
	})
	if err != nil {
		fatal(logger, err)
	}
	collector := promstats.New("", cache)
	if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
		fatal(logger, err)
	}

	engine, err := kiohash.New(cfg,
		kiohash.WithLogger(logger),
		kiohash.WithMetrics(collector),
		kiohash.WithCache(cache),
	)
	if err != nil {
		fatal(logger, err)
	}
	defer engine.Close()
	logger.LogProbe(context.Background(), engine.Capability())

	args := flag.Args()
	switch args[0] {
	case "hash":
		err = runHash(os.Stdout, engine, alg, args[1:])
	case "seq":
		err = runSeq(os.Stdout, os.Stdin, engine, alg, *parallel)
	case "sim":
		if len(args) != 3 {
			err = errors.New("sim needs two files")
			break
		}
		var opts []kiohash.MinHashOption
		opts = append(opts, kiohash.WithBaseAlgorithm(alg))
		if *seed != 0 {
			opts = append(opts, kiohash.WithSeed(*seed))
		}
		err = runSim(os.Stdout, engine, *k, args[1], args[2], opts...)
	default:
		err = fmt.Errorf("unknown mode %q", args[0])
	}
	if err != nil {
		fatal(logger, err)
	}

	if *metrics != "" {
		serveMetrics(logger, *metrics)
	}
}

func runHash(w io.Writer, e *kiohash.Engine, alg kiohash.Algorithm, values []string) error {
	hs, err := e.ComputeHashes(kiohash.Strings(values...), alg)
	if err != nil {
		return err
	}
	for i, h := range hs {
		fmt.Fprintf(w, "%s  %s\n", codec.EncodeHash(uint64(h)), values[i])
	}
	return nil
}

func runSeq(w io.Writer, r io.Reader, e *kiohash.Engine, alg kiohash.Algorithm, parallel bool) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}
	start := time.Now()
	h, err := e.ComputeSequenceWith(kiohash.Strings(lines...), alg, parallel)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s  %d elements in %s\n", codec.EncodeHash(uint64(h)), len(lines), time.Since(start))
	return nil
}

func runSim(w io.Writer, e *kiohash.Engine, k int, pathA, pathB string, opts ...kiohash.MinHashOption) error {
	a, err := readWords(pathA)
	if err != nil {
		return err
	}
	b, err := readWords(pathB)
	if err != nil {
		return err
	}

	mh, err := kiohash.NewMinHash(e, k, opts...)
	if err != nil {
		return err
	}
	sa, err := mh.Signature(kiohash.Strings(a...))
	if err != nil {
		return err
	}
	sb, err := mh.Signature(kiohash.Strings(b...))
	if err != nil {
		return err
	}
	est, err := kiohash.JaccardIndex(sa, sb)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "minhash k=%d  estimate %.4f  exact %.4f\n", k, est, kiohash.ExactJaccard(a, b))
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		words = append(words, strings.ToLower(sc.Text()))
	}
	return words, sc.Err()
}

func serveMetrics(logger *kiohash.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}

func fatal(logger *kiohash.Logger, err error) {
	logger.Error("kiohash failed", "error", err)
	os.Exit(1)
}
