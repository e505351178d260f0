package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sibexico/MemSim/sim"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "memsim:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("memsim", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		simType = fs.String("sim", "page", "simulation to run: page or frag")
		configPath = fs.String("config", "", "path to JSON config file")
		frames = fs.Int("frames", 0, "number of frames (page replacement)")
		refs = fs.String("refs", "", "comma separated page reference sequence")
		policy = fs.String("policy", "", "replacement policy: LRU or Optimal")
		memory = fs.Int("memory", 0, "total memory size in units (fragmentation)")
		block = fs.Int("block", 0, "allocation block size in units")
		allocs = fs.Int("allocs", -1, "number of allocation requests")
		deallocs = fs.Int("deallocs", -1, "number of random deallocations")
		seed = fs.Int64("seed", 0, "fragmentation RNG seed (0 = time based)")
		compress = fs.String("compress", "", "export compression: none, lz4 or snappy")
		exportPath = fs.String("export", "", "write a binary export of the result to this file")
		logLevel = fs.String("log-level", "", "log level: debug, info, warn or error")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := resolveConfig(*configPath)
	if err != nil {
		return err
	}

	// Flags override config file and environment
	if *frames > 0 {
		config.NumFrames = *frames
	}
	if *refs != "" {
		sequence, err := sim.ParseReferences(*refs)
		if err != nil {
			return err
		}
		config.References = sequence
	}
	if *policy != "" {
		config.Policy = *policy
	}
	if *memory > 0 {
		config.TotalMemory = *memory
	}
	if *block > 0 {
		config.BlockSize = *block
	}
	if *allocs >= 0 {
		config.NumAllocs = *allocs
	}
	if *deallocs >= 0 {
		config.NumDeallocs = *deallocs
	}
	if *seed != 0 {
		config.Seed = *seed
	}
	if *compress != "" {
		config.TraceCompression = *compress
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger := newLogger(config.LogLevel)
	compression, err := sim.ParseCompression(config.TraceCompression)
	if err != nil {
		return err
	}

	metrics := sim.NewMetrics()

	switch *simType {
	case "page":
		err = runPage(out, config, logger, metrics, compression, *exportPath)
	case "frag":
		err = runFrag(out, config, logger, metrics, compression, *exportPath)
	default:
		return fmt.Errorf("unknown simulation %q (must be page or frag)", *simType)
	}
	if err != nil {
		return err
	}

	if config.EnableMetrics {
		metrics.LogMetrics(logger)
	}
	return nil
}

func runPage(out io.Writer, config *sim.Config, logger *slog.Logger, metrics *sim.Metrics, compression sim.CompressionType, exportPath string) error {
	logger.Info("running page replacement simulation",
		slog.Int("frames", config.NumFrames),
		slog.String("policy", config.Policy),
		slog.Int("references", len(config.References)),
	)

	faults, trace, err := sim.RunPageReplacement(config.References, config.NumFrames, config.Policy)
	if err != nil {
		return err
	}

	RenderTrace(out, trace, faults)
	metrics.RecordPageRun(trace, config.NumFrames)

	if exportPath != "" {
		blob, err := sim.EncodeTrace(trace, compression)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportPath, blob, 0644); err != nil {
			return fmt.Errorf("failed to write trace export: %w", err)
		}
		logger.Info("trace export written",
			slog.String("path", exportPath),
			slog.String("compression", compression.String()),
			slog.Int("bytes", len(blob)),
		)
	}
	return nil
}

func runFrag(out io.Writer, config *sim.Config, logger *slog.Logger, metrics *sim.Metrics, compression sim.CompressionType, exportPath string) error {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Info("running fragmentation simulation",
		slog.Int("total_memory", config.TotalMemory),
		slog.Int("block_size", config.BlockSize),
		slog.Int("allocs", config.NumAllocs),
		slog.Int("deallocs", config.NumDeallocs),
		slog.Int64("seed", seed),
	)

	rng := rand.New(rand.NewSource(seed))
	result, err := sim.RunFragmentation(config.TotalMemory, config.BlockSize, config.NumAllocs, config.NumDeallocs, rng)
	if err != nil {
		return err
	}

	RenderMemory(out, result)
	metrics.RecordFragmentationRun(result, config.NumAllocs)

	if exportPath != "" {
		blob, err := sim.EncodeLayout(result.Memory, compression)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportPath, blob, 0644); err != nil {
			return fmt.Errorf("failed to write layout export: %w", err)
		}
		logger.Info("layout export written",
			slog.String("path", exportPath),
			slog.String("compression", compression.String()),
			slog.Int("bytes", len(blob)),
		)
	}
	return nil
}

// resolveConfig loads the config file when given, otherwise falls back
// to environment variables with built-in defaults
func resolveConfig(path string) (*sim.Config, error) {
	if path != "" {
		return sim.LoadConfigFromFile(path)
	}
	return sim.LoadConfigFromEnv(), nil
}

// newLogger builds a text slog logger honoring the configured level
func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}
