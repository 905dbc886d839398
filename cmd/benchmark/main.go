package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/phsym/console-slog"
	"github.com/urfave/cli/v3"
)

const (
	debugKey      = "debug"
	formatKey     = "format"
	cpuProfileKey = "cpuprofile"
	maxSizeKey    = "max"
	itersKey      = "iters"
	repeatsKey    = "repeats"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark bindable variables",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Time single writes through w * h chains of derived variables",
				Flags: append(commonFlags(),
					&cli.UintFlag{
						Name:  maxSizeKey,
						Usage: "Largest chain width and depth, sizes grow by powers of ten",
						Value: 1_000,
					},
					&cli.UintFlag{
						Name:  itersKey,
						Usage: "Writes timed per shape",
						Value: 100,
					},
				),
				Action: propagate,
			},
			{
				Name:  "wait",
				Usage: "Measure waits resolved per millisecond",
				Flags: append(commonFlags(),
					&cli.UintFlag{
						Name:  repeatsKey,
						Usage: "Runs per config, the fastest is reported",
						Value: 5,
					},
				),
				Action: wait,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("benchmark failed", "error", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  debugKey,
			Usage: "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  formatKey,
			Usage: "Output format, table or json",
			Value: "table",
		},
		&cli.StringFlag{
			Name:  cpuProfileKey,
			Usage: "Write a CPU profile to this file",
		},
	}
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

// setup configures logging and profiling and returns the report writer.
func setup(cmd *cli.Command) (render func(io.Writer, report) error, stop func(), err error) {
	initLogger(cmd.Bool(debugKey))

	switch format := cmd.String(formatKey); format {
	case "table":
		render = renderTable
	case "json":
		render = renderJSON
	default:
		return nil, nil, fmt.Errorf("unknown format %q", format)
	}

	stop = func() {}
	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, nil, err
		}
		stop = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}
	return render, stop, nil
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	render, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()

	sizes := powersOfTen(int(cmd.Uint(maxSizeKey)))
	iters := int(cmd.Uint(itersKey))

	slog.Info("warming up")
	benchmarkPropagate(sizes[:1], sizes[:1], iters)

	rep := report{
		title: "Bindable propagation",
		rows:  benchmarkPropagate(sizes, sizes, iters),
	}
	return render(os.Stdout, rep)
}

func wait(ctx context.Context, cmd *cli.Command) error {
	render, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()

	rep := report{title: "Bindable waits"}
	repeats := int(cmd.Uint(repeatsKey))
	for _, cfg := range waitConfigs {
		row, err := benchmarkWait(ctx, cfg, repeats)
		if err != nil {
			return err
		}
		rep.rows = append(rep.rows, row)
	}
	return render(os.Stdout, rep)
}

func powersOfTen(limit int) []int {
	sizes := []int{1}
	for n := 10; n <= limit; n *= 10 {
		sizes = append(sizes, n)
	}
	return sizes
}
