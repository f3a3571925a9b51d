package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"priosched"
	"priosched/internal/logging"
	"priosched/internal/tracing"
)

const version = "0.1.0"

var errNoWorkload = errors.New("one of -workload, -case or -all is required")

type flags struct {
	config   string
	workload string
	caseName string
	all      bool
	cs       int
	format   string
	out      string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("priosched", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "config URL (yaml or json)")
	fs.StringVar(&f.workload, "workload", "", "workload URL (yaml, json or csv)")
	fs.StringVar(&f.caseName, "case", "", "built-in scenario to run (case1..case6)")
	fs.BoolVar(&f.all, "all", false, "run every built-in scenario")
	fs.IntVar(&f.cs, "cs", -1, "context switch time, overrides config and workload")
	fs.StringVar(&f.format, "format", "", "report format: text, table or gantt")
	fs.StringVar(&f.out, "out", "", "write the report to this URL instead of stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.workload == "" && f.caseName == "" && !f.all {
		return nil, errNoWorkload
	}
	return f, nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	loader := priosched.NewLoader(nil)
	cfg := priosched.DefaultConfig()
	if f.config != "" {
		if cfg, err = loader.Config(ctx, f.config); err != nil {
			return err
		}
	}
	if f.format != "" {
		cfg.Report.Format = f.format
	}
	if f.cs >= 0 {
		cfg.ContextSwitchTime = f.cs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Tracing.Enabled {
		if err := initTracing(cfg.Tracing); err != nil {
			logger.Warn("tracing disabled", logging.ErrAttr(err))
		}
		defer func() {
			if err := tracing.Shutdown(ctx); err != nil {
				logger.Warn("tracing shutdown", logging.ErrAttr(err))
			}
		}()
	}

	workloads, err := selectWorkloads(ctx, loader, f)
	if err != nil {
		return err
	}

	var opts []priosched.Option
	opts = append(opts, priosched.WithLogger(logger))
	if f.cs >= 0 {
		opts = append(opts, priosched.WithContextSwitchTime(priosched.Ttick(f.cs)))
	}

	var report bytes.Buffer
	for _, w := range workloads {
		res, err := priosched.RunWorkload(ctx, w, priosched.Ttick(cfg.ContextSwitchTime), opts...)
		if err != nil {
			return err
		}
		if len(workloads) > 1 {
			fmt.Fprintf(&report, "\n================ %s ================\n", w.Name)
		}
		if err := priosched.WriteReport(&report, cfg.Report.Format, res); err != nil {
			return err
		}
	}

	if f.out != "" {
		return loader.Upload(ctx, f.out, report.Bytes())
	}
	_, err = stdout.Write(report.Bytes())
	return err
}

func selectWorkloads(ctx context.Context, loader *priosched.Loader, f *flags) ([]*priosched.Workload, error) {
	fixtures := priosched.Fixtures()
	switch {
	case f.workload != "":
		w, err := loader.Workload(ctx, f.workload)
		if err != nil {
			return nil, err
		}
		return []*priosched.Workload{w}, nil
	case f.caseName != "":
		w, ok := fixtures[f.caseName]
		if !ok {
			return nil, fmt.Errorf("unknown case %q, want one of %v", f.caseName, priosched.FixtureNames())
		}
		return []*priosched.Workload{w}, nil
	default:
		workloads := make([]*priosched.Workload, 0, len(fixtures))
		for _, name := range priosched.FixtureNames() {
			workloads = append(workloads, fixtures[name])
		}
		return workloads, nil
	}
}

func buildLogger(cfg priosched.LogConfig) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: opening log file", err)
		}
		w = file
		closeFn = func() { _ = file.Close() }
	}
	logger, err := logging.New(w, cfg.Level, cfg.Format)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

func initTracing(cfg priosched.TracingConfig) error {
	if cfg.File == "" {
		return tracing.Init("priosched", version, os.Stdout)
	}
	file, err := os.Create(cfg.File)
	if err != nil {
		return err
	}
	return tracing.Init("priosched", version, file)
}
