package cmd

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/edfsim/config"
	"github.com/kilianp07/edfsim/core/edf"
	"github.com/kilianp07/edfsim/core/factory"
	"github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/workload"
	"github.com/kilianp07/edfsim/infra/logger"
	_ "github.com/kilianp07/edfsim/infra/metrics" // built-in sinks
	"github.com/kilianp07/edfsim/pkg/export"
)

type options struct {
	cfgPath       string
	horizon       uint32
	format        string
	output        string
	report        string
	logLevel      string
	summary       bool
	initialSwitch bool
	sortSpeeds    bool
	absWindow     bool
}

// NewRootCmd builds the edfsim command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "edfsim <workload>",
		Short: "Simulate an EDF scheduler with admission control and voltage scaling",
		Long: `edfsim reads a workload file and prints one trace line per simulated tick:

  Time <t>: Running <id> at voltage <v>
  Time <t>: Context
  Time <t>: No Process

Metrics sinks: ` + strings.Join(metrics.SinkTypes(), ", "),
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json)")

	f := root.Flags()
	f.Uint32Var(&opts.horizon, "horizon", edf.DefaultHorizon, "number of ticks to simulate")
	f.StringVarP(&opts.format, "format", "f", export.FormatText, "trace format: text, jsonl or csv")
	f.StringVarP(&opts.output, "output", "o", "", "trace file (default stdout)")
	f.StringVar(&opts.report, "report", "", "write the JSON run report to this file")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&opts.summary, "summary", false, "print a per-task summary to stderr")
	f.BoolVar(&opts.initialSwitch, "initial-context-switch", false, "charge the first task its context cost before it runs")
	f.BoolVar(&opts.sortSpeeds, "sort-speeds", false, "select the lowest sufficient speed instead of the first in file order")
	f.BoolVar(&opts.absWindow, "absolute-window", false, "bound the admission test by absolute instead of relative deadlines")

	root.AddCommand(newCheckCmd(), newAuditCmd())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{err: fmt.Errorf("%s expects %d workload file argument, got %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// apply overrides configuration values with the flags set on cmd.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("horizon") {
		cfg.Simulation.Horizon = o.horizon
	}
	if f.Changed("initial-context-switch") {
		cfg.Simulation.InitialContextSwitch = o.initialSwitch
	}
	if f.Changed("sort-speeds") {
		cfg.Simulation.SortSpeeds = o.sortSpeeds
	}
	if f.Changed("absolute-window") {
		cfg.Simulation.AbsoluteWindow = o.absWindow
	}
	if f.Changed("format") {
		cfg.Output.Format = o.format
	}
	if f.Changed("output") {
		cfg.Output.Path = o.output
	}
	if f.Changed("report") {
		cfg.Output.ReportPath = o.report
	}
	if f.Changed("summary") {
		cfg.Output.Summary = o.summary
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
}

func run(cmd *cobra.Command, path string, opts *options) (err error) {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return &configError{err: err}
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}

	logOpts := cfg.Logging.Options()
	logOpts.Out = cmd.ErrOrStderr()
	log, err := logger.NewWithOptions("edfsim", logOpts)
	if err != nil {
		return &configError{err: err}
	}

	w, err := workload.Load(path)
	if err != nil {
		return err
	}

	sink, err := metrics.NewSink(sinkConfigs(cfg.Metrics.Sinks, logOpts))
	if err != nil {
		return &configError{err: fmt.Errorf("metrics: %w", err)}
	}
	defer func() {
		if f, ok := sink.(metrics.Flusher); ok {
			if ferr := f.Flush(); ferr != nil {
				err = errors.Join(err, fmt.Errorf("flush metrics: %w", ferr))
			}
		}
	}()

	sim, err := edf.New(cfg.Simulation.Engine(), log, sink)
	if err != nil {
		return &configError{err: err}
	}
	rep := sim.Run(w)

	if err := writeTo(cmd.OutOrStdout(), cfg.Output.Path, func(out io.Writer) error {
		return export.WriteTrace(out, cfg.Output.Format, rep.Trace)
	}); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	if cfg.Output.ReportPath != "" {
		if err := writeTo(nil, cfg.Output.ReportPath, func(out io.Writer) error {
			return export.WriteReport(out, rep)
		}); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if cfg.Output.Summary {
		if err := export.WriteSummary(cmd.ErrOrStderr(), rep); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

// sinkConfigs returns a copy of cfgs where log sinks inherit the level and
// format of the logging section unless they set their own, and write to the
// same stream as the diagnostic log.
func sinkConfigs(cfgs []factory.ModuleConfig, opts logger.Options) []factory.ModuleConfig {
	out := make([]factory.ModuleConfig, len(cfgs))
	for i, c := range cfgs {
		out[i] = c
		if c.Type != "log" {
			continue
		}
		conf := maps.Clone(c.Conf)
		if conf == nil {
			conf = make(map[string]any, 3)
		}
		if _, ok := conf["level"]; !ok {
			conf["level"] = opts.Level
		}
		if _, ok := conf["format"]; !ok {
			conf["format"] = opts.Format
		}
		conf["out"] = opts.Out
		out[i].Conf = conf
	}
	return out
}

// writeTo runs write against the file at path, or against def when path is
// empty.
func writeTo(def io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(def)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
