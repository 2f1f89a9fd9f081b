// Command workoutreport flattens the workout-session exports of a directory
// into a CSV report that can be shared with a trainer.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Phippsy/exercise/internal/config"
	"github.com/Phippsy/exercise/internal/domain"
	"github.com/Phippsy/exercise/internal/observability"
	"github.com/Phippsy/exercise/internal/persistence"
	"github.com/Phippsy/exercise/internal/report"
)

var errNothingToWrite = errors.New("nothing to write")

type options struct {
	exportsDir  string
	output      string
	metricsFile string
	logLevel    string

	logger *zap.Logger
}

func main() {
	err := newRootCmd(newOptions(config.Load())).Execute()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode returns 1 when there was nothing to report and 2 on read or write failures.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "workoutreport: %v\n", err)
	if errors.Is(err, errNothingToWrite) {
		return 1
	}
	return 2
}

func newOptions(cfg config.Config) *options {
	return &options{
		exportsDir:  cfg.ExportsDir,
		output:      cfg.ReportPath,
		metricsFile: cfg.MetricsTextfile,
		logLevel:    cfg.LogLevel,
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workoutreport",
		Short: "Generate a CSV report from workout-session exports",
		Long: `Reads every workout-session export (*.json) of the exports directory and
writes one CSV line per exercise with its date, workout, muscle group, sets,
reps and volume.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.exportsDir, "exports-dir", opts.exportsDir, "directory holding session exports")
	flags.StringVarP(&opts.output, "output", "o", opts.output, "CSV file to write")
	flags.StringVar(&opts.metricsFile, "metrics-file", opts.metricsFile, "write Prometheus metrics to this textfile")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	return cmd
}

func runReport(cmd *cobra.Command, opts *options) error {
	logger := opts.logger
	if logger == nil {
		l, err := observability.NewLogger(opts.logLevel)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()
		logger = l
	}
	out := cmd.OutOrStdout()

	set, err := persistence.NewSessionLoader(persistence.WithLogger(logger)).Load(opts.exportsDir)
	if err != nil {
		return err
	}
	if len(set.Sessions) == 0 {
		return fmt.Errorf("%w: no workout sessions found in %s", errNothingToWrite, opts.exportsDir)
	}

	rows := domain.FlattenSessions(set.Sessions)
	if err := report.WriteFile(opts.output, rows); err != nil {
		if errors.Is(err, report.ErrNoRows) {
			return fmt.Errorf("%w: sessions contain no exercises", errNothingToWrite)
		}
		return err
	}
	observability.RecordReportRows(len(rows))
	logger.Info("report generated",
		zap.String("output", opts.output),
		zap.Int("rows", len(rows)),
		zap.Int("sessions", len(set.Sessions)),
		zap.Int("skipped_files", len(set.Skipped)),
	)

	fmt.Fprintf(out, "Report generated: %s\n", opts.output)
	fmt.Fprintf(out, "  Total exercises logged: %d\n", len(rows))
	fmt.Fprintf(out, "  Workout sessions: %d\n", len(set.Sessions))
	if len(set.Skipped) > 0 {
		fmt.Fprintf(out, "  Skipped files: %d\n", len(set.Skipped))
	}

	if opts.metricsFile != "" {
		return observability.WriteTextfile(opts.metricsFile)
	}
	return nil
}
