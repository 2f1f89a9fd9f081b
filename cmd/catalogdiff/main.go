// Command catalogdiff checks that two exercise catalogs are structurally
// identical except for the tracked video-link field, and lists the links that changed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Phippsy/exercise/internal/config"
	"github.com/Phippsy/exercise/internal/domain"
	"github.com/Phippsy/exercise/internal/observability"
	"github.com/Phippsy/exercise/internal/persistence"
	"github.com/Phippsy/exercise/internal/publish"
)

var errDifferencesFound = errors.New("structural differences found")

// changeWriter is satisfied by publish.KafkaProducer.
type changeWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
	Close() error
}

type options struct {
	base           string
	candidate      string
	trackedField   string
	brokers        []string
	topic          string
	publishTimeout time.Duration
	metricsFile    string
	logLevel       string

	logger    *zap.Logger
	newWriter func(brokers []string) changeWriter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newOptions(config.Load())).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps a run outcome to the process status: 1 for structural
// differences, 2 for anything that prevented a comparison.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errDifferencesFound) {
		return 1
	}
	fmt.Fprintf(stderr, "catalogdiff: %v\n", err)
	return 2
}

func newOptions(cfg config.Config) *options {
	return &options{
		base:           cfg.BaseCatalogPath,
		candidate:      cfg.CandidateCatalogPath,
		trackedField:   cfg.TrackedField,
		brokers:        cfg.KafkaBrokers,
		topic:          cfg.EventsTopic,
		publishTimeout: cfg.PublishTimeout,
		metricsFile:    cfg.MetricsTextfile,
		logLevel:       cfg.LogLevel,
		newWriter: func(brokers []string) changeWriter {
			return publish.NewKafkaProducer(brokers)
		},
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogdiff [base] [candidate]",
		Short: "Compare two exercise catalogs",
		Long: `Compares two exercise catalogs workout by workout and exercise by exercise,
pairing them by position. Every field must match except the tracked field,
whose changes are listed separately.

Exits 1 when structural differences are found and 2 when a catalog cannot be read.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.base = args[0]
			}
			if len(args) > 1 {
				opts.candidate = args[1]
			}
			return runCompare(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.trackedField, "tracked-field", opts.trackedField, "exercise field allowed to differ")
	flags.StringSliceVar(&opts.brokers, "brokers", opts.brokers, "Kafka brokers to publish tracked changes to (empty disables)")
	flags.StringVar(&opts.topic, "topic", opts.topic, "Kafka topic for tracked change events")
	flags.DurationVar(&opts.publishTimeout, "publish-timeout", opts.publishTimeout, "timeout for publishing events")
	flags.StringVar(&opts.metricsFile, "metrics-file", opts.metricsFile, "write Prometheus metrics to this textfile")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	return cmd
}

func runCompare(cmd *cobra.Command, opts *options) error {
	logger := opts.logger
	if logger == nil {
		l, err := observability.NewLogger(opts.logLevel)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()
		logger = l
	}

	schema := domain.DefaultSchema()
	schema.TrackedField = opts.trackedField

	base, err := persistence.LoadCatalog(opts.base, schema)
	if err != nil {
		return err
	}
	candidate, err := persistence.LoadCatalog(opts.candidate, schema)
	if err != nil {
		return err
	}

	result := domain.NewComparator(schema).Compare(base, candidate)
	recordComparison(result)
	logger.Info("catalogs compared",
		zap.String("base", opts.base),
		zap.String("candidate", opts.candidate),
		zap.Int("differences", len(result.Differences)),
		zap.Int("tracked_changes", len(result.TrackedChanges)),
	)

	if err := renderComparison(cmd.OutOrStdout(), opts.base, opts.candidate, schema.TrackedField, result); err != nil {
		return err
	}

	if err := publishChanges(cmd.Context(), opts, result, logger); err != nil {
		return err
	}

	if opts.metricsFile != "" {
		if err := observability.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}

	if result.Failed() {
		return errDifferencesFound
	}
	return nil
}

func recordComparison(result domain.Result) {
	byKind := make(map[string]int)
	for kind, n := range result.CountByKind() {
		byKind[string(kind)] = n
	}
	observability.RecordComparison(byKind, len(result.TrackedChanges), time.Now())
}

// publishChanges emits tracked changes only for a clean comparison: once the
// structure differs, positional pairing no longer identifies the exercise.
func publishChanges(ctx context.Context, opts *options, result domain.Result, logger *zap.Logger) error {
	if len(opts.brokers) == 0 || len(result.TrackedChanges) == 0 {
		return nil
	}
	if result.Failed() {
		logger.Warn("skipping publication of tracked changes",
			zap.Int("tracked_changes", len(result.TrackedChanges)),
			zap.String("reason", "structural differences found"))
		return nil
	}

	writer := opts.newWriter(opts.brokers)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("kafka writer close failed", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, opts.publishTimeout)
	defer cancel()

	publisher := publish.NewPublisher(writer, opts.topic, opts.trackedField, publish.WithLogger(logger))
	_, err := publisher.PublishTrackedChanges(ctx, publish.Sources{Base: opts.base, Target: opts.candidate}, result.TrackedChanges)
	return err
}
