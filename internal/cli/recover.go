package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"qsrescue/internal/extract"
	"qsrescue/internal/model"
	"qsrescue/internal/pipeline"
	"qsrescue/internal/sink"
)

var (
	dir          string
	strategyName string
	host         string
	port         int
	vhost        string
	username     string
	password     string
	queue        string
	exchange     string
	routingKey   string
	dryRun       bool
	fileLimit    int
	messageLimit int
	publishRate  float64
	reportPath   string
)

// recoverCmd represents the recover command
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Extract messages from segment files and publish them",
	Long: `Recover scans a directory of queue segment files, extracts message
payloads with the chosen strategy, and publishes everything that passes
validation to the destination broker.

Two extraction strategies exist and one must be chosen explicitly:

  markers   pattern-match raw bytes for the 4-byte tags bracketing message
            blocks; fast and tolerant, JSON payloads only
  entries   decode the structured entry layout and the External Term Format
            wrapper; handles JSON, XML and plain text

Example:
  qsrescue recover --dir /var/lib/rabbitmq/.../queues/XYZ --strategy entries \
    --queue orders --dry-run
  qsrescue recover --dir ./segments --strategy markers --queue orders \
    --host rabbit.internal --username admin --password secret`,
	Args: cobra.NoArgs,
	RunE: runRecover,
}

func init() {
	rootCmd.AddCommand(recoverCmd)

	// Source flags
	recoverCmd.Flags().StringVar(&dir, "dir", ".", "directory containing segment files")
	recoverCmd.Flags().StringVar(&strategyName, "strategy", "", "extraction strategy: markers or entries (required)")
	_ = recoverCmd.MarkFlagRequired("strategy")

	// Broker flags
	recoverCmd.Flags().StringVar(&host, "host", "localhost", "destination broker host")
	recoverCmd.Flags().IntVar(&port, "port", 5672, "destination broker port")
	recoverCmd.Flags().StringVar(&vhost, "vhost", "/", "destination virtual host")
	recoverCmd.Flags().StringVar(&username, "username", "guest", "broker username")
	recoverCmd.Flags().StringVar(&password, "password", "guest", "broker password")
	recoverCmd.Flags().StringVar(&queue, "queue", "", "target queue name (required)")
	recoverCmd.Flags().StringVar(&exchange, "exchange", "", "target exchange (default: default exchange)")
	recoverCmd.Flags().StringVar(&routingKey, "routing-key", "", "routing key (default: queue name)")
	_ = recoverCmd.MarkFlagRequired("queue")

	// Run control flags
	recoverCmd.Flags().BoolVar(&dryRun, "dry-run", false, "scan and validate but do not publish")
	recoverCmd.Flags().IntVar(&fileLimit, "file-limit", 0, "maximum files to process (0 = unlimited)")
	recoverCmd.Flags().IntVar(&messageLimit, "message-limit", 0, "maximum messages to publish (0 = unlimited)")
	recoverCmd.Flags().Float64Var(&publishRate, "rate", 0, "publish rate cap in messages/second (0 = unlimited)")
	recoverCmd.Flags().StringVar(&reportPath, "report", "", "write a JSON run report to this path")
}

func runRecover(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	logger := slog.Default()

	strategy, err := extract.Select(cfg.Source.Strategy, cfg.Heuristics)
	if err != nil {
		return err
	}

	// Connection failure is fatal before any file is processed; in dry-run
	// mode the connection is never attempted.
	var snk sink.Sink = sink.Nop{}
	if !cfg.Broker.DryRun {
		amqpSink, err := sink.DialAMQP(cfg.Broker)
		if err != nil {
			return fmt.Errorf("connect to broker: %w", err)
		}
		logger.Info("connected to broker",
			"host", cfg.Broker.Host, "port", cfg.Broker.Port, "vhost", cfg.Broker.VHost)
		snk = amqpSink
	}
	defer func() {
		if err := snk.Close(); err != nil {
			logger.Warn("closing sink", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	p := pipeline.New(cfg, strategy, snk, logger)
	stats, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("recovery run: %w", err)
	}

	if cfg.Output.ReportPath != "" {
		report := pipeline.NewReport(cfg, stats, started)
		if err := pipeline.WriteReport(report, cfg.Output.ReportPath); err != nil {
			return err
		}
		logger.Info("wrote run report", "path", cfg.Output.ReportPath)
	}

	pipeline.PrintSummary(stats, cfg.Broker.DryRun)
	return nil
}

// buildConfig layers recover flags over the config file over defaults
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	// Heuristic thresholds come from the config file only; they are tunable
	// guesses about the segment format, not per-run knobs.
	if viper.IsSet("heuristics") {
		_ = viper.UnmarshalKey("heuristics", &cfg.Heuristics)
	}

	cfg.Source.Dir = dir
	cfg.Source.Strategy = strategyName
	if viper.IsSet("source.extension") {
		cfg.Source.Extension = viper.GetString("source.extension")
	}

	cfg.Broker.Host = host
	cfg.Broker.Port = port
	cfg.Broker.VHost = vhost
	cfg.Broker.Username = username
	cfg.Broker.Password = password
	cfg.Broker.Queue = queue
	cfg.Broker.Exchange = exchange
	cfg.Broker.RoutingKey = routingKey
	cfg.Broker.DryRun = dryRun
	cfg.Broker.Rate = publishRate

	cfg.Limits.Files = fileLimit
	cfg.Limits.Messages = messageLimit

	cfg.Output.Verbose = verbose
	cfg.Output.ReportPath = reportPath

	return cfg
}
