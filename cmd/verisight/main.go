package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"verisight/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what PersistentPreRunE resolves for every subcommand
type app struct {
	verbose bool
	cfg     config.Config
	logger  *zap.Logger

	// flag overrides, applied on top of the environment
	port         string
	scanDelay    time.Duration
	redisAddr    string
	kafkaBrokers []string
	kafkaTopic   string
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "verisight",
		Short: "VeriSight - deepfake detection demo",
		Long: `VeriSight serves the marketing site, the scan dashboard and a JSON API
for a mock deepfake scanner. Uploaded files are sniffed for their media type
and then discarded; every scan ends with one of three canned results.

Run without arguments to start the web server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.port, "port", "", "HTTP port (overrides PORT)")
	pf.DurationVar(&a.scanDelay, "scan-delay", 0, "How long a scan stays in the scanning state (overrides SCAN_DELAY)")
	pf.StringVar(&a.redisAddr, "redis", "", "Redis address for shared sessions (overrides REDIS_ADDR)")
	pf.StringSliceVar(&a.kafkaBrokers, "kafka-brokers", nil, "Kafka brokers for scan events (overrides KAFKA_BROKERS)")
	pf.StringVar(&a.kafkaTopic, "kafka-topic", "", "Kafka topic for scan events (overrides KAFKA_TOPIC)")

	root.AddCommand(
		a.newServeCmd(),
		a.newDashboardCmd(),
		a.newScanCmd(),
		a.newEventsCmd(),
	)
	return root
}

// setup builds the logger and resolves configuration
func (a *app) setup() error {
	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger.Named("verisight")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.port != "" {
		cfg.Port = strings.TrimPrefix(a.port, ":")
	}
	if a.scanDelay > 0 {
		cfg.ScanDelay = a.scanDelay
	}
	if a.redisAddr != "" {
		cfg.RedisAddr = a.redisAddr
	}
	if len(a.kafkaBrokers) > 0 {
		cfg.KafkaBrokers = a.kafkaBrokers
	}
	if a.kafkaTopic != "" {
		cfg.KafkaTopic = a.kafkaTopic
	}
	a.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
