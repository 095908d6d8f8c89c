package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"verisight/config"
	"verisight/scoring"
	"verisight/shared/kafka"
	shared "verisight/shared/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newEventsCmd() *cobra.Command {
	var (
		group      string
		fromOldest bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail scan.completed events from Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.cfg.KafkaBrokers) == 0 {
				return errors.New("no kafka brokers configured (set KAFKA_BROKERS or --kafka-brokers)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers:    a.cfg.KafkaBrokers,
				Topic:      a.cfg.KafkaTopic,
				GroupID:    group,
				Logger:     a.logger.Named("kafka"),
				FromOldest: fromOldest,
				Handler:    eventPrinter(out),
			})
			if err != nil {
				return fmt.Errorf("failed to create kafka consumer: %w", err)
			}
			defer func() {
				if err := consumer.Close(); err != nil {
					a.logger.Warn("failed to close kafka consumer", zap.Error(err))
				}
			}()

			if err := consumer.Start(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "%s tailing %s\n", infoColor("●"), a.cfg.KafkaTopic)

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", config.DefaultKafkaGroup, "Consumer group id")
	cmd.Flags().BoolVar(&fromOldest, "from-oldest", false, "Replay retained events instead of starting at the head")
	return cmd
}

// eventPrinter writes one colored line per completed scan; malformed events are skipped
func eventPrinter(out io.Writer) *kafka.TypedMessageHandler[shared.ScanEvent] {
	return &kafka.TypedMessageHandler[shared.ScanEvent]{
		AlwaysMark: true,
		Validate: func(e *shared.ScanEvent) bool {
			return e.Type == config.EventScanCompleted && e.SessionID != ""
		},
		Process: func(_ context.Context, e *shared.ScanEvent) error {
			tone := toneColor(string(scoring.StatusTone(e.Category)))
			_, err := fmt.Fprintf(out, "%s  %-6s %-10s %3d  %s\n",
				e.At.Local().Format("15:04:05"),
				e.MediaType,
				tone(e.Category),
				e.TrustScore,
				infoColor(e.SessionID))
			return err
		},
	}
}
