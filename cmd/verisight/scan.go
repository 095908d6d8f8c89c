package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"verisight/scan"
	"verisight/scoring"
	"verisight/types"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	infoColor    = color.New(color.FgCyan).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// toneColor maps a verdict tone onto a terminal color
func toneColor(tone string) func(a ...interface{}) string {
	switch scoring.Tone(tone) {
	case scoring.ToneSuccess:
		return successColor
	case scoring.ToneDestructive:
		return alertColor
	default:
		return warningColor
	}
}

func (a *app) newScanCmd() *cobra.Command {
	var (
		seed int64
		wait bool
	)

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Run the mock scan on local files without a server",
		Long: `Sniffs each file's media type and prints a canned scan result for it.
Only image, video and audio files are accepted. Files are read, never copied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := rand.NewSource(time.Now().UnixNano())
			if seed != 0 {
				src = rand.NewSource(seed)
			}
			picker := scan.NewPicker(src)
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				if wait {
					fmt.Fprintf(out, "%s %s\n", infoColor("Analyzing"), path)
					time.Sleep(a.cfg.ScanDelay)
				}
				if err := scanFile(out, picker, path); err != nil {
					a.logger.Debug("scan failed", zap.String("path", path), zap.Error(err))
					fmt.Fprintf(out, "%s %s: %v\n\n", errorColor("✗"), path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be scanned", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for result selection (0 picks a random seed)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait the configured scan delay before each result")
	return cmd
}

// scanFile sniffs path and prints a picked result
func scanFile(out io.Writer, picker *scan.Picker, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}

	upload, err := scan.Sniff(path, info.Size(), f)
	if err != nil {
		return err
	}

	printResult(out, upload, picker.Pick())
	return nil
}

func printResult(out io.Writer, u types.Upload, r types.ScanResult) {
	v := scoring.Verdict(r.TrustScore, r.DeepfakeProbability)
	gauge := scoring.NewGauge(r.TrustScore, scoring.SizeSmall)
	tone := toneColor(v.Tone)

	fmt.Fprintf(out, "%s %s (%s, %.2f MB)\n", infoColor("▶"), u.Name, u.MIME, u.SizeMB())
	fmt.Fprintf(out, "  %s\n", tone(v.Headline))
	fmt.Fprintf(out, "  Trust score          %s %d/100 %s\n", tone(gauge.Bar(20, '█', '░')), r.TrustScore, v.Label)
	fmt.Fprintf(out, "  Deepfake probability %s\n", toneColor(v.ProbabilityTone)(fmt.Sprintf("%d%%", r.DeepfakeProbability)))
	fmt.Fprintf(out, "  Confidence           %d%%\n", r.Confidence)
	fmt.Fprintf(out, "  Processing time      %.1fs\n", r.ProcessingTime)
	if len(r.Anomalies) == 0 {
		fmt.Fprintf(out, "  %s\n", successColor("No anomalies detected"))
	} else {
		fmt.Fprintf(out, "  Anomalies: %s\n", warningColor(strings.Join(r.Anomalies, "; ")))
	}
	for _, s := range scan.Heatmap(r) {
		fmt.Fprintf(out, "  Hotspot at (%d%%, %d%%) %s\n", s.X, s.Y, s.Label)
	}
	fmt.Fprintln(out)
}
