package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"verisight/demo/client"
	"verisight/demo/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) newDashboardCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Scan files from the terminal against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			program := tea.NewProgram(tui.NewModel(url))

			// Handle graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				if _, ok := <-sigChan; ok {
					program.Quit()
				}
			}()

			if _, err := program.Run(); err != nil {
				return fmt.Errorf("error running dashboard: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", client.GetEnvOrDefault("VERISIGHT_URL", client.DefaultBaseURL), "VeriSight server URL")
	return cmd
}
