package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/podium-coach/podium/capture"
	"github.com/podium-coach/podium/clients"
	"github.com/podium-coach/podium/orchestrator"
)

func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var slideContext string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a rehearsal and submit it for feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			device := capture.NewFFmpegDevice(deps.Log)
			rehearsal := orchestrator.NewRehearsal(deps.Config, deps.Log, device)

			stop := make(chan struct{})
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				close(stop)
			}()

			fmt.Println("Recording — press Ctrl-C to stop and submit.")
			bundle, dir, err := rehearsal.Run(cmd.Context(), slideContext, stop)
			if err != nil {
				return fmt.Errorf("%s: %w", clients.Advice(err), err)
			}

			if bundle.Feedback.Feedback != "" {
				fmt.Println()
				fmt.Println(bundle.Feedback.Feedback)
			}
			if dir != "" {
				fmt.Printf("\nSaved to %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&slideContext, "context", "c", "", `slide reference forwarded to the coach (e.g. "Slide 2 of 5")`)
	return cmd
}
