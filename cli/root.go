package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/podium-coach/podium/config"
)

type Dependencies struct {
	Config *config.Root
	Log    *logrus.Logger
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "podium",
		Short: "Rehearse presentations with AI coaching feedback",
		Long: "Record a rehearsal from the microphone, submit it with slide context to the " +
			"analysis service, and get emotion-aware coaching feedback back.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
