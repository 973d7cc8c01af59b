package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podium-coach/podium/coach"
	"github.com/podium-coach/podium/emotion"
	"github.com/podium-coach/podium/server"
	"github.com/podium-coach/podium/transcribe"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			if cfg.Credentials.HumeAPIKey == "" {
				return fmt.Errorf("Hume API key not set: set PODIUM_CREDENTIALS_HUME_API_KEY or add it to config")
			}

			ea := emotion.NewClient(deps.Log, cfg.Services.Emotion.URL, cfg.Credentials.HumeAPIKey)

			var tr transcribe.Transcriber
			if cfg.Credentials.GoogleCredsFile != "" {
				gt, err := transcribe.NewGoogle(cmd.Context(), deps.Log, cfg.Credentials.GoogleCredsFile,
					cfg.Audio.SampleRate, cfg.Audio.Channels, "")
				if err != nil {
					return err
				}
				defer gt.Close()
				tr = gt
			} else {
				deps.Log.Warn("google credentials not set, transcription disabled")
			}

			var gen coach.Generator
			if cfg.Credentials.GeminiAPIKey != "" {
				g, err := coach.NewGemini(cmd.Context(), deps.Log, cfg.Credentials.GeminiAPIKey, cfg.Coach.Model)
				if err != nil {
					return err
				}
				gen = g
			} else {
				deps.Log.Warn("gemini API key not set, feedback generation disabled")
			}

			profile, err := coach.LoadProfile(cfg.Coach.Profile)
			if err != nil {
				return err
			}

			return server.New(deps.Log, cfg, ea, tr, profile, gen).Run()
		},
	}
}
