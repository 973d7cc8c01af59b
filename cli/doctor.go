package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true
			check := func(name string, passed bool, detail string) {
				mark := "✅"
				if !passed {
					mark = "❌"
					ok = false
				}
				fmt.Printf("%s %s: %s\n", mark, name, detail)
			}

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				check("ffmpeg", false, "not found on PATH; needed for recording")
			} else {
				check("ffmpeg", true, "installed")
			}

			cfg := deps.Config
			if cfg.Credentials.HumeAPIKey != "" {
				check("Hume API key", true, "configured")
			} else {
				check("Hume API key", false, "set PODIUM_CREDENTIALS_HUME_API_KEY or add to config")
			}

			if cfg.Credentials.GoogleCredsFile == "" {
				check("Google credentials", false, "set PODIUM_CREDENTIALS_GOOGLE_CREDENTIALS_FILE for transcription")
			} else if _, err := os.Stat(cfg.Credentials.GoogleCredsFile); err != nil {
				check("Google credentials", false, fmt.Sprintf("file %s not found", cfg.Credentials.GoogleCredsFile))
			} else {
				check("Google credentials", true, "configured")
			}

			if cfg.Credentials.GeminiAPIKey != "" {
				check("Gemini API key", true, "configured")
			} else {
				check("Gemini API key", false, "set PODIUM_CREDENTIALS_GEMINI_API_KEY for feedback generation")
			}

			if !ok {
				return fmt.Errorf("some checks failed")
			}
			fmt.Println("All checks passed.")
			return nil
		},
	}
}
