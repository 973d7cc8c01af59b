package coach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podium-coach/podium/emotion"
)

func TestBuildPrompt(t *testing.T) {
	p := DefaultProfile()
	prompt, err := p.BuildPrompt(PromptData{
		SlideAnalysis: "Slide 2 of 5",
		Transcript:    "Good morning everyone.",
		Dominant:      "joy",
		Scores:        []emotion.Score{{Name: "joy", Score: 0.9}},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "expert speaking coach")
	assert.Contains(t, prompt, "1. Slide Content: Slide 2 of 5")
	assert.Contains(t, prompt, "2. Speech Transcript: Good morning everyone.")
	assert.Contains(t, prompt, "Dominant emotion: joy")
	assert.Contains(t, prompt, `"name": "joy"`)
	assert.Contains(t, prompt, "1. Evaluates the alignment between content, delivery, and emotional tone")
	assert.Contains(t, prompt, "4. Notes any emotional patterns that could be adjusted")
	assert.Contains(t, prompt, "clear sections and actionable feedback")
}

func TestBuildPromptNoDominant(t *testing.T) {
	prompt, err := DefaultProfile().BuildPrompt(PromptData{})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Dominant emotion: N/A")
}

func TestLoadProfileDefault(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)
}

func TestLoadProfileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"persona: You are a ruthless debate judge.\nformat: Respond in bullet points.\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "You are a ruthless debate judge.", p.Persona)
	assert.Equal(t, "Respond in bullet points.", p.Format)
	// untouched fields keep the defaults
	assert.Equal(t, DefaultProfile().Directives, p.Directives)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
