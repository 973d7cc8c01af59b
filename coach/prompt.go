package coach

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/podium-coach/podium/emotion"
)

// Profile shapes the coaching prompt. The default mirrors what the backend
// always asked for; a yaml file can override any field.
type Profile struct {
	Persona    string   `yaml:"persona"`
	Directives []string `yaml:"directives"`
	Format     string   `yaml:"format"`
}

func DefaultProfile() *Profile {
	return &Profile{
		Persona: "You are an expert speaking coach. Analyze the user's presentation based on three sources of data:",
		Directives: []string{
			"Evaluates the alignment between content, delivery, and emotional tone",
			"Highlights effective moments",
			"Suggests specific improvements",
			"Notes any emotional patterns that could be adjusted",
		},
		Format: "Format your response with clear sections and actionable feedback.",
	}
}

// LoadProfile reads a yaml profile, falling back to the default for an
// empty path.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("coach profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("coach profile %s: %w", path, err)
	}
	return p, nil
}

// PromptData is the material a rehearsal produces for the coach.
type PromptData struct {
	SlideAnalysis string
	Transcript    string
	Dominant      string
	Scores        []emotion.Score
}

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(promptText))

const promptText = `{{.Persona}}

1. Slide Content: {{.SlideAnalysis}}

2. Speech Transcript: {{.Transcript}}

3. Vocal Emotion Analysis:
   - Dominant emotion: {{.Dominant}}
   - Emotion scores: {{.Scores}}

Provide a comprehensive analysis that:
{{- range $i, $d := .Directives}}
{{inc $i}}. {{$d}}
{{- end}}

{{.Format}}`

// BuildPrompt renders the coaching prompt for one rehearsal.
func (p *Profile) BuildPrompt(d PromptData) (string, error) {
	scores, err := json.MarshalIndent(d.Scores, "", "  ")
	if err != nil {
		return "", err
	}
	dominant := d.Dominant
	if dominant == "" {
		dominant = "N/A"
	}
	var sb strings.Builder
	err = promptTmpl.Execute(&sb, struct {
		Persona       string
		Directives    []string
		Format        string
		SlideAnalysis string
		Transcript    string
		Dominant      string
		Scores        string
	}{
		Persona:       p.Persona,
		Directives:    p.Directives,
		Format:        p.Format,
		SlideAnalysis: d.SlideAnalysis,
		Transcript:    d.Transcript,
		Dominant:      dominant,
		Scores:        string(scores),
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
