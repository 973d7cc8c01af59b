package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/podium-coach/podium/coach"
	"github.com/podium-coach/podium/transcribe"
)

type technicalMetrics struct {
	Emotions interface{}        `json:"emotions"`
	Pacing   map[string]float64 `json:"pacing"`
	Clarity  float64            `json:"clarity"`
}

// analyze is the submission endpoint: multipart audio + free-text context in,
// emotion scores + transcript-driven metrics + coaching feedback out.
func (s *Server) analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	defer file.Close()
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected audio file"})
		return
	}
	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio payload unreadable"})
		return
	}
	slideContext := c.PostForm("context")

	ctx := c.Request.Context()
	analysis, err := s.emotion.AnalyzeVoice(ctx, audio)
	if err == nil && analysis == nil {
		err = errors.New("no prosody data found in the response")
	}
	if err == nil && !analysis.Success {
		err = fmt.Errorf("%s", analysis.Error)
	}
	if err != nil {
		s.log.WithError(err).Warn("emotion analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Emotion analysis failed: %v", err),
		})
		return
	}

	// Transcription and feedback degrade gracefully: a missing integration
	// or a model hiccup still leaves the emotion result usable.
	transcript := ""
	if s.transcriber != nil {
		transcript, err = s.transcriber.Transcribe(ctx, audio)
		if err != nil {
			s.log.WithError(err).Warn("transcription failed")
			transcript = ""
		}
	}

	slideAnalysis := slideContext
	if slideAnalysis == "" {
		slideAnalysis = "No slide context provided"
	}

	prompt, err := s.profile.BuildPrompt(coach.PromptData{
		SlideAnalysis: slideAnalysis,
		Transcript:    transcript,
		Dominant:      analysis.Dominant,
		Scores:        analysis.Emotions,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	feedback := ""
	if s.generator != nil {
		feedback, err = s.generator.Generate(ctx, prompt)
		if err != nil {
			s.log.WithError(err).Warn("feedback generation failed")
			feedback = ""
		}
	}

	pcm := transcribe.PCM(audio)
	duration := transcribe.Duration(pcm, s.cfg.Audio.SampleRate, s.cfg.Audio.Channels)
	c.JSON(http.StatusOK, gin.H{
		"emotionalAnalysis": analysis,
		"feedback":          feedback,
		"prompt":            prompt,
		"technicalMetrics": technicalMetrics{
			Emotions: analysis.Emotions,
			Pacing:   map[string]float64{"score": pacing(transcript, duration)},
			Clarity:  analysis.DominantScore,
		},
	})
}

// pacing is words per minute over the recording's play time.
func pacing(transcript string, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	words := len(strings.Fields(transcript))
	return float64(words) / (seconds / 60)
}
