package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Transcriber turns an audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// GoogleTranscriber runs batch recognition against Google Cloud
// Speech-to-Text.
type GoogleTranscriber struct {
	log        *logrus.Entry
	client     *speech.Client
	sampleRate int
	channels   int
	language   string
}

func NewGoogle(ctx context.Context, log *logrus.Logger, credsFile string, sampleRate, channels int, language string) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleTranscriber{
		log:        log.WithField("component", "transcribe"),
		client:     client,
		sampleRate: sampleRate,
		channels:   channels,
		language:   language,
	}, nil
}

func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(t.sampleRate),
			AudioChannelCount:          int32(t.channels),
			LanguageCode:               t.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: PCM(audio)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(result.Alternatives[0].Transcript)
	}
	t.log.WithField("chars", sb.Len()).Debug("transcribed")
	return sb.String(), nil
}

func (t *GoogleTranscriber) Close() error { return t.client.Close() }

// PCM strips the 44-byte RIFF header when the payload is a canonical WAV
// file, leaving raw LINEAR16 samples.
func PCM(audio []byte) []byte {
	if len(audio) > 44 && bytes.HasPrefix(audio, []byte("RIFF")) {
		return audio[44:]
	}
	return audio
}

// Duration computes the play time in seconds of raw LINEAR16 samples.
func Duration(pcm []byte, sampleRate, channels int) float64 {
	bps := sampleRate * channels * 2
	if bps == 0 {
		return 0
	}
	return float64(len(pcm)) / float64(bps)
}
