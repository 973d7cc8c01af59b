package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPCMStripsWAVHeader(t *testing.T) {
	wav := append([]byte("RIFF"), make([]byte, 60)...)
	assert.Len(t, PCM(wav), len(wav)-44)

	raw := make([]byte, 100)
	assert.Equal(t, raw, PCM(raw))

	short := []byte("RIFF")
	assert.Equal(t, short, PCM(short))
}

func TestDuration(t *testing.T) {
	// 16 kHz mono LINEAR16: 32000 bytes per second.
	assert.InDelta(t, 1.0, Duration(make([]byte, 32000), 16000, 1), 1e-9)
	assert.InDelta(t, 0.5, Duration(make([]byte, 32000), 16000, 2), 1e-9)
	assert.Zero(t, Duration([]byte{1}, 0, 0))
}
