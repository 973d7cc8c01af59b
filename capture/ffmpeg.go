package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/podium-coach/podium/config"
)

// FFmpegDevice captures the default microphone through an ffmpeg subprocess
// streaming WAV to stdout.
type FFmpegDevice struct {
	log    *logrus.Entry
	binary string
}

func NewFFmpegDevice(log *logrus.Logger) *FFmpegDevice {
	return &FFmpegDevice{
		log:    log.WithField("component", "ffmpeg"),
		binary: "ffmpeg",
	}
}

func inputArgs(cfg config.Audio) []string {
	device := cfg.Device
	switch runtime.GOOS {
	case "darwin":
		if device == "" || device == "default" {
			device = ":default"
		}
		return []string{"-f", "avfoundation", "-i", device}
	default:
		if device == "" {
			device = "default"
		}
		return []string{"-f", "alsa", "-i", device}
	}
}

// Acquire starts the capture process. Fragment delivery waits for Record.
func (d *FFmpegDevice) Acquire(ctx context.Context, cfg config.Audio) (Stream, error) {
	if _, err := exec.LookPath(d.binary); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found on PATH", ErrDeviceUnavailable)
	}

	args := inputArgs(cfg)
	args = append(args,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "wav",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, d.binary, args...)
	cmd.Stderr = io.Discard
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		stdout.Close()
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	d.log.WithField("args", args).Debug("capture process started")

	return &ffmpegStream{log: d.log, cmd: cmd, stdout: stdout, done: make(chan struct{})}, nil
}

type ffmpegStream struct {
	log    *logrus.Entry
	cmd    *exec.Cmd
	stdout io.ReadCloser

	recordOnce sync.Once
	closeOnce  sync.Once
	done       chan struct{} // closed when the reader goroutine exits
	closed     bool
	mu         sync.Mutex
}

func (s *ffmpegStream) Record(ev Events) {
	s.recordOnce.Do(func() {
		go s.pump(ev)
	})
}

func (s *ffmpegStream) pump(ev Events) {
	buf := make([]byte, 4096)
	for {
		n, err := s.stdout.Read(buf)
		if n > 0 && ev.Data != nil {
			ev.Data(buf[:n])
		}
		if err != nil {
			waitErr := s.cmd.Wait()
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			// Unblock Finalize/Close before handing over the final event:
			// the Closed handler may itself release this stream.
			close(s.done)
			if ev.Closed == nil {
				return
			}
			if err == io.EOF || closed {
				// Deliberate stop, or ffmpeg finishing on its own.
				ev.Closed(nil)
			} else {
				ev.Closed(fmt.Errorf("capture stream: %w", errFirst(err, waitErr)))
			}
			return
		}
	}
}

// Finalize interrupts ffmpeg and waits for the reader to drain what remains
// in the pipe.
func (s *ffmpegStream) Finalize() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
		// Process already gone; the reader will observe EOF.
		s.log.WithError(err).Debug("interrupt after exit")
	}
	s.waitReader()
	return nil
}

func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cmd.Process.Kill()
		s.stdout.Close()
		s.waitReader()
	})
	return nil
}

// waitReader blocks until the pump goroutine exits, or returns immediately
// if Record was never called.
func (s *ffmpegStream) waitReader() {
	started := true
	s.recordOnce.Do(func() {
		started = false
		close(s.done)
		s.cmd.Wait()
	})
	if started {
		<-s.done
	}
}

func errFirst(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
