package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/podium-coach/podium/capture"
	"github.com/podium-coach/podium/clients"
	cfg "github.com/podium-coach/podium/config"
)

// Rehearsal drives one record → submit → persist round trip. The session
// enforces single-recording semantics; Rehearsal enforces the one-in-flight
// submission obligation the analysis client documents.
type Rehearsal struct {
	cfg     *cfg.Root
	log     *logrus.Logger
	session *capture.Session
	http    *clients.HTTP
}

func NewRehearsal(c *cfg.Root, log *logrus.Logger, device capture.Device) *Rehearsal {
	return &Rehearsal{
		cfg:     c,
		log:     log,
		session: capture.NewSession(log, device, c.Audio),
		http:    clients.NewHTTP(c.Server.RequestTimeout),
	}
}

// Session exposes the underlying capture session for state inspection.
func (r *Rehearsal) Session() *capture.Session { return r.session }

// Run records until stop is signalled (or ctx ends), submits the artifact
// with the slide context, and persists the feedback bundle. The session is
// reset on the way out so the playback handle never leaks.
func (r *Rehearsal) Run(ctx context.Context, slideContext string, stop <-chan struct{}) (*Bundle, string, error) {
	if err := r.session.Start(ctx); err != nil {
		return nil, "", err
	}

	select {
	case <-stop:
	case <-ctx.Done():
	}
	if err := r.session.Stop(); err != nil {
		r.log.WithError(err).Debug("device finalize reported an error")
	}
	defer r.session.Reset()

	if r.session.State() == capture.StateFailed {
		return nil, "", fmt.Errorf("recording failed: %w", r.session.Err())
	}
	artifact := r.session.Artifact()
	if artifact.Empty() {
		return nil, "", clients.ErrEmptyArtifact
	}
	r.log.WithField("bytes", len(artifact.Bytes)).Info("submitting recording")

	feedback, err := r.http.Analyze(ctx, r.cfg.Services.Analysis.URL, artifact, slideContext)
	if err != nil {
		return nil, "", err
	}

	bundle := newBundle(slideContext, len(artifact.Bytes), feedback)
	dir, err := persist(r.cfg.Paths.Outputs, bundle, artifact.Bytes)
	if err != nil {
		// Feedback made it back; a persistence problem should not eat it.
		r.log.WithError(err).Warn("could not persist rehearsal bundle")
		return bundle, "", nil
	}
	return bundle, dir, nil
}
