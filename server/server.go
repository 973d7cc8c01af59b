package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/podium-coach/podium/clients"
	"github.com/podium-coach/podium/coach"
	"github.com/podium-coach/podium/config"
	"github.com/podium-coach/podium/emotion"
	"github.com/podium-coach/podium/transcribe"
)

// EmotionAnalyzer runs a prosody pass over an audio payload. A nil error
// means the returned Analysis is non-nil.
type EmotionAnalyzer interface {
	AnalyzeVoice(ctx context.Context, audio []byte) (*emotion.Analysis, error)
}

// Server is the analysis backend: it accepts audio and PDF payloads from the
// capture front-end, forwards them to the external model services, and
// relays the combined result.
type Server struct {
	log         *logrus.Logger
	cfg         *config.Root
	emotion     EmotionAnalyzer
	transcriber transcribe.Transcriber
	profile     *coach.Profile
	generator   coach.Generator
	http        *clients.HTTP
}

func New(log *logrus.Logger, cfg *config.Root, ea EmotionAnalyzer, tr transcribe.Transcriber, profile *coach.Profile, gen coach.Generator) *Server {
	if profile == nil {
		profile = coach.DefaultProfile()
	}
	return &Server{
		log:         log,
		cfg:         cfg,
		emotion:     ea,
		transcriber: tr,
		profile:     profile,
		generator:   gen,
		http:        clients.NewHTTP(cfg.Server.RequestTimeout),
	}
}

func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", s.healthz)
	engine.POST("/analyze", s.analyze)
	engine.POST("/slides", s.slides)
	return engine
}

func (s *Server) Run() error {
	addr := s.cfg.Server.Addr
	s.log.WithField("addr", addr).Info("analysis server listening")
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Engine(),
		ReadTimeout:  s.cfg.Server.RequestTimeout,
		WriteTimeout: s.cfg.Server.RequestTimeout,
	}
	return srv.ListenAndServe()
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
