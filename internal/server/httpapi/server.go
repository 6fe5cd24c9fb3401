// Package httpapi exposes the public HTTP surface: registration, login, the
// generation endpoints and their image variants, and the history endpoints.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"codexplain/internal/logging"
	"codexplain/internal/server/config"
	"codexplain/internal/server/services"
)

// TextExtractor is the external OCR collaborator as seen by the handlers.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type Server struct {
	app          *fiber.App
	addr         string
	authRequired bool
	logger       logging.Logger
	users        *services.UserService
	history      *services.HistoryService
	generation   *services.GenerationService
	extractor    TextExtractor
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService,
	hs *services.HistoryService, gs *services.GenerationService, extractor TextExtractor) *Server {

	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             10 * 1024 * 1024,
		}),
		addr:         cfg.EndpointAddrHTTP,
		authRequired: cfg.AuthMode == config.AuthModeRequired,
		logger:       l.With("module", "httpapi"),
		users:        us,
		history:      hs,
		generation:   gs,
		extractor:    extractor,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Post("/register", s.handleRegister)
	s.app.Post("/login", s.handleLogin)

	authd := s.requireAuth()

	s.app.Post("/explain", authd, s.handleExplain)
	s.app.Post("/explain-line", authd, s.handleExplainLine)
	s.app.Post("/convert", authd, s.handleConvert)
	s.app.Post("/optimize", authd, s.handleOptimize)
	s.app.Post("/prompt-to-code", authd, s.handlePromptToCode)
	s.app.Post("/fill-code", authd, s.handleFillCode)

	s.app.Post("/scan-code", authd, s.handleScanCode)
	s.app.Post("/convert-image", authd, s.handleConvertImage)
	s.app.Post("/optimize-image", authd, s.handleOptimizeImage)
	s.app.Post("/fill-image", authd, s.handleFillImage)

	s.app.Get("/history", authd, s.handleGetHistory)
	s.app.Delete("/history", authd, s.handleDeleteHistory)
}

// Run serves until ctx is cancelled, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = s.app.Shutdown()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	return s.app.Listen(s.addr)
}
