package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"codexplain/internal/common"
	"codexplain/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	if err := s.users.Register(c.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
		}
		s.logger.Error(c.Context(), "registering user", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register user"})
	}

	return c.JSON(fiber.Map{"message": "User registered successfully"})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	token, err := s.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, common.ErrorUnauthorized):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid password"})
		default:
			s.logger.Error(c.Context(), "logging in", "error", err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log in"})
		}
	}

	return c.JSON(fiber.Map{"token": token})
}

// upstreamError reports a failed generation call. The provider's message is
// passed through in "details" so callers can tell quota errors from outages.
func (s *Server) upstreamError(c *fiber.Ctx, err error) error {
	s.logger.Error(c.Context(), "generation failed", "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Generation failed",
		"details": err.Error(),
	})
}

type explainRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Mode     string `json:"mode"`
}

func (s *Server) handleExplain(c *fiber.Ctx) error {
	var req explainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code is required"})
	}
	if req.Mode == "" {
		req.Mode = models.ModeExplain
	}
	if !models.ValidMode(req.Mode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mode"})
	}

	explanation, err := s.generation.Explain(c.Context(), identity(c), req.Code, req.Language, req.Mode)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"explanation": explanation, "mode": req.Mode})
}

type explainLineRequest struct {
	Code       string `json:"code"`
	LineNumber int    `json:"lineNumber"`
	Language   string `json:"language"`
}

func (s *Server) handleExplainLine(c *fiber.Ctx) error {
	var req explainLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code is required"})
	}
	if req.LineNumber <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Line number is required"})
	}

	explanation, err := s.generation.ExplainLine(c.Context(), req.Code, req.LineNumber, req.Language)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"explanation": explanation})
}

type convertRequest struct {
	Code string `json:"code"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Code == "" || req.From == "" || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code, from and to are required"})
	}

	result, err := s.generation.Convert(c.Context(), req.Code, req.From, req.To)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

type codeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (s *Server) handleOptimize(c *fiber.Ctx) error {
	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code is required"})
	}

	result, err := s.generation.Optimize(c.Context(), req.Code, req.Language)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

type promptRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
}

func (s *Server) handlePromptToCode(c *fiber.Ctx) error {
	var req promptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prompt is required"})
	}

	result, err := s.generation.PromptToCode(c.Context(), req.Prompt, req.Language)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

func (s *Server) handleFillCode(c *fiber.Ctx) error {
	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code is required"})
	}

	result, err := s.generation.FillCode(c.Context(), req.Code, req.Language)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

func (s *Server) handleGetHistory(c *fiber.Ctx) error {
	records, err := s.history.ListFor(c.Context(), identity(c))
	if err != nil {
		s.logger.Error(c.Context(), "listing history", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}

	return c.JSON(fiber.Map{"history": records})
}

func (s *Server) handleDeleteHistory(c *fiber.Ctx) error {
	if err := s.history.ClearFor(c.Context(), identity(c)); err != nil {
		s.logger.Error(c.Context(), "clearing history", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear history"})
	}

	return c.JSON(fiber.Map{"message": "History cleared"})
}
