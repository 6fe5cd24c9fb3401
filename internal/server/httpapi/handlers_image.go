package httpapi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"codexplain/internal/server/models"
)

var (
	errFileRequired   = errors.New("file is required")
	errNoCodeDetected = errors.New("no code detected in image")
)

// extractUpload pulls the "file" form part into a temporary file, runs text
// extraction on it, and removes the temporary file before returning. The
// upload never survives the request, whatever the outcome.
func (s *Server) extractUpload(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", errFileRequired
	}

	tmpPath := filepath.Join(os.TempDir(), "upload-"+uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	defer os.Remove(tmpPath)

	text, err := s.extractor.ExtractText(c.Context(), tmpPath)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errNoCodeDetected
	}

	return text, nil
}

func (s *Server) extractionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errFileRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	case errors.Is(err, errNoCodeDetected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No code detected in image"})
	default:
		s.logger.Error(c.Context(), "text extraction failed", "path", c.Path(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Text extraction failed",
			"details": err.Error(),
		})
	}
}

func (s *Server) handleScanCode(c *fiber.Ctx) error {
	mode := c.FormValue("mode")
	if mode == "" {
		mode = models.ModeExplain
	}
	if !models.ValidMode(mode) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mode"})
	}

	code, err := s.extractUpload(c)
	if err != nil {
		return s.extractionError(c, err)
	}

	explanation, err := s.generation.Explain(c.Context(), identity(c), code, c.FormValue("language"), mode)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"explanation": explanation, "mode": mode, "extractedCode": code})
}

func (s *Server) handleConvertImage(c *fiber.Ctx) error {
	from := c.FormValue("from")
	to := c.FormValue("to")
	if from == "" || to == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "From and to are required"})
	}

	code, err := s.extractUpload(c)
	if err != nil {
		return s.extractionError(c, err)
	}

	result, err := s.generation.Convert(c.Context(), code, from, to)
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result, "extractedCode": code})
}

func (s *Server) handleOptimizeImage(c *fiber.Ctx) error {
	code, err := s.extractUpload(c)
	if err != nil {
		return s.extractionError(c, err)
	}

	result, err := s.generation.Optimize(c.Context(), code, c.FormValue("language"))
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result, "extractedCode": code})
}

func (s *Server) handleFillImage(c *fiber.Ctx) error {
	code, err := s.extractUpload(c)
	if err != nil {
		return s.extractionError(c, err)
	}

	result, err := s.generation.FillCode(c.Context(), code, c.FormValue("language"))
	if err != nil {
		return s.upstreamError(c, err)
	}

	return c.JSON(fiber.Map{"result": result, "extractedCode": code})
}
