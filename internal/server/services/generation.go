package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codexplain/internal/logging"
	"codexplain/internal/server/config"
	"codexplain/internal/server/models"
)

// Generator is the external completion API as seen by this service.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Mode-specific instruction templates for the explain flow. %s slots are
// language and code, in that order.
var modeTemplates = map[string]string{
	models.ModeExplain:  "Explain the following %s code in clear, simple terms:\n\n%s",
	models.ModeDebug:    "Find the bugs in the following %s code, explain each one and suggest a fix:\n\n%s",
	models.ModeOptimize: "Optimize the following %s code and explain the improvements:\n\n%s",
	models.ModeComment:  "Add helpful comments to the following %s code and return the commented version:\n\n%s",
}

// GenerationService builds bounded-length prompts, delegates to the external
// generation API, and records explain interactions into history. Upstream
// failures are returned to the caller untouched; history write failures are
// logged but never turn a successful generation into an error.
type GenerationService struct {
	client         Generator
	history        *HistoryService
	maxPromptChars int
	logger         logging.Logger
}

func NewGenerationService(client Generator, history *HistoryService, cfg *config.Config, logger logging.Logger) *GenerationService {
	return &GenerationService{
		client:         client,
		history:        history,
		maxPromptChars: cfg.MaxPromptChars,
		logger:         logger.With("module", "generation_service"),
	}
}

// truncate bounds user input to the configured character budget before it is
// embedded into a prompt. Stored history keeps the input as submitted.
func (s *GenerationService) truncate(input string) string {
	runes := []rune(input)
	if len(runes) <= s.maxPromptChars {
		return input
	}
	return string(runes[:s.maxPromptChars])
}

func (s *GenerationService) language(language string) string {
	if language == "" {
		return "source"
	}
	return language
}

// Explain runs the mode-specific explain flow and appends a history record
// for the given identity on success. This is the only history-tracked flow.
func (s *GenerationService) Explain(ctx context.Context, email, code, language, mode string) (string, error) {
	template, ok := modeTemplates[mode]
	if !ok {
		template = modeTemplates[models.ModeExplain]
		mode = models.ModeExplain
	}

	prompt := fmt.Sprintf(template, s.language(language), s.truncate(code))

	explanation, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	record := &models.HistoryRecord{
		ID:          uuid.NewString(),
		Email:       email,
		Language:    language,
		Mode:        mode,
		Code:        code,
		Explanation: explanation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.history.Record(ctx, record); err != nil {
		s.logger.Error(ctx, "recording history", "email", email, "error", err.Error())
	}

	return explanation, nil
}

// ExplainLine explains a single line in the context of the whole snippet.
func (s *GenerationService) ExplainLine(ctx context.Context, code string, lineNumber int, language string) (string, error) {
	prompt := fmt.Sprintf("Explain line %d of the following %s code in context:\n\n%s",
		lineNumber, s.language(language), s.truncate(code))
	return s.client.Complete(ctx, prompt)
}

// Convert translates code between languages.
func (s *GenerationService) Convert(ctx context.Context, code, from, to string) (string, error) {
	prompt := fmt.Sprintf("Convert the following code from %s to %s. Return only the converted code:\n\n%s",
		from, to, s.truncate(code))
	return s.client.Complete(ctx, prompt)
}

// Optimize rewrites code for performance and clarity.
func (s *GenerationService) Optimize(ctx context.Context, code, language string) (string, error) {
	prompt := fmt.Sprintf("Optimize the following %s code and explain the improvements:\n\n%s",
		s.language(language), s.truncate(code))
	return s.client.Complete(ctx, prompt)
}

// PromptToCode generates code from a natural-language request.
func (s *GenerationService) PromptToCode(ctx context.Context, request, language string) (string, error) {
	prompt := fmt.Sprintf("Write %s code for the following request. Return only the code:\n\n%s",
		s.language(language), s.truncate(request))
	return s.client.Complete(ctx, prompt)
}

// FillCode completes the missing parts of a snippet.
func (s *GenerationService) FillCode(ctx context.Context, code, language string) (string, error) {
	prompt := fmt.Sprintf("Complete the missing parts of the following %s code. Return the completed code:\n\n%s",
		s.language(language), s.truncate(code))
	return s.client.Complete(ctx, prompt)
}
