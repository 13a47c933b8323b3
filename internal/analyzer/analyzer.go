// Package analyzer turns a free-text mood prompt into structured search
// attributes using an LLM. It never fails: any problem with the model or its
// output yields a Fallback analysis so the pipelines can use a popular list.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/moodmatch/internal/anthropic"
)

const maxTokens = 1024

// Completer is a single-turn JSON completion backend.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	Name() string
}

type anthropicCompleter struct {
	c *anthropic.Client
}

// Anthropic adapts the messages client to the Completer interface.
func Anthropic(c *anthropic.Client) Completer {
	return anthropicCompleter{c: c}
}

func (a anthropicCompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	return a.c.Complete(ctx, system, []anthropic.Message{{Role: "user", Content: prompt}}, maxTokens)
}

func (a anthropicCompleter) Name() string { return a.c.Name() }

type Analyzer struct {
	llm      Completer
	logger   *slog.Logger
	validate *validator.Validate
}

// New builds an analyzer. llm may be nil, in which case every analysis falls
// back.
func New(llm Completer, logger *slog.Logger) *Analyzer {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("yearspec", func(fl validator.FieldLevel) bool {
		_, _, ok := parseYearSpec(fl.Field().String())
		return ok
	})
	return &Analyzer{llm: llm, logger: logger, validate: v}
}

// Analyze extracts attributes from prompt.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) Analysis {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fallback("empty prompt")
	}
	if a.llm == nil {
		return fallback("no llm configured")
	}

	raw, err := a.llm.Complete(ctx, systemPrompt, fmt.Sprintf(analysisUserPrompt, prompt), maxTokens)
	if err != nil {
		a.logger.Warn("prompt analysis failed", "llm", a.llm.Name(), "error", err)
		return fallback("llm call: " + err.Error())
	}

	attrs, err := a.parse(raw)
	if err != nil {
		a.logger.Warn("discarding prompt analysis",
			"llm", a.llm.Name(),
			"error", err,
			"raw", truncate(raw, 512),
		)
		return fallback(err.Error())
	}

	a.logger.Debug("prompt analyzed",
		"genres", len(attrs.Genre),
		"keywords", len(attrs.Keywords),
		"year", attrs.Year,
		"platforms", attrs.StreamingPlatforms,
	)
	return Analysis{Attributes: attrs}
}

func (a *Analyzer) parse(raw string) (Attributes, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return Attributes{}, err
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return Attributes{}, fmt.Errorf("parse analysis: %w", err)
	}

	attrs := resp.attributes()
	err = a.validate.Struct(attrs)
	if err != nil && onlyYearInvalid(err) {
		a.logger.Warn("dropping unparseable year", "year", string(resp.Year))
		attrs.Year = ""
		err = a.validate.Struct(attrs)
	}
	if err != nil {
		return Attributes{}, fmt.Errorf("invalid analysis: %w", err)
	}
	return attrs, nil
}

// onlyYearInvalid reports whether every validation failure is on Year.
func onlyYearInvalid(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.StructField() != "Year" {
			return false
		}
	}
	return true
}

// extractJSON strips markdown fences and surrounding prose, returning the
// outermost JSON object.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no json object in response")
	}
	return s[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
