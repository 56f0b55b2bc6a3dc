package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
	"github.com/a0929639992ca-hub/TokyoTraveler/pkg/metrics"
)

const extractPrompt = "Analyze this Japanese receipt. Return JSON: merchantName, amount (as number), date (MM/DD), category."

// Draft is a pre-filled expense form parsed from a receipt photo. Every
// field is optional; the caller merges it over the manual form.
type Draft struct {
	MerchantName string               `json:"merchantName,omitempty"`
	Amount       int64                `json:"amount,omitempty"`
	Date         string               `json:"date,omitempty"`
	Category     trip.ExpenseCategory `json:"category,omitempty"`
	TokenUsage   *metrics.TokenUsage  `json:"tokenUsage,omitempty"`
}

// VisionClient issues generateContent calls carrying an inline image.
type VisionClient interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (gemini.GenerateResponse, error)
}

// Config selects the model used for extraction.
type Config struct {
	Model         string
	Temperature   float32
	MaxImageBytes int64
}

// Service turns receipt photos into draft expense entries.
type Service struct {
	cfg    Config
	client VisionClient
	logger *slog.Logger
}

// NewService constructs the receipt helper.
func NewService(cfg Config, client VisionClient, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "receipt.service"),
	}
}

// Extract submits one image to the inference endpoint and parses the JSON
// reply. Any failure returns an error; the caller falls back to manual
// entry. Never retried.
func (s *Service) Extract(ctx context.Context, image []byte, mimeType string) (Draft, error) {
	if len(image) == 0 {
		return Draft{}, apperrors.Wrap("invalid_input", "receipt image cannot be empty", nil)
	}
	if s.cfg.MaxImageBytes > 0 && int64(len(image)) > s.cfg.MaxImageBytes {
		return Draft{}, apperrors.Wrap("invalid_input", "receipt image exceeds maximum allowed size", nil)
	}
	if s.client == nil {
		return Draft{}, apperrors.Wrap("llm_unavailable", "gemini api key is not configured", nil)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Draft{}, apperrors.Wrap("invalid_input", "receipt upload must be an image", nil)
	}

	s.logger.Info("receipt scan request", "bytes", len(image), "mime", mimeType,
		"prompt_tokens", metrics.EstimateTokens(extractPrompt))

	resp, err := s.client.GenerateContent(ctx, gemini.GenerateRequest{
		Model: s.cfg.Model,
		Contents: []gemini.Content{
			{
				Role: "user",
				Parts: []gemini.Part{
					{InlineData: &gemini.Blob{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
					{Text: extractPrompt},
				},
			},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      s.cfg.Temperature,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return Draft{}, apperrors.Wrap("llm_error", "gemini request failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Draft{}, apperrors.Wrap("llm_error", "gemini returned no content", nil)
	}
	draft, err := parseDraft(text)
	if err != nil {
		return Draft{}, apperrors.Wrap("llm_error", "gemini response malformed", err)
	}

	usage := metrics.TokenUsage{
		PromptTokens:     metrics.EstimateTokens(extractPrompt),
		CompletionTokens: metrics.EstimateTokens(text),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	if !usage.IsZero() {
		draft.TokenUsage = &usage
	}
	return draft, nil
}

func parseDraft(raw string) (Draft, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))

	var wire struct {
		MerchantName string  `json:"merchantName"`
		Amount       float64 `json:"amount"`
		Date         string  `json:"date"`
		Category     string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return Draft{}, err
	}
	return Draft{
		MerchantName: strings.TrimSpace(wire.MerchantName),
		Amount:       int64(wire.Amount),
		Date:         strings.TrimSpace(wire.Date),
		Category:     coerceCategory(wire.Category),
	}, nil
}

func coerceCategory(raw string) trip.ExpenseCategory {
	category := trip.ExpenseCategory(strings.ToUpper(strings.TrimSpace(raw)))
	switch category {
	case trip.ExpenseTransport, trip.ExpenseFood, trip.ExpenseHotel,
		trip.ExpenseTicket, trip.ExpenseShopping, trip.ExpenseOther:
		return category
	case "":
		return ""
	}
	return trip.ExpenseOther
}
