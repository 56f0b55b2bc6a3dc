package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReceiptConfig() Config {
	return Config{Model: "gemini-2.0-flash", Temperature: 0.2, MaxImageBytes: 1 << 20}
}

type stubVisionClient struct {
	text        string
	err         error
	lastRequest gemini.GenerateRequest
}

func (c *stubVisionClient) GenerateContent(_ context.Context, req gemini.GenerateRequest) (gemini.GenerateResponse, error) {
	c.lastRequest = req
	if c.err != nil {
		return gemini.GenerateResponse{}, c.err
	}
	payload, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": c.text}}}},
		},
	})
	var resp gemini.GenerateResponse
	_ = json.Unmarshal(payload, &resp)
	return resp, nil
}

func TestExtractParsesDraft(t *testing.T) {
	client := &stubVisionClient{text: `{"merchantName":"ローソン","amount":1280,"date":"01/28","category":"FOOD"}`}
	svc := NewService(testReceiptConfig(), client, newTestLogger())

	draft, err := svc.Extract(context.Background(), []byte{0xff, 0xd8, 0xff}, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "ローソン", draft.MerchantName)
	require.Equal(t, int64(1280), draft.Amount)
	require.Equal(t, "01/28", draft.Date)
	require.Equal(t, trip.ExpenseFood, draft.Category)

	// The image rides along as inline data with the fixed instruction.
	require.Len(t, client.lastRequest.Contents, 1)
	parts := client.lastRequest.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	require.Equal(t, "image/jpeg", parts[0].InlineData.MimeType)
	decoded, err := base64.StdEncoding.DecodeString(parts[0].InlineData.Data)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8, 0xff}, decoded)
	require.Contains(t, parts[1].Text, "Japanese receipt")
	require.Equal(t, "application/json", client.lastRequest.GenerationConfig.ResponseMIMEType)
}

func TestExtractStripsCodeFences(t *testing.T) {
	client := &stubVisionClient{text: "```json\n{\"merchantName\":\"Don Quijote\",\"amount\":4980.0,\"date\":\"01/29\",\"category\":\"SHOPPING\"}\n```"}
	svc := NewService(testReceiptConfig(), client, newTestLogger())

	draft, err := svc.Extract(context.Background(), []byte{1}, "image/png")
	require.NoError(t, err)
	require.Equal(t, "Don Quijote", draft.MerchantName)
	require.Equal(t, int64(4980), draft.Amount)
	require.Equal(t, trip.ExpenseShopping, draft.Category)
}

func TestExtractCoercesUnknownCategory(t *testing.T) {
	client := &stubVisionClient{text: `{"merchantName":"somewhere","amount":100,"date":"01/30","category":"groceries"}`}
	svc := NewService(testReceiptConfig(), client, newTestLogger())

	draft, err := svc.Extract(context.Background(), []byte{1}, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, trip.ExpenseOther, draft.Category)
}

func TestExtractValidatesInput(t *testing.T) {
	svc := NewService(testReceiptConfig(), &stubVisionClient{}, newTestLogger())

	_, err := svc.Extract(context.Background(), nil, "image/jpeg")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Extract(context.Background(), []byte{1}, "application/pdf")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	oversized := make([]byte, 2<<20)
	_, err = svc.Extract(context.Background(), oversized, "image/jpeg")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestExtractWithoutClientIsUnavailable(t *testing.T) {
	svc := NewService(testReceiptConfig(), nil, newTestLogger())

	_, err := svc.Extract(context.Background(), []byte{1}, "image/jpeg")
	require.True(t, apperrors.IsCode(err, "llm_unavailable"))
}

func TestExtractRejectsMalformedReply(t *testing.T) {
	client := &stubVisionClient{text: "the receipt says 1280 yen"}
	svc := NewService(testReceiptConfig(), client, newTestLogger())

	_, err := svc.Extract(context.Background(), []byte{1}, "image/jpeg")
	require.True(t, apperrors.IsCode(err, "llm_error"))
}
