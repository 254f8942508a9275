package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resortagent/models"

	"go.uber.org/zap"
)

// ExtractionError covers every way the extraction step can fail: the
// language service was unreachable, answered with an error, or answered
// with text that holds no valid JSON object. One malformed response is a
// hard failure — there is no retry.
type ExtractionError struct {
	Code    string
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func newExtractionError(msg string, err error) error {
	return &ExtractionError{Code: "extractionError", Message: msg, Err: err}
}

const extractionPrompt = `You are a hotel booking assistant for Denisson's Beach Resort.
Extract booking details from the message below.
Return ONLY valid JSON - no explanation, no markdown, no extra text.

Message:
%s

Return this exact JSON structure:
{
  "guest_name": "full name or empty string",
  "email": "email address or empty string",
  "phone": "phone number or empty string",
  "check_in": "YYYY-MM-DD or empty string",
  "check_out": "YYYY-MM-DD or empty string",
  "room_type": "room type or empty string",
  "adults": 1,
  "children": 0,
  "special_requests": "any special requests or empty string"
}

Rules:
- Convert dates like "March 10 2025" to "2025-03-10"
- If adults not mentioned, default to 1
- If children not mentioned, default to 0
- room_type options: Premium Suite, Deluxe Room, Executive Room, Family Suite, Deluxe Sea View Room, Presidential Suite
- Return ONLY the JSON object, nothing else`

// callTimeout bounds the single synchronous language-service call.
const callTimeout = 30 * time.Second

// Extractor turns an unstructured message into a BookingRequest.
type Extractor interface {
	Extract(ctx context.Context, message string) (models.BookingRequest, error)
}

// DefaultExtractor is the production implementation backed by Gemini.
type DefaultExtractor struct {
	LLM    LLMClient
	Logger *zap.Logger
}

func NewDefaultExtractor(llm LLMClient, logger *zap.Logger) *DefaultExtractor {
	return &DefaultExtractor{LLM: llm, Logger: logger}
}

// extractedFields mirrors the prompt schema. Adults and Children are
// pointers so an absent field can be told apart from an explicit zero
// before defaults are applied.
type extractedFields struct {
	GuestName       string `json:"guest_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	RoomType        string `json:"room_type"`
	Adults          *int   `json:"adults"`
	Children        *int   `json:"children"`
	SpecialRequests string `json:"special_requests"`
}

func (e *DefaultExtractor) Extract(ctx context.Context, message string) (models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	prompt := fmt.Sprintf(extractionPrompt, message)

	raw, err := e.LLM.GenerateContent(ctx, prompt)
	if err != nil {
		return models.BookingRequest{}, newExtractionError("language service call failed", err)
	}

	// Raw response is kept in the operational log for audit.
	e.Logger.Info("Extractor response", zap.String("raw", raw))

	jsonSpan, err := locateJSON(raw)
	if err != nil {
		return models.BookingRequest{}, err
	}

	var fields extractedFields
	if err := json.Unmarshal([]byte(jsonSpan), &fields); err != nil {
		return models.BookingRequest{}, newExtractionError("response JSON is not valid", err)
	}

	req := models.BookingRequest{
		GuestName:       strings.TrimSpace(fields.GuestName),
		Email:           strings.TrimSpace(fields.Email),
		Phone:           strings.TrimSpace(fields.Phone),
		CheckIn:         strings.TrimSpace(fields.CheckIn),
		CheckOut:        strings.TrimSpace(fields.CheckOut),
		RoomType:        strings.TrimSpace(fields.RoomType),
		Adults:          1,
		Children:        0,
		SpecialRequests: strings.TrimSpace(fields.SpecialRequests),
	}
	if fields.Adults != nil {
		if *fields.Adults < 0 {
			return models.BookingRequest{}, newExtractionError("adults count is negative", nil)
		}
		req.Adults = *fields.Adults
	}
	if fields.Children != nil {
		if *fields.Children < 0 {
			return models.BookingRequest{}, newExtractionError("children count is negative", nil)
		}
		req.Children = *fields.Children
	}

	return req, nil
}

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// locateJSON strips markdown code fences and returns the first '{' through
// the last '}' of the response, spanning newlines.
func locateJSON(raw string) (string, error) {
	cleaned := strings.TrimSpace(fenceReplacer.Replace(raw))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", newExtractionError("no JSON object found in response", nil)
	}
	return cleaned[start : end+1], nil
}
