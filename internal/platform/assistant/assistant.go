// Package assistant wraps the external generative-language service used for
// clinical suggestions, bill synthesis, voice-command interpretation, and
// operational Q&A. Every call degrades gracefully: the rest of the system
// must stay fully usable with the assistant absent, so failures surface as
// empty lists, nil bills, or fixed fallback strings — never as errors that
// interrupt a domain mutation. There is deliberately no retry policy.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medchain/medchain/internal/domain/state"
)

// Suggestion is one medication protocol entry returned for a diagnosis.
// Suggestions are informational only; they are never applied to inventory or
// billing automatically.
type Suggestion struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// Client is the narrow contract the rest of the system depends on.
type Client interface {
	// SuggestMedications returns a categorized protocol for a diagnosis, or
	// an empty list on any failure.
	SuggestMedications(ctx context.Context, diagnosis, historySummary string) []Suggestion
	// SynthesizeBill produces a structured bill for the given lines, or nil
	// when the service fails. Callers must treat nil as "billing failed" and
	// still complete the fulfillment.
	SynthesizeBill(ctx context.Context, patient state.Patient, doctorName string, lines []state.BillLine) *state.Bill
	// AnswerOperationalQuery answers an open-ended admin question. Read-only.
	AnswerOperationalQuery(ctx context.Context, query, opsContext string) string
	// InterpretVoiceCommand summarizes a voice command. Read-only.
	InterpretVoiceCommand(ctx context.Context, command, opsContext string) string
}

// Fallback strings returned when the service is unreachable or its output
// cannot be parsed.
const (
	FallbackVoice = "Voice node error."
	FallbackQuery = "Clinical intelligence connection error."
)

const (
	defaultTimeout = 10 * time.Second
	maxResponseLen = 1 << 20
)

// Config holds the HTTP client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPClient talks to a generate-content endpoint over JSON.
type HTTPClient struct {
	cfg      Config
	client   *http.Client
	now      func() time.Time
	observer func(op, outcome string)
}

// NewHTTPClient creates an HTTPClient with a bounded per-call timeout.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// SetObserver attaches an optional callback invoked with every call's
// operation name and outcome ("ok" or "failed").
func (h *HTTPClient) SetObserver(fn func(op, outcome string)) {
	h.observer = fn
}

// SetClock overrides the clock used for synthesized bill dates.
func (h *HTTPClient) SetClock(clock func() time.Time) {
	h.now = clock
}

// generateRequest is the wire request for the generate endpoint.
type generateRequest struct {
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	System       string `json:"system,omitempty"`
	ResponseMIME string `json:"response_mime_type,omitempty"`
}

// generateResponse is the wire response: a single text field that carries
// either free text or a JSON document, depending on the requested MIME type.
type generateResponse struct {
	Text string `json:"text"`
}

func (h *HTTPClient) generate(ctx context.Context, req generateRequest) (string, error) {
	if h.cfg.BaseURL == "" {
		return "", fmt.Errorf("assistant not configured")
	}
	if req.Model == "" {
		req.Model = h.cfg.Model
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.BaseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseLen))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Text, nil
}

func (h *HTTPClient) observe(op string, failed bool) {
	if h.observer == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	h.observer(op, outcome)
}

// SuggestMedications implements Client.
func (h *HTTPClient) SuggestMedications(ctx context.Context, diagnosis, historySummary string) []Suggestion {
	prompt := fmt.Sprintf(
		"DIAGNOSIS: %q\nPATIENT HISTORY: %q\n\n"+
			"As a clinical pharmacologist, provide a systematic medication protocol. "+
			"Categorize suggestions into First-line Treatment, Alternative/Secondary, "+
			"and Supportive/Complication Management. Only suggest medications standard "+
			"for the stated diagnosis. Respond with a JSON array of objects with keys "+
			"name, category, reason.", diagnosis, historySummary)

	text, err := h.generate(ctx, generateRequest{
		Prompt:       prompt,
		System:       "You are a Senior Medical Officer. Provide evidence-based medication protocols categorized by clinical priority.",
		ResponseMIME: "application/json",
	})
	if err != nil {
		h.observe("suggest_medications", true)
		return []Suggestion{}
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		h.observe("suggest_medications", true)
		return []Suggestion{}
	}
	h.observe("suggest_medications", false)
	return suggestions
}

// billEnvelope is the JSON-schema-shaped bill response.
type billEnvelope struct {
	Bill *wireBill `json:"bill"`
}

type wireBill struct {
	ID          string           `json:"id"`
	PatientID   string           `json:"patientId"`
	PatientName string           `json:"patientName"`
	DoctorName  string           `json:"doctorName"`
	Date        string           `json:"date"`
	Items       []state.BillItem `json:"items"`
	Subtotal    float64          `json:"subtotal"`
	GST         float64          `json:"gst"`
	GrandTotal  float64          `json:"grandTotal"`
}

// SynthesizeBill implements Client.
func (h *HTTPClient) SynthesizeBill(ctx context.Context, patient state.Patient, doctorName string, lines []state.BillLine) *state.Bill {
	var lineDesc []string
	for _, l := range lines {
		lineDesc = append(lineDesc, fmt.Sprintf("%s (Qty: %d, Price: %.2f)", l.MedicineName, l.Quantity, l.UnitPrice))
	}
	prompt := fmt.Sprintf(
		"Generate a professional hospital bill for patient %s (ID: %s). "+
			"The doctor is %s. The date is %s. Items prescribed: %s. "+
			"Calculate the total in Indian Rupees, add 18%% GST, and return a "+
			"structured JSON object {\"bill\": {...}} with a unique id (e.g. INV-XXXXX).",
		patient.Name, patient.ID, doctorName, h.now().Format("2006-01-02"), strings.Join(lineDesc, ", "))

	text, err := h.generate(ctx, generateRequest{Prompt: prompt, ResponseMIME: "application/json"})
	if err != nil {
		h.observe("synthesize_bill", true)
		return nil
	}

	var env billEnvelope
	if err := json.Unmarshal([]byte(text), &env); err != nil || env.Bill == nil || env.Bill.ID == "" {
		h.observe("synthesize_bill", true)
		return nil
	}

	bill := &state.Bill{
		ID:          env.Bill.ID,
		PatientID:   env.Bill.PatientID,
		PatientName: env.Bill.PatientName,
		DoctorName:  env.Bill.DoctorName,
		Date:        parseBillDate(env.Bill.Date, h.now()),
		Items:       env.Bill.Items,
		Subtotal:    env.Bill.Subtotal,
		GST:         env.Bill.GST,
		GrandTotal:  env.Bill.GrandTotal,
	}
	if bill.PatientID == "" {
		bill.PatientID = patient.ID
	}
	if bill.DoctorName == "" {
		bill.DoctorName = doctorName
	}
	h.observe("synthesize_bill", false)
	return bill
}

// AnswerOperationalQuery implements Client.
func (h *HTTPClient) AnswerOperationalQuery(ctx context.Context, query, opsContext string) string {
	text, err := h.generate(ctx, generateRequest{
		Prompt: fmt.Sprintf("Context: %s\n\nQuery: %s", opsContext, query),
		System: "You are an AI Hospital Operations Executive. Provide systematic and data-driven answers.",
	})
	if err != nil || text == "" {
		h.observe("answer_query", true)
		return FallbackQuery
	}
	h.observe("answer_query", false)
	return text
}

// InterpretVoiceCommand implements Client.
func (h *HTTPClient) InterpretVoiceCommand(ctx context.Context, command, opsContext string) string {
	text, err := h.generate(ctx, generateRequest{
		Prompt: fmt.Sprintf("Hospital Voice Assistant. Context: %s. User Command: %q. Summarize accurately or describe the update needed. 15 words max.", opsContext, command),
	})
	if err != nil || text == "" {
		h.observe("interpret_voice", true)
		return FallbackVoice
	}
	h.observe("interpret_voice", false)
	return text
}

// parseBillDate accepts the date formats the service is known to emit and
// falls back to today.
func parseBillDate(s string, now time.Time) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Disabled is a Client used when no assistant endpoint is configured. All
// calls return their degraded results immediately.
type Disabled struct{}

// SuggestMedications implements Client.
func (Disabled) SuggestMedications(context.Context, string, string) []Suggestion {
	return []Suggestion{}
}

// SynthesizeBill implements Client.
func (Disabled) SynthesizeBill(context.Context, state.Patient, string, []state.BillLine) *state.Bill {
	return nil
}

// AnswerOperationalQuery implements Client.
func (Disabled) AnswerOperationalQuery(context.Context, string, string) string {
	return FallbackQuery
}

// InterpretVoiceCommand implements Client.
func (Disabled) InterpretVoiceCommand(context.Context, string, string) string {
	return FallbackVoice
}
