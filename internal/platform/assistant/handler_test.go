package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/internal/domain/state"
)

type fixtureSource struct{}

func (fixtureSource) Snapshot() state.Snapshot { return state.Fixture() }

func newHandlerServer(t *testing.T, stub *Stub) *echo.Echo {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC) }
	h := NewHandler(stub, fixtureSource{}, clock)
	e := echo.New()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api, api, api)
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoint(t *testing.T) {
	stub := &Stub{QueryAnswer: "Insulin is critically low."}
	e := newHandlerServer(t, stub)

	rec := post(e, "/api/v1/assistant/query", `{"text":"what is low on stock?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out promptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Answer != "Insulin is critically low." {
		t.Errorf("answer = %q", out.Answer)
	}
	if len(stub.Calls) != 1 || stub.Calls[0] != "query" {
		t.Errorf("calls = %v", stub.Calls)
	}
}

func TestQueryEndpointRequiresText(t *testing.T) {
	stub := &Stub{}
	e := newHandlerServer(t, stub)

	for _, body := range []string{`{}`, `{"text":"   "}`} {
		if rec := post(e, "/api/v1/assistant/query", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(stub.Calls) != 0 {
		t.Errorf("rejected requests reached the client: %v", stub.Calls)
	}
}

func TestVoiceEndpointFallback(t *testing.T) {
	// A zero-value stub answers with the canned fallback.
	rec := post(newHandlerServer(t, &Stub{}), "/api/v1/assistant/voice", `{"text":"discharge bed 101"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out promptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Answer != FallbackVoice {
		t.Errorf("answer = %q, want fallback", out.Answer)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	stub := &Stub{Suggestions: []Suggestion{
		{Name: "Insulin Glargine", Category: "Primary", Reason: "Glycemic control"},
		{Name: "amoxicillin", Category: "Supportive", Reason: "Infection cover"},
		{Name: "Obscurol", Category: "Supportive", Reason: "Not stocked"},
	}}
	e := newHandlerServer(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/P1/suggestions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out []MatchedSuggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("suggestions = %d, want 3", len(out))
	}
	if out[0].MedicineID != "1" || !out[0].InStock {
		t.Errorf("exact match = %+v", out[0])
	}
	// Lowercase "amoxicillin" still joins to "Amoxicillin 250mg".
	if out[1].MedicineID != "3" || !out[1].InStock {
		t.Errorf("substring match = %+v", out[1])
	}
	if out[2].MedicineID != "" || out[2].InStock {
		t.Errorf("unstocked suggestion = %+v", out[2])
	}
}

func TestSuggestionsUnknownPatient(t *testing.T) {
	stub := &Stub{}
	e := newHandlerServer(t, stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/P999/suggestions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if len(stub.Calls) != 0 {
		t.Errorf("unknown patient reached the client: %v", stub.Calls)
	}
}

func TestMatchInventory(t *testing.T) {
	inv := state.Fixture().Inventory
	cases := []struct {
		name   string
		wantID string
	}{
		{"Insulin", "1"},
		{"insulin glargine 100u", "1"},
		{"PARACETAMOL 500MG", "2"},
		{"", ""},
		{"Quinine", ""},
	}
	for _, tc := range cases {
		got := matchInventory(inv, tc.name)
		switch {
		case tc.wantID == "" && got != nil:
			t.Errorf("%q matched %s", tc.name, got.ID)
		case tc.wantID != "" && (got == nil || got.ID != tc.wantID):
			t.Errorf("%q matched %v, want id %s", tc.name, got, tc.wantID)
		}
	}
}
