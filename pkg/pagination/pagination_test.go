package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(query string) Params {
	e := echo.New()
	req := httptest.NewRequest("GET", "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=9999", MaxLimit, 0},
		{"limit=-3&offset=-7", DefaultLimit, 0},
		{"limit=abc", DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := paramsFor(tc.query)
		if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("query %q: got %+v, want limit=%d offset=%d",
				tc.query, p, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestSliceBounds(t *testing.T) {
	cases := []struct {
		p          Params
		n          int
		wantStart  int
		wantEnd    int
	}{
		{Params{Limit: 10, Offset: 0}, 5, 0, 5},
		{Params{Limit: 2, Offset: 2}, 5, 2, 4},
		{Params{Limit: 10, Offset: 8}, 5, 5, 5},
	}
	for _, tc := range cases {
		start, end := tc.p.Slice(tc.n)
		if start != tc.wantStart || end != tc.wantEnd {
			t.Errorf("%+v over %d: got [%d,%d), want [%d,%d)",
				tc.p, tc.n, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestNewResponseHasMore(t *testing.T) {
	if r := NewResponse(nil, 50, 20, 0); !r.HasMore {
		t.Error("expected more pages at offset 0 of 50")
	}
	if r := NewResponse(nil, 50, 20, 40); r.HasMore {
		t.Error("expected no more pages at offset 40 of 50")
	}
}
