package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/cours-de-latin/hunlint"
)

const testAffix = `
SFX A Y 1
SFX A 0 s/B .

PFX B Y 1
PFX B 0 un .
`

func newTestHandler(t *testing.T, origins ...string) http.Handler {
	t.Helper()
	data, err := hunlint.LoadAffix(strings.NewReader(testAffix))
	if err != nil {
		t.Fatalf("LoadAffix: %v", err)
	}
	entries, err := hunlint.LoadDictionary(strings.NewReader("foo/AB\nbar/A\n"), data)
	if err != nil {
		t.Fatalf("LoadDictionary: %v", err)
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return newHandler(&server{data: data, entries: entries, compoundLimit: 10}, origins)
}

func do(t *testing.T, h http.Handler, method, path, body string, v any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if v != nil && rec.Code < 300 {
		if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return rec
}

func TestHandleGenerate(t *testing.T) {
	h := newTestHandler(t)
	var resp generateResponse
	rec := do(t, h, http.MethodPost, "/api/generate", `{"lines":["foo/AB","bar/Z"]}`, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	var words []string
	for _, p := range resp.Results[0].Productions {
		words = append(words, p.Word)
	}
	if want := []string{"foo", "foos", "unfoo", "unfoos"}; !slices.Equal(words, want) {
		t.Errorf("words = %q, want %q", words, want)
	}
	if resp.Results[1].Error == "" {
		t.Error("unknown flag should be reported")
	}

	if rec := do(t, h, http.MethodGet, "/api/generate", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/generate", `{"lines":[]}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty lines status = %d, want 400", rec.Code)
	}
}

func TestHandleReduce(t *testing.T) {
	h := newTestHandler(t)
	var resp reduceResponse
	rec := do(t, h, http.MethodPost, "/api/reduce", `{"flag":"A"}`, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if want := []string{"SFX A Y 1", "SFX A 0 s/B ."}; !slices.Equal(resp.Rules, want) {
		t.Errorf("rules = %q, want %q", resp.Rules, want)
	}

	if rec := do(t, h, http.MethodPost, "/api/reduce", `{"flag":"Z"}`, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown flag status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/reduce", `{}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing flag status = %d, want 400", rec.Code)
	}
}

func TestHandleCompound(t *testing.T) {
	h := newTestHandler(t)
	var resp compoundResponse
	rec := do(t, h, http.MethodPost, "/api/compound", `{"rule":"AB","lines":["foo/AB","bar/A"]}`, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if resp.Count != 2 || resp.Infinite || resp.Truncated {
		t.Errorf("response = %+v, want 2 finite compounds", resp)
	}

	if rec := do(t, h, http.MethodPost, "/api/compound", `{"rule":"A**"}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad rule status = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/compound", `{}`, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing COMPOUNDFLAG status = %d, want 400", rec.Code)
	}
}

func TestHandleRules(t *testing.T) {
	h := newTestHandler(t)
	var resp rulesResponse
	rec := do(t, h, http.MethodGet, "/api/rules", "", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.FlagFormat != "ASCII" || len(resp.Rules) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if r := resp.Rules[0]; r.Flag != "A" || r.Type != "SFX" || !slices.Equal(r.Entries, []string{"SFX A 0 s/B ."}) {
		t.Errorf("rule A = %+v", r)
	}
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, "https://example.org")
	tests := []struct {
		origin string
		want   string
	}{
		{"https://example.org", "https://example.org"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
