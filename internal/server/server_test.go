package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clausewise/clausewise/internal/fetcher"
	"github.com/clausewise/clausewise/internal/pipeline"
	"github.com/clausewise/clausewise/internal/store"
	"github.com/clausewise/clausewise/internal/summarizer"
	"github.com/clausewise/clausewise/internal/tagger"
)

func newTestServer() *Server {
	p := pipeline.New(
		pipeline.Config{MaxChunkChars: 1800, MaxChunks: 8, TopClauses: 10},
		fetcher.New(fetcher.Config{Timeout: 5 * time.Second}),
		tagger.New(nil),
		summarizer.New(nil),
		store.NewMemory(),
	)
	return New(p, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "POST", "/api/analyze",
		`{"tosText": "All disputes go to binding arbitration."}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Clauses []struct {
			Tag       string `json:"tag"`
			RiskScore int    `json:"riskScore"`
		} `json:"clauses"`
		Comparison struct {
			Top    []json.RawMessage `json:"top"`
			Counts map[string]int    `json:"counts"`
		} `json:"comparison"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if len(resp.Clauses) != 1 || resp.Clauses[0].Tag != "arbitration" {
		t.Errorf("clauses = %+v", resp.Clauses)
	}
	if resp.Comparison.Counts["arbitration"] != 1 {
		t.Errorf("counts = %+v", resp.Comparison.Counts)
	}
	if resp.Summary == "" {
		t.Error("summary empty")
	}
}

func TestAnalyzeEndpoint_MissingSource(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "POST", "/api/analyze", `{}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if resp["error"] != "Provide tosUrl or tosText" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestAnalyzeEndpoint_InvalidJSON(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "POST", "/api/analyze", `{not json`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDiffEndpoint_RequiresURL(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "POST", "/api/diff", `{}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tosUrl required") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestDiffEndpoint_Lifecycle(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Your subscription will auto-renew each year."))
	}))
	defer upstream.Close()

	router := newTestServer().Router()
	identity := &http.Cookie{Name: "cw_uid", Value: "test-user"}
	body := `{"tosUrl": "` + upstream.URL + `"}`

	rec := doJSON(t, router, "POST", "/api/diff", body, []*http.Cookie{identity})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Diff struct {
			Changed      bool   `json:"changed"`
			PrevHash     string `json:"prevHash"`
			CurrHash     string `json:"currHash"`
			AddedClauses int    `json:"addedClauses"`
		} `json:"diff"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if !resp.Diff.Changed || resp.Diff.AddedClauses != 1 || resp.Diff.CurrHash == "" {
		t.Errorf("first diff = %+v", resp.Diff)
	}

	rec = doJSON(t, router, "POST", "/api/diff", body, []*http.Cookie{identity})
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if resp.Diff.Changed || resp.Diff.AddedClauses != 0 {
		t.Errorf("repeat diff = %+v", resp.Diff)
	}
}

func TestProfileEndpoints(t *testing.T) {
	router := newTestServer().Router()
	identity := &http.Cookie{Name: "cw_uid", Value: "test-user"}

	rec := doJSON(t, router, "GET", "/api/profile", "", []*http.Cookie{identity})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var profile map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if profile["privacy"] != 70 || profile["autoRenewals"] != 30 || profile["arbitration"] != 20 {
		t.Errorf("default profile = %+v", profile)
	}

	rec = doJSON(t, router, "POST", "/api/profile",
		`{"privacy": 150, "autoRenewals": -5, "arbitration": "abc"}`, []*http.Cookie{identity})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("save body = %s", rec.Body)
	}

	rec = doJSON(t, router, "GET", "/api/profile", "", []*http.Cookie{identity})
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if profile["privacy"] != 100 || profile["autoRenewals"] != 0 || profile["arbitration"] != 20 {
		t.Errorf("sanitized profile = %+v", profile)
	}
}

func TestProfileIsolation(t *testing.T) {
	router := newTestServer().Router()
	userA := &http.Cookie{Name: "cw_uid", Value: "user-a"}
	userB := &http.Cookie{Name: "cw_uid", Value: "user-b"}

	doJSON(t, router, "POST", "/api/profile", `{"privacy": 0}`, []*http.Cookie{userA})

	rec := doJSON(t, router, "GET", "/api/profile", "", []*http.Cookie{userB})
	var profile map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if profile["privacy"] != 70 {
		t.Errorf("user-b profile = %+v, want defaults", profile)
	}
}

func TestIdentityCookieIssued(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "GET", "/api/profile", "", nil)

	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "cw_uid" {
			issued = c
		}
	}
	if issued == nil {
		t.Fatal("no identity cookie issued")
	}
	if issued.Value == "" || !issued.HttpOnly || issued.Path != "/" {
		t.Errorf("cookie = %+v", issued)
	}
}

func TestIdentityCookieReused(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "GET", "/api/profile", "",
		[]*http.Cookie{{Name: "cw_uid", Value: "existing"}})

	for _, c := range rec.Result().Cookies() {
		if c.Name == "cw_uid" {
			t.Errorf("cookie reissued for identified caller: %+v", c)
		}
	}
}

func TestHistorySearch_Unconfigured(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "GET", "/api/history/search?q=arbitration", "", nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, "GET", "/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}
