package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/session"
)

type snapshotBody struct {
	ID           string   `json:"id"`
	Query        string   `json:"query"`
	Total        int      `json:"total"`
	ResultIDs    []string `json:"result_ids"`
	VisibleCount int      `json:"visible_count"`
	Items        []struct {
		Competition struct {
			ID string `json:"id"`
		} `json:"competition"`
		Bookmarked bool `json:"bookmarked"`
	} `json:"items"`
	HasMore  bool `json:"has_more"`
	Selected *struct {
		Index       int  `json:"index"`
		HasPrevious bool `json:"has_previous"`
		HasNext     bool `json:"has_next"`
	} `json:"selected"`
	ViewMode  string `json:"view_mode"`
	Bookmarks int    `json:"bookmarks"`
}

// fixtureCatalog builds n valid records with ascending deadlines.
// Even indexes are Bisnis, odd ones Teknologi.
func fixtureCatalog(n int) []*domain.Competition {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Competition, 0, n)
	for i := 0; i < n; i++ {
		category := "Bisnis"
		if i%2 == 1 {
			category = "Teknologi"
		}
		out = append(out, &domain.Competition{
			ID:                fmt.Sprintf("c%02d", i),
			Title:             fmt.Sprintf("Lomba %02d", i),
			Organizer:         "Universitas Contoh",
			Description:       "Kompetisi untuk pelajar dan mahasiswa.",
			Category:          category,
			Levels:            []domain.Level{domain.LevelMahasiswa},
			Tags:              []string{"tag" + category},
			Deadline:          base.AddDate(0, 0, i),
			Format:            domain.FormatOnline,
			ParticipationType: domain.ParticipationTeam,
			Institutions:      []string{"Universitas Contoh"},
			Prize:             "Rp 1.000.000",
			RegistrationURL:   "https://example.com/daftar",
			Status:            domain.StatusOpen,
		})
	}
	return out
}

func newTestServer(t *testing.T, catalogSize int) (*httptest.Server, deps.Deps) {
	t.Helper()

	log := logger.New("error", false)
	idx := index.NewCatalogIndex()
	if catalogSize > 0 {
		idx.Update(fixtureCatalog(catalogSize))
	}
	store := kv.NewMemory()

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       "test",
		Index:         idx,
		Sessions:      session.NewManager(idx, store, log, time.Hour),
		Storage:       "memory",
		Store:         store,
		SubmitBurst:   10,
		SubmitPerMin:  10,
		ReloadTrigger: make(chan struct{}, 1),
	}

	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return srv, d
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s status = %d, want %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want)
	}
}

func TestSessionFlow(t *testing.T) {
	srv, _ := newTestServer(t, 25)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", map[string]bool{"mobile": false})
	expectStatus(t, resp, http.StatusCreated)
	snap := decode[snapshotBody](t, resp)
	if snap.Total != 25 || snap.VisibleCount != 20 || len(snap.Items) != 20 || !snap.HasMore {
		t.Fatalf("initial snapshot = total %d visible %d items %d has_more %v", snap.Total, snap.VisibleCount, len(snap.Items), snap.HasMore)
	}
	if snap.ViewMode != "grid" {
		t.Errorf("view_mode = %q, want grid", snap.ViewMode)
	}
	base := srv.URL + "/api/sessions/" + snap.ID

	resp = doJSON(t, http.MethodPost, base+"/more", nil)
	expectStatus(t, resp, http.StatusOK)
	snap = decode[snapshotBody](t, resp)
	if len(snap.Items) != 25 || snap.HasMore {
		t.Errorf("after load more items = %d has_more = %v", len(snap.Items), snap.HasMore)
	}

	resp = doJSON(t, http.MethodPut, base+"/selection", map[string]int{"index": 30})
	expectStatus(t, resp, http.StatusUnprocessableEntity)

	resp = doJSON(t, http.MethodPut, base+"/selection", map[string]int{"index": 24})
	expectStatus(t, resp, http.StatusOK)
	snap = decode[snapshotBody](t, resp)
	if snap.Selected == nil || snap.Selected.Index != 24 || snap.Selected.HasNext || !snap.Selected.HasPrevious {
		t.Fatalf("selected = %+v, want index 24 at the end", snap.Selected)
	}

	resp = doJSON(t, http.MethodPost, base+"/selection/next", nil)
	snap = decode[snapshotBody](t, resp)
	if snap.Selected == nil || snap.Selected.Index != 24 {
		t.Errorf("next at the end moved to %+v", snap.Selected)
	}

	resp = doJSON(t, http.MethodPut, base+"/filters", map[string]any{"categories": []string{"Teknologi"}})
	expectStatus(t, resp, http.StatusOK)
	snap = decode[snapshotBody](t, resp)
	if snap.Selected != nil {
		t.Error("filter change kept the selection")
	}
	if snap.Total != 12 || snap.VisibleCount != 20 {
		t.Errorf("filtered total = %d visible = %d, want 12 and 20", snap.Total, snap.VisibleCount)
	}

	resp = doJSON(t, http.MethodPut, base+"/sort", map[string]string{"sort": "popular"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doJSON(t, http.MethodPut, base+"/sort", map[string]string{"sort": "name"})
	expectStatus(t, resp, http.StatusOK)

	resp = doJSON(t, http.MethodPut, base+"/view-mode", map[string]string{"mode": "list"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doJSON(t, http.MethodPut, base+"/view-mode", map[string]string{"mode": "poster"})
	expectStatus(t, resp, http.StatusOK)
	if snap = decode[snapshotBody](t, resp); snap.ViewMode != "poster" {
		t.Errorf("view_mode = %q, want poster", snap.ViewMode)
	}

	resp = doJSON(t, http.MethodPost, base+"/reset", nil)
	expectStatus(t, resp, http.StatusOK)
	snap = decode[snapshotBody](t, resp)
	if snap.Total != 25 || snap.ResultIDs[0] != "c00" {
		t.Errorf("reset snapshot total = %d first = %s", snap.Total, snap.ResultIDs[0])
	}
}

func TestBookmarkEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, 5)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", nil)
	expectStatus(t, resp, http.StatusCreated)
	id := decode[snapshotBody](t, resp).ID
	base := srv.URL + "/api/sessions/" + id

	for _, cid := range []string{"c03", "c01"} {
		resp = doJSON(t, http.MethodPost, base+"/bookmarks/"+cid, nil)
		expectStatus(t, resp, http.StatusOK)
	}

	resp = doJSON(t, http.MethodPost, base+"/bookmarks/unknown", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doJSON(t, http.MethodGet, base+"/bookmarks", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decode[struct {
		IDs []string `json:"ids"`
	}](t, resp)
	if len(body.IDs) != 2 || body.IDs[0] != "c03" || body.IDs[1] != "c01" {
		t.Errorf("bookmarks = %v, want [c03 c01]", body.IDs)
	}

	resp = doJSON(t, http.MethodGet, base, nil)
	snap := decode[snapshotBody](t, resp)
	if snap.Bookmarks != 2 || !snap.Items[1].Bookmarked || snap.Items[0].Bookmarked {
		t.Errorf("snapshot bookmarks = %d, item flags %v/%v", snap.Bookmarks, snap.Items[0].Bookmarked, snap.Items[1].Bookmarked)
	}
}

func TestSessionErrors(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "invalid id", path: "/api/sessions/not-a-uuid/more", want: http.StatusBadRequest},
		{name: "unknown id", path: "/api/sessions/0b5c6f0e-4f7a-4d4e-9a55-3f3c2b0f1a11/more", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+tt.path, nil)
			expectStatus(t, resp, tt.want)
		})
	}

	t.Run("unknown id restored on read", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/0b5c6f0e-4f7a-4d4e-9a55-3f3c2b0f1a11?mobile=true", nil)
		expectStatus(t, resp, http.StatusOK)
		if snap := decode[snapshotBody](t, resp); snap.ViewMode != "poster" {
			t.Errorf("restored view_mode = %q, want poster", snap.ViewMode)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", nil)
		id := decode[snapshotBody](t, resp).ID
		resp = doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+id+"/search", map[string]int{"unknown": 1})
		expectStatus(t, resp, http.StatusBadRequest)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, 25)

	tests := []struct {
		name      string
		path      string
		want      int
		wantTotal int
		wantLen   int
	}{
		{name: "all", path: "/api/competitions", want: 200, wantTotal: 25, wantLen: 20},
		{name: "category and limit", path: "/api/competitions?category=Teknologi&limit=5", want: 200, wantTotal: 12, wantLen: 5},
		{name: "offset past end", path: "/api/competitions?offset=40", want: 200, wantTotal: 25, wantLen: 0},
		{name: "search", path: "/api/competitions?q=lomba%2024", want: 200, wantTotal: 1, wantLen: 1},
		{name: "bad level", path: "/api/competitions?level=sd", want: 400},
		{name: "bad sort", path: "/api/competitions?sort=popular", want: 400},
		{name: "bad limit", path: "/api/competitions?limit=0", want: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodGet, srv.URL+tt.path, nil)
			expectStatus(t, resp, tt.want)
			if tt.want != http.StatusOK {
				return
			}
			body := decode[struct {
				Total        int               `json:"total"`
				Competitions []json.RawMessage `json:"competitions"`
			}](t, resp)
			if body.Total != tt.wantTotal || len(body.Competitions) != tt.wantLen {
				t.Errorf("total = %d len = %d, want %d and %d", body.Total, len(body.Competitions), tt.wantTotal, tt.wantLen)
			}
		})
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/competitions/c03", nil)
	expectStatus(t, resp, http.StatusOK)
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/competitions/nope", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories", nil)
	expectStatus(t, resp, http.StatusOK)
	cats := decode[struct {
		Categories []index.CategoryCount `json:"categories"`
	}](t, resp)
	if len(cats.Categories) != len(domain.Categories) {
		t.Errorf("categories = %d, want %d", len(cats.Categories), len(domain.Categories))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/teknologi/tags", nil)
	expectStatus(t, resp, http.StatusOK)
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/catur/competitions", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/meta?lang=en", nil)
	expectStatus(t, resp, http.StatusOK)
	meta := decode[struct {
		Language string `json:"language"`
		PageSize int    `json:"page_size"`
	}](t, resp)
	if meta.Language != "en" || meta.PageSize != 20 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestSubmissionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 1)

	valid := domain.Submission{
		Title:             "Lomba Debat Nasional",
		Organizer:         "Universitas Indonesia",
		Description:       "Kompetisi debat bahasa Indonesia tingkat nasional.",
		Category:          "Debat",
		Level:             domain.LevelMahasiswa,
		Format:            domain.FormatOffline,
		ParticipationType: domain.ParticipationTeam,
		RegistrationStart: "2025-02-01",
		RegistrationEnd:   "2025-03-01",
		RegistrationURL:   "https://example.ac.id/debat",
		Prize:             "Rp 15.000.000",
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/submissions", valid)
	expectStatus(t, resp, http.StatusAccepted)
	if ack := decode[struct {
		ID string `json:"id"`
	}](t, resp); ack.ID == "" {
		t.Error("accepted submission without an id")
	}

	invalid := valid
	invalid.Title = "abc"
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/submissions", invalid)
	expectStatus(t, resp, http.StatusBadRequest)
	body := decode[struct {
		Fields []domain.FieldError `json:"fields"`
	}](t, resp)
	if len(body.Fields) != 1 || body.Fields[0].Field != "title" {
		t.Errorf("fields = %+v, want title only", body.Fields)
	}
}

func TestOperatorEndpoints(t *testing.T) {
	t.Run("readyz without catalog", func(t *testing.T) {
		srv, _ := newTestServer(t, 0)
		resp := doJSON(t, http.MethodGet, srv.URL+"/readyz", nil)
		expectStatus(t, resp, http.StatusServiceUnavailable)
	})

	t.Run("readyz and infra with catalog", func(t *testing.T) {
		srv, _ := newTestServer(t, 2)
		resp := doJSON(t, http.MethodGet, srv.URL+"/readyz", nil)
		expectStatus(t, resp, http.StatusOK)

		resp = doJSON(t, http.MethodGet, srv.URL+"/infra", nil)
		expectStatus(t, resp, http.StatusOK)
		body := decode[struct {
			ServiceMode string `json:"service_mode"`
		}](t, resp)
		if body.ServiceMode != "optimal" {
			t.Errorf("service_mode = %q, want optimal", body.ServiceMode)
		}
	})

	t.Run("reload trigger", func(t *testing.T) {
		srv, d := newTestServer(t, 1)
		resp := doJSON(t, http.MethodPost, srv.URL+"/reload", nil)
		expectStatus(t, resp, http.StatusAccepted)
		// The buffered trigger is still full: nobody consumes it in this test.
		resp = doJSON(t, http.MethodPost, srv.URL+"/reload", nil)
		expectStatus(t, resp, http.StatusTooManyRequests)
		<-d.ReloadTrigger
	})
}
