package airtable_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tbcmaps/geofeed/internal/app/system/airtable"
)

func newTestClient(t *testing.T, srv *httptest.Server) *airtable.Client {
	t.Helper()
	c := airtable.New("appTestBase000000", "key-secret", zap.NewNop())
	c.BaseURL = srv.URL
	return c
}

func TestListPaginates(t *testing.T) {
	var calls int
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotAuth = r.Header.Get("Authorization")

		if got := r.URL.Query().Get("pageSize"); got != "100" {
			t.Errorf("pageSize = %q, want %q", got, "100")
		}
		if got := r.URL.Query().Get("view"); got != "Published" {
			t.Errorf("view = %q, want %q", got, "Published")
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("offset") {
		case "":
			var recs []map[string]any
			for i := 0; i < 100; i++ {
				recs = append(recs, map[string]any{
					"id":     fmt.Sprintf("rec%014d", i),
					"fields": map[string]any{"Org Name": fmt.Sprintf("Org %d", i)},
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"records": recs, "offset": "page2cursor"})
		case "page2cursor":
			var recs []map[string]any
			for i := 100; i < 105; i++ {
				recs = append(recs, map[string]any{
					"id":     fmt.Sprintf("rec%014d", i),
					"fields": map[string]any{"Org Name": fmt.Sprintf("Org %d", i)},
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"records": recs})
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	records, err := c.List(context.Background(), "Master List", airtable.ListOptions{View: "Published"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(records) != 105 {
		t.Errorf("records = %d, want 105", len(records))
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2", calls)
	}
	if gotAuth != "Bearer key-secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer key-secret")
	}
	if records[0].ID != fmt.Sprintf("rec%014d", 0) {
		t.Errorf("first record id = %q", records[0].ID)
	}
	if got := records[104].Fields["Org Name"]; got != "Org 104" {
		t.Errorf("last record Org Name = %v, want %q", got, "Org 104")
	}
}

func TestListFieldsParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query()["fields[]"]
		want := []string{"Latitude", "Longitude", "Org Name"}
		if len(got) != len(want) {
			t.Errorf("fields[] = %v, want %v", got, want)
		} else {
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("fields[][%d] = %q, want %q", i, got[i], want[i])
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"records": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.List(context.Background(), "Master List", airtable.ListOptions{
		Fields: []string{"Latitude", "Longitude", "Org Name"},
	}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
}

func TestListUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_REQUEST"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.List(context.Background(), "Master List", airtable.ListOptions{})
	if err == nil {
		t.Fatal("List succeeded on upstream 422")
	}
	if !strings.Contains(err.Error(), "airtable error 422") {
		t.Errorf("error %q does not identify the upstream status", err)
	}
}

func TestGetRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/Networks/rec0123456789AbCd") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "rec0123456789AbCd",
			"fields": map[string]any{"Network Name": "North Side"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	rec, err := c.GetRecord(context.Background(), "Networks", "rec0123456789AbCd")
	if err != nil {
		t.Fatalf("GetRecord returned error: %v", err)
	}
	if rec.ID != "rec0123456789AbCd" {
		t.Errorf("record id = %q", rec.ID)
	}
	if got := rec.Fields["Network Name"]; got != "North Side" {
		t.Errorf("Network Name = %v, want %q", got, "North Side")
	}
}
