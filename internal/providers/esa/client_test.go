package esa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"netra/internal/mission"
	"netra/internal/providers"
)

type fakeCatalogue struct {
	searchStatus int
	features     int
	lastQuery    map[string]string
}

func (f *fakeCatalogue) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("client_id") != DefaultClientID ||
			r.PostForm.Get("username") != "esa@example.com" || r.PostForm.Get("password") != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid user credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"cdse-token","expires_in":600}`))
	})
	mux.HandleFunc("GET "+searchPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cdse-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		f.lastQuery = map[string]string{}
		for k := range r.URL.Query() {
			f.lastQuery[k] = r.URL.Query().Get(k)
		}
		if f.searchStatus != 0 && f.searchStatus != http.StatusOK {
			w.WriteHeader(f.searchStatus)
			return
		}
		var parts []string
		for i := 1; i <= f.features; i++ {
			parts = append(parts, fmt.Sprintf(
				`{"id":"uuid-%d","properties":{"title":"S2A_MSIL1C_2024010%d","startDate":"2024-01-0%dT05:12:31.024Z"}}`, i, i, i))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[` + strings.Join(parts, ",") + `]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(srv *httptest.Server) Options {
	return Options{
		Username: "esa@example.com",
		Password: "secret",
		BaseURL:  srv.URL,
		AuthURL:  srv.URL + "/token",
	}
}

func TestProviderSearch(t *testing.T) {
	cat := &fakeCatalogue{features: 2}
	srv := cat.server(t)

	scenes, err := NewProvider(testOptions(srv)).Search(context.Background(), mission.DefaultParameters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []mission.Scene{
		{Source: SourceName, ID: "S2A_MSIL1C_20240101", Date: "2024-01-01T05:12:31.024Z"},
		{Source: SourceName, ID: "S2A_MSIL1C_20240102", Date: "2024-01-02T05:12:31.024Z"},
	}
	if diff := cmp.Diff(want, scenes); diff != "" {
		t.Errorf("scenes (-want +got):\n%s", diff)
	}

	wantQuery := map[string]string{
		"productType":    DefaultProductType,
		"startDate":      "2024-01-01T00:00:00Z",
		"completionDate": "2024-01-15T23:59:59Z",
		"box":            "85.7,20.2,85.9,20.4",
		"maxRecords":     "20",
		"sortParam":      "startDate",
		"sortOrder":      "descending",
	}
	if diff := cmp.Diff(wantQuery, cat.lastQuery); diff != "" {
		t.Errorf("query (-want +got):\n%s", diff)
	}
}

func TestProviderMissingCredentials(t *testing.T) {
	_, err := NewProvider(Options{}).Search(context.Background(), mission.DefaultParameters())
	if !errors.Is(err, providers.ErrMissingCredentials) {
		t.Errorf("got %v, want ErrMissingCredentials", err)
	}
}

func TestProviderBadCredentials(t *testing.T) {
	srv := (&fakeCatalogue{}).server(t)
	opts := testOptions(srv)
	opts.Password = "wrong"

	_, err := NewProvider(opts).Search(context.Background(), mission.DefaultParameters())
	if err == nil || !strings.Contains(err.Error(), "Invalid user credentials") {
		t.Errorf("got %v, want login failure with server detail", err)
	}
}

func TestProviderSearchFailure(t *testing.T) {
	srv := (&fakeCatalogue{searchStatus: http.StatusBadGateway}).server(t)

	_, err := NewProvider(testOptions(srv)).Search(context.Background(), mission.DefaultParameters())
	var se *providers.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
		t.Errorf("got %v, want 502 StatusError", err)
	}
}

func TestClientSearchRequiresLogin(t *testing.T) {
	c := NewClient(Options{})
	if _, err := c.Search(context.Background(), mission.DefaultParameters()); !errors.Is(err, providers.ErrUnauthenticated) {
		t.Errorf("got %v, want ErrUnauthenticated", err)
	}
}

func TestFeatureDefaults(t *testing.T) {
	got := feature{}.scene()
	want := mission.Scene{Source: SourceName, ID: "Unknown", Date: "Unknown"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
