package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Motolog/Motolog/internal/common/config"
)

func newTestClient(baseURL string) *NominatimClient {
	cfg := config.GeocodingConfig{
		BaseURL:        baseURL,
		UserAgent:      "Motolog/1.0",
		TimeoutSeconds: 2,
	}
	return NewNominatimClient(cfg, nil, nil)
}

func TestNominatimResolveBestMatch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("expected limit=1, got %q", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`[{"lat":"52.5200","lon":"13.4050"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	coord, ok := c.Resolve(context.Background(), "Berlin")
	if !ok {
		t.Fatalf("expected resolution to succeed")
	}
	if coord.Lat != 52.52 || coord.Lon != 13.405 {
		t.Fatalf("unexpected coord: %+v", coord)
	}
	if gotUA != "Motolog/1.0" {
		t.Fatalf("expected client identifier header, got %q", gotUA)
	}
}

func TestNominatimResolveNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, ok := newTestClient(srv.URL).Resolve(context.Background(), "Nowhereville"); ok {
		t.Fatalf("expected empty result to resolve as absent")
	}
}

func TestNominatimResolveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// 服务端异常同样降级为“解析失败”，不向上抛错误
	if _, ok := newTestClient(srv.URL).Resolve(context.Background(), "Berlin"); ok {
		t.Fatalf("expected server error to resolve as absent")
	}
}

func TestNominatimResolveUnreachable(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	if _, ok := c.Resolve(context.Background(), "Berlin"); ok {
		t.Fatalf("expected unreachable provider to resolve as absent")
	}
}

func TestNominatimResolveEmptyQuery(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	if _, ok := c.Resolve(context.Background(), "   "); ok {
		t.Fatalf("expected empty query to resolve as absent")
	}
}
