package tmdb

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	return NewClient(server.Client(), newTestLogger(&buf), "test-api-key", server.URL, nil)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	var buf bytes.Buffer
	c := NewClient(http.DefaultClient, newTestLogger(&buf), "key", "", nil)
	if c.baseURL != "https://api.themoviedb.org/3" {
		t.Errorf("baseURL = %q, want TMDB本番エンドポイント", c.baseURL)
	}
}

func TestPopular_ForwardsPageAndAPIKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("path = %s, want /movie/popular", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "3" {
			t.Errorf("page = %q, want %q", got, "3")
		}
		if got := r.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("api_key = %q, want %q", got, "test-api-key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":3,"results":[]}`))
	})

	body, err := c.Popular(context.Background(), "3")
	if err != nil {
		t.Fatalf("Popular がエラーを返した: %v", err)
	}
	if string(body) != `{"page":3,"results":[]}` {
		t.Errorf("レスポンスボディは上流をそのまま返すべき: got %s", body)
	}
}

func TestPopular_EmptyPage_DefaultsToOne(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q, want %q", got, "1")
		}
		w.Write([]byte(`{}`))
	})

	if _, err := c.Popular(context.Background(), ""); err != nil {
		t.Fatalf("Popular がエラーを返した: %v", err)
	}
}

func TestPopular_InvalidPage_ForwardedVerbatim(t *testing.T) {
	// 範囲チェックは行わず、不正な値もそのまま転送する
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "-5" {
			t.Errorf("page = %q, want %q", got, "-5")
		}
		w.Write([]byte(`{}`))
	})

	if _, err := c.Popular(context.Background(), "-5"); err != nil {
		t.Fatalf("Popular がエラーを返した: %v", err)
	}
}

func TestNowPlaying_UsesCorrectPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/now_playing" {
			t.Errorf("path = %s, want /movie/now_playing", r.URL.Path)
		}
		w.Write([]byte(`{"results":[]}`))
	})

	if _, err := c.NowPlaying(context.Background(), "1"); err != nil {
		t.Fatalf("NowPlaying がエラーを返した: %v", err)
	}
}

func TestTopRated_UsesCorrectPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/top_rated" {
			t.Errorf("path = %s, want /movie/top_rated", r.URL.Path)
		}
		w.Write([]byte(`{"results":[]}`))
	})

	if _, err := c.TopRated(context.Background(), "2"); err != nil {
		t.Fatalf("TopRated がエラーを返した: %v", err)
	}
}

func TestSearch_ForwardsQueryAndPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("path = %s, want /search/movie", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "seven samurai" {
			t.Errorf("query = %q, want %q", got, "seven samurai")
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want %q", got, "2")
		}
		w.Write([]byte(`{"results":[{"id":346}]}`))
	})

	body, err := c.Search(context.Background(), "seven samurai", "2")
	if err != nil {
		t.Fatalf("Search がエラーを返した: %v", err)
	}
	if string(body) != `{"results":[{"id":346}]}` {
		t.Errorf("レスポンスボディは上流をそのまま返すべき: got %s", body)
	}
}

func TestDetails_AppendsCreditsVideosImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/346" {
			t.Errorf("path = %s, want /movie/346", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos,images" {
			t.Errorf("append_to_response = %q, want %q", got, "credits,videos,images")
		}
		w.Write([]byte(`{"id":346,"credits":{},"videos":{},"images":{}}`))
	})

	body, err := c.Details(context.Background(), "346")
	if err != nil {
		t.Fatalf("Details がエラーを返した: %v", err)
	}
	if string(body) != `{"id":346,"credits":{},"videos":{},"images":{}}` {
		t.Errorf("レスポンスボディは上流をそのまま返すべき: got %s", body)
	}
}

func TestGet_UpstreamNon2xx_ReturnsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	if _, err := c.Popular(context.Background(), "1"); err == nil {
		t.Fatal("上流が非2xxを返した場合はエラーを返すべき")
	}
}

func TestGet_MalformedJSON_ReturnsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	})

	if _, err := c.Popular(context.Background(), "1"); err == nil {
		t.Fatal("不正なJSONボディに対してはエラーを返すべき")
	}
}

func TestGet_NetworkFailure_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close() // 接続拒否を発生させる

	var buf bytes.Buffer
	c := NewClient(http.DefaultClient, newTestLogger(&buf), "key", serverURL, nil)

	if _, err := c.Popular(context.Background(), "1"); err == nil {
		t.Fatal("ネットワーク障害時はエラーを返すべき")
	}
}

func TestGet_ErrorDetailsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.Client(), newTestLogger(&buf), "key", server.URL, nil)

	if _, err := c.Popular(context.Background(), "1"); err == nil {
		t.Fatal("エラーを返すべき")
	}

	if !bytes.Contains(buf.Bytes(), []byte("http_status")) {
		t.Error("上流エラーの詳細はサーバー側のログに記録されるべき")
	}
}
