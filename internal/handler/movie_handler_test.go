package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// --- ヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeErrorBody はエラーレスポンスのボディをデコードするヘルパー。
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) errorResponseBody {
	t.Helper()
	var body errorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

// --- モック定義 ---

// mockMovieService はMovieServiceInterfaceのモック実装。
type mockMovieService struct {
	popularFn    func(ctx context.Context, page string) (json.RawMessage, error)
	nowPlayingFn func(ctx context.Context, page string) (json.RawMessage, error)
	topRatedFn   func(ctx context.Context, page string) (json.RawMessage, error)
	searchFn     func(ctx context.Context, query, page string) (json.RawMessage, error)
	detailsFn    func(ctx context.Context, id string) (json.RawMessage, error)
}

func (m *mockMovieService) Popular(ctx context.Context, page string) (json.RawMessage, error) {
	if m.popularFn != nil {
		return m.popularFn(ctx, page)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockMovieService) NowPlaying(ctx context.Context, page string) (json.RawMessage, error) {
	if m.nowPlayingFn != nil {
		return m.nowPlayingFn(ctx, page)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockMovieService) TopRated(ctx context.Context, page string) (json.RawMessage, error) {
	if m.topRatedFn != nil {
		return m.topRatedFn(ctx, page)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockMovieService) Search(ctx context.Context, query, page string) (json.RawMessage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, page)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockMovieService) Details(ctx context.Context, id string) (json.RawMessage, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, id)
	}
	return json.RawMessage(`{}`), nil
}

// --- GET /api/movies/popular テスト ---

func TestMovieHandler_ListPopular_ReturnsUpstreamBodyVerbatim(t *testing.T) {
	upstreamBody := `{"page":2,"results":[{"id":550,"title":"Fight Club"}],"total_pages":100}`
	svc := &mockMovieService{
		popularFn: func(ctx context.Context, page string) (json.RawMessage, error) {
			if page != "2" {
				t.Errorf("page = %q, want %q", page, "2")
			}
			return json.RawMessage(upstreamBody), nil
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/popular?page=2", nil)
	w := httptest.NewRecorder()

	h.ListPopular(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}
	// 上流ボディの再整形や再構築を行わないこと
	if w.Body.String() != upstreamBody {
		t.Errorf("body = %q, want verbatim %q", w.Body.String(), upstreamBody)
	}
}

func TestMovieHandler_ListPopular_UpstreamError_Returns500(t *testing.T) {
	svc := &mockMovieService{
		popularFn: func(ctx context.Context, page string) (json.RawMessage, error) {
			return nil, errors.New("upstream returned status 503")
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/popular", nil)
	w := httptest.NewRecorder()

	h.ListPopular(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	// 上流のステータスやエラーメッセージを呼び出し元に漏らさないこと
	body := decodeErrorBody(t, w)
	if body.Error == "" {
		t.Error("expected non-empty error message")
	}
	if body.Error == "upstream returned status 503" {
		t.Error("upstream error detail must not leak to the caller")
	}
}

// --- GET /api/movies/now-playing テスト ---

func TestMovieHandler_ListNowPlaying_Success(t *testing.T) {
	svc := &mockMovieService{
		nowPlayingFn: func(ctx context.Context, page string) (json.RawMessage, error) {
			return json.RawMessage(`{"results":[]}`), nil
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/now-playing", nil)
	w := httptest.NewRecorder()

	h.ListNowPlaying(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// --- GET /api/movies/top-rated テスト ---

func TestMovieHandler_ListTopRated_ForwardsPageParameter(t *testing.T) {
	var gotPage string
	svc := &mockMovieService{
		topRatedFn: func(ctx context.Context, page string) (json.RawMessage, error) {
			gotPage = page
			return json.RawMessage(`{"results":[]}`), nil
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/top-rated?page=7", nil)
	w := httptest.NewRecorder()

	h.ListTopRated(w, req)

	if gotPage != "7" {
		t.Errorf("page = %q, want %q", gotPage, "7")
	}
}

// --- GET /api/movies/search テスト ---

func TestMovieHandler_Search_Success(t *testing.T) {
	svc := &mockMovieService{
		searchFn: func(ctx context.Context, query, page string) (json.RawMessage, error) {
			if query != "inception" {
				t.Errorf("query = %q, want %q", query, "inception")
			}
			if page != "3" {
				t.Errorf("page = %q, want %q", page, "3")
			}
			return json.RawMessage(`{"results":[{"id":27205}]}`), nil
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/search?query=inception&page=3", nil)
	w := httptest.NewRecorder()

	h.Search(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestMovieHandler_Search_EmptyQuery_Returns400WithoutUpstreamCall(t *testing.T) {
	upstreamCalled := false
	svc := &mockMovieService{
		searchFn: func(ctx context.Context, query, page string) (json.RawMessage, error) {
			upstreamCalled = true
			return json.RawMessage(`{}`), nil
		},
	}

	h := NewMovieHandler(svc)

	for _, target := range []string{
		"/api/movies/search",
		"/api/movies/search?query=",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		h.Search(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", target, w.Code, http.StatusBadRequest)
		}
	}

	if upstreamCalled {
		t.Error("empty query must not reach the upstream client")
	}
}

// --- GET /api/movies/{id} テスト ---

func TestMovieHandler_GetDetails_Success(t *testing.T) {
	upstreamBody := `{"id":550,"title":"Fight Club","credits":{"cast":[]},"videos":{"results":[]}}`
	svc := &mockMovieService{
		detailsFn: func(ctx context.Context, id string) (json.RawMessage, error) {
			if id != "550" {
				t.Errorf("id = %q, want %q", id, "550")
			}
			return json.RawMessage(upstreamBody), nil
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/550", nil)
	req = withChiURLParam(req, "id", "550")
	w := httptest.NewRecorder()

	h.GetDetails(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != upstreamBody {
		t.Errorf("body = %q, want verbatim %q", w.Body.String(), upstreamBody)
	}
}

func TestMovieHandler_GetDetails_UpstreamError_Returns500(t *testing.T) {
	svc := &mockMovieService{
		detailsFn: func(ctx context.Context, id string) (json.RawMessage, error) {
			return nil, errors.New("connection refused")
		},
	}

	h := NewMovieHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/999999", nil)
	req = withChiURLParam(req, "id", "999999")
	w := httptest.NewRecorder()

	h.GetDetails(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
