package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/model"
)

// MovieServiceInterface は映画プロキシハンドラーが必要とするクライアントインターフェース。
// 各操作は上流カタログAPIのJSONレスポンスをそのまま返す。
type MovieServiceInterface interface {
	Popular(ctx context.Context, page string) (json.RawMessage, error)
	NowPlaying(ctx context.Context, page string) (json.RawMessage, error)
	TopRated(ctx context.Context, page string) (json.RawMessage, error)
	Search(ctx context.Context, query, page string) (json.RawMessage, error)
	Details(ctx context.Context, id string) (json.RawMessage, error)
}

// MovieHandler は映画メタデータプロキシのHTTPハンドラー。
type MovieHandler struct {
	service MovieServiceInterface
}

// NewMovieHandler はMovieHandlerを生成する。
func NewMovieHandler(service MovieServiceInterface) *MovieHandler {
	return &MovieHandler{
		service: service,
	}
}

// ListPopular は人気映画一覧を取得する。
// GET /api/movies/popular?page=
func (h *MovieHandler) ListPopular(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Popular(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		h.handleUpstreamError(w, "popular", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// ListNowPlaying は公開中映画一覧を取得する。
// GET /api/movies/now-playing?page=
func (h *MovieHandler) ListNowPlaying(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.NowPlaying(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		h.handleUpstreamError(w, "now-playing", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// ListTopRated は高評価映画一覧を取得する。
// GET /api/movies/top-rated?page=
func (h *MovieHandler) ListTopRated(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.TopRated(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		h.handleUpstreamError(w, "top-rated", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// Search はクエリ文字列で映画を検索する。
// GET /api/movies/search?query=&page=
// queryが未指定または空の場合は上流呼び出しを行わず400を返す。
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("query"))
		return
	}

	body, err := h.service.Search(r.Context(), query, r.URL.Query().Get("page"))
	if err != nil {
		h.handleUpstreamError(w, "search", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// GetDetails は映画1件の詳細をクレジット・動画・画像付きで取得する。
// GET /api/movies/:id
func (h *MovieHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := h.service.Details(r.Context(), id)
	if err != nil {
		h.handleUpstreamError(w, "details", err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

// handleUpstreamError は上流エラーを一般的な500レスポンスに変換する。
// 上流の具体的なステータスやメッセージはログにのみ記録し、呼び出し元には伝えない。
func (h *MovieHandler) handleUpstreamError(w http.ResponseWriter, operation string, err error) {
	slog.Error("upstream catalog request failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewUpstreamError())
}
