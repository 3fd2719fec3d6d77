package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/review"
)

// ReviewServiceInterface はレビューハンドラーが必要とするサービスインターフェース。
type ReviewServiceInterface interface {
	Create(ctx context.Context, input review.CreateInput) (*model.Review, error)
	ListByMovie(ctx context.Context, movieID string) ([]*model.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Review, error)
	Update(ctx context.Context, id, requestingUserID string, rating any, comment string) (*model.Review, error)
	Delete(ctx context.Context, id, requestingUserID string) error
}

// ReviewMetricsRecorder はレビュー操作のメトリクス記録インターフェース。
type ReviewMetricsRecorder interface {
	RecordReviewCreated()
}

// ReviewHandler はレビュー管理のHTTPハンドラー。
type ReviewHandler struct {
	service ReviewServiceInterface
	metrics ReviewMetricsRecorder
}

// NewReviewHandler はReviewHandlerを生成する。
// metricsがnilの場合は記録を行わない。
func NewReviewHandler(service ReviewServiceInterface, metrics ReviewMetricsRecorder) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		metrics: metrics,
	}
}

// --- リクエスト・レスポンス型 ---

// createReviewRequest はレビュー作成リクエストのボディ。
// ratingは数値と数値文字列の両方を受け付けるためany型でデコードする。
type createReviewRequest struct {
	MovieID     string `json:"movieId"`
	MovieTitle  string `json:"movieTitle"`
	MoviePoster string `json:"moviePoster"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Rating      any    `json:"rating"`
	Comment     string `json:"comment"`
}

// updateReviewRequest はレビュー更新リクエストのボディ。
// movieId・userIdの変更は受け付けない（userIdは認可のためのみ使用する）。
type updateReviewRequest struct {
	UserID  string `json:"userId"`
	Rating  any    `json:"rating"`
	Comment string `json:"comment"`
}

// reviewResponse はレビューのレスポンス。
type reviewResponse struct {
	ID          string    `json:"id"`
	MovieID     string    `json:"movieId"`
	MovieTitle  string    `json:"movieTitle"`
	MoviePoster string    `json:"moviePoster"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Rating      float64   `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// toReviewResponse はドメインのReviewをレスポンス型に変換する。
func toReviewResponse(r *model.Review) reviewResponse {
	return reviewResponse{
		ID:          r.ID,
		MovieID:     r.MovieID,
		MovieTitle:  r.MovieTitle,
		MoviePoster: r.MoviePoster,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// toReviewListResponse はレビューのスライスをレスポンス型の配列に変換する。
// 0件の場合もnullではなく空配列を返す。
func toReviewListResponse(reviews []*model.Review) []reviewResponse {
	results := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		results[i] = toReviewResponse(r)
	}
	return results
}

// --- ハンドラー ---

// Create はレビューを新規作成する。
// POST /api/reviews
// 必須フィールド（movieId, userId, rating）が欠けている場合は400を返す。
// 成功時は201と採番済みIDを含むレビューを返す。
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponseBody{
			Error: "リクエストボディの解析に失敗しました。正しいJSON形式でリクエストしてください。",
		})
		return
	}

	created, err := h.service.Create(r.Context(), review.CreateInput{
		MovieID:     req.MovieID,
		MovieTitle:  req.MovieTitle,
		MoviePoster: req.MoviePoster,
		UserID:      req.UserID,
		UserName:    req.UserName,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReviewCreated()
	}

	writeJSON(w, http.StatusCreated, toReviewResponse(created))
}

// ListByMovie は指定映画のレビュー一覧を作成日時の降順で取得する。
// GET /api/reviews/:movieId
func (h *ReviewHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieId")

	reviews, err := h.service.ListByMovie(r.Context(), movieID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewListResponse(reviews))
}

// ListByUser は指定ユーザーのレビュー一覧を作成日時の降順で取得する。
// GET /api/user-reviews/:userId
func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	reviews, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewListResponse(reviews))
}

// Update は既存レビューのrating・commentを上書きする。
// PUT /api/reviews/:id
// 対象が存在しない場合は404、ボディのuserIdが保存された所有者と
// 一致しない場合は403を返す。
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponseBody{
			Error: "リクエストボディの解析に失敗しました。正しいJSON形式でリクエストしてください。",
		})
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.UserID, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewResponse(updated))
}

// Delete は既存レビューを完全に削除する。
// DELETE /api/reviews/:id?userId=
// 認可のためのuserIdはボディではなくクエリパラメータで受け取る。
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	requestingUserID := r.URL.Query().Get("userId")

	if err := h.service.Delete(r.Context(), id, requestingUserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
