package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	Upsert(ctx context.Context, userID string, email, displayName *string) (*model.User, error)
}

// UserHandler はユーザープロフィール管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// --- リクエスト・レスポンス型 ---

// upsertUserRequest はプロフィール保存リクエストのボディ。
// email・displayNameは未指定（nil）の場合に既存値を維持するマージ書き込みとなる。
type upsertUserRequest struct {
	UserID      string  `json:"userId"`
	Email       *string `json:"email"`
	DisplayName *string `json:"displayName"`
}

// userResponse はユーザープロフィールのレスポンス。
type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// toUserResponse はドメインのUserをレスポンス型に変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// --- ハンドラー ---

// Get は指定IDのプロフィールを取得する。
// GET /api/users/:userId
// 一度も書き込まれていないIDには404を返す。
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Upsert はプロフィールをマージ書き込みする。
// POST /api/users
// 既存ドキュメントがある場合は指定フィールドのみ上書きし、createdAtは維持される。
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponseBody{
			Error: "リクエストボディの解析に失敗しました。正しいJSON形式でリクエストしてください。",
		})
		return
	}

	user, err := h.service.Upsert(r.Context(), req.UserID, req.Email, req.DisplayName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
