// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Categoryはログ集計用の原因カテゴリで、レスポンスにはMessageのみが出る。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, review, user, upstream, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInvalidRating  = "INVALID_RATING"
	ErrCodeReviewNotFound = "REVIEW_NOT_FOUND"
	ErrCodeUserNotFound   = "USER_NOT_FOUND"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
)

// NewValidationError は必須フィールド欠落エラーを生成する。
func NewValidationError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
	}
}

// NewInvalidRatingError は評価値が数値として解釈できない場合のエラーを生成する。
func NewInvalidRatingError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  "ratingには数値を指定してください。",
		Category: "validation",
	}
}

// NewReviewNotFoundError はレビュー未検出エラーを生成する。
func NewReviewNotFoundError(reviewID string) *APIError {
	return &APIError{
		Code:     ErrCodeReviewNotFound,
		Message:  fmt.Sprintf("指定されたレビューが見つかりません: %s", reviewID),
		Category: "review",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "user",
	}
}

// NewForbiddenError は所有者以外による更新・削除エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "このレビューを操作する権限がありません。",
		Category: "review",
	}
}

// NewUpstreamError はカタログAPI呼び出し失敗エラーを生成する。
// 上流の具体的なステータスやメッセージはログにのみ残し、呼び出し元には伝えない。
func NewUpstreamError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstream,
		Message:  "映画情報の取得に失敗しました。しばらく待ってから再度お試しください。",
		Category: "upstream",
	}
}
