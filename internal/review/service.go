// Package review はレビュー投稿・管理のドメインロジックを提供する。
package review

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
	"github.com/hitoshi/cinelog/internal/security"
)

// Service はレビュー管理のサービス層。
// バリデーション・所有者チェック・本文サニタイズを担う。
type Service struct {
	repo      repository.ReviewRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ReviewRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// CreateInput はレビュー作成の入力を表す。
// RatingはJSONの数値または数値文字列を受け付けるためany型で受け取る。
type CreateInput struct {
	MovieID     string
	MovieTitle  string
	MoviePoster string
	UserID      string
	UserName    string
	Rating      any
	Comment     string
}

// Create はレビューを新規作成する。
// movieId・userId・ratingのいずれかが欠けている場合はバリデーションエラーを返す。
// ratingは数値に変換できない場合に拒否する（NaNを保存しない）。
// createdAt/updatedAtにはサーバー時刻が設定され、作成結果にそのまま含まれる。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Review, error) {
	if input.MovieID == "" {
		return nil, model.NewValidationError("movieId")
	}
	if input.UserID == "" {
		return nil, model.NewValidationError("userId")
	}
	if input.Rating == nil {
		return nil, model.NewValidationError("rating")
	}

	rating, ok := coerceRating(input.Rating)
	if !ok {
		return nil, model.NewInvalidRatingError()
	}

	now := time.Now().UTC()
	review := &model.Review{
		ID:          uuid.New().String(),
		MovieID:     input.MovieID,
		MovieTitle:  s.sanitizer.Sanitize(input.MovieTitle),
		MoviePoster: input.MoviePoster,
		UserID:      input.UserID,
		UserName:    s.sanitizer.Sanitize(input.UserName),
		Rating:      rating,
		Comment:     s.sanitizer.Sanitize(input.Comment),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("レビューの作成に失敗しました: %w", err)
	}

	slog.Info("レビューを作成しました",
		slog.String("review_id", review.ID),
		slog.String("movie_id", review.MovieID),
		slog.String("user_id", review.UserID),
	)

	return review, nil
}

// ListByMovie は指定映画のレビュー一覧を作成日時の降順で返す。
func (s *Service) ListByMovie(ctx context.Context, movieID string) ([]*model.Review, error) {
	reviews, err := s.repo.ListByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得に失敗しました: %w", err)
	}
	return reviews, nil
}

// ListByUser は指定ユーザーのレビュー一覧を作成日時の降順で返す。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Review, error) {
	reviews, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得に失敗しました: %w", err)
	}
	return reviews, nil
}

// Update は既存レビューのrating・comment・updatedAtを上書きする。
// movieId・userId・createdAtは変更できない。
// 対象が存在しない場合は未検出エラー、保存されたuserIdと
// requestingUserIDが一致しない場合は認可エラーを返す。
// 存在・所有者チェック後の更新は条件付き書き込みで行い、
// チェックと書き込みの間に削除が割り込んだ場合は未検出エラーになる。
func (s *Service) Update(ctx context.Context, id, requestingUserID string, rating any, comment string) (*model.Review, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("レビューの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewReviewNotFoundError(id)
	}
	if existing.UserID != requestingUserID {
		return nil, model.NewForbiddenError()
	}

	if rating == nil {
		return nil, model.NewValidationError("rating")
	}
	coerced, ok := coerceRating(rating)
	if !ok {
		return nil, model.NewInvalidRatingError()
	}

	updated, err := s.repo.UpdateOwned(ctx, id, requestingUserID, coerced, s.sanitizer.Sanitize(comment))
	if err != nil {
		return nil, fmt.Errorf("レビューの更新に失敗しました: %w", err)
	}
	if updated == nil {
		// チェック後に削除された競合ケース
		return nil, model.NewReviewNotFoundError(id)
	}

	slog.Info("レビューを更新しました",
		slog.String("review_id", id),
		slog.String("user_id", requestingUserID),
	)

	return updated, nil
}

// Delete は既存レビューを完全に削除する。論理削除は行わない。
// 存在・所有者チェックはUpdateと同じ規則に従う。
func (s *Service) Delete(ctx context.Context, id, requestingUserID string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("レビューの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewReviewNotFoundError(id)
	}
	if existing.UserID != requestingUserID {
		return model.NewForbiddenError()
	}

	deleted, err := s.repo.DeleteOwned(ctx, id, requestingUserID)
	if err != nil {
		return fmt.Errorf("レビューの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewReviewNotFoundError(id)
	}

	slog.Info("レビューを削除しました",
		slog.String("review_id", id),
		slog.String("user_id", requestingUserID),
	)

	return nil
}

// coerceRating はJSONデコード結果のratingを数値に変換する。
// 数値（float64/json.Number相当）と数値文字列を受け付け、
// NaN・Infや数値として解釈できない値はfalseを返す。
func coerceRating(v any) (float64, bool) {
	var rating float64

	switch value := v.(type) {
	case float64:
		rating = value
	case int:
		rating = float64(value)
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		rating = parsed
	default:
		return 0, false
	}

	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, false
	}

	return rating, true
}
