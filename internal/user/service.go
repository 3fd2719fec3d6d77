// Package user はユーザープロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
	"github.com/hitoshi/cinelog/internal/security"
)

// Service はユーザープロフィール管理のサービス層。
type Service struct {
	repo      repository.UserRepository
	sanitizer security.TextSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.UserRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// Get は指定IDのプロフィールを取得する。
// 一度も書き込まれていないIDには未検出エラーを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}
	return user, nil
}

// Upsert はプロフィールをマージ書き込みする。
// userIDが空の場合はバリデーションエラーを返す。
// nilのフィールドは既存値を維持し、createdAtは初回作成時のみ設定される
// （上書き保存ではなくマージ書き込みで行う）。
func (s *Service) Upsert(ctx context.Context, userID string, email, displayName *string) (*model.User, error) {
	if userID == "" {
		return nil, model.NewValidationError("userId")
	}

	if displayName != nil {
		sanitized := s.sanitizer.Sanitize(*displayName)
		displayName = &sanitized
	}

	user, err := s.repo.Upsert(ctx, userID, email, displayName)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの保存に失敗しました: %w", err)
	}

	slog.Info("プロフィールを保存しました", slog.String("user_id", userID))

	return user, nil
}
