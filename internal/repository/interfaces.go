// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cinelog/internal/model"
)

// ReviewRepository はレビューデータの永続化インターフェース。
type ReviewRepository interface {
	// FindByID は指定IDのレビューを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Review, error)

	// ListByMovieID は指定映画のレビュー一覧をcreated_at降順で返す。
	// created_atがNULLの行は最後尾（最古扱い）に並ぶ。
	ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error)

	// ListByUserID は指定ユーザーのレビュー一覧をcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Review, error)

	// Create はレビューを作成する。ID・タイムスタンプは呼び出し側で設定済みであること。
	Create(ctx context.Context, review *model.Review) error

	// UpdateOwned はidとuser_idの両方が一致する場合のみrating・comment・updated_atを
	// 更新する条件付き書き込みを行い、更新後の行を返す。一致する行がない場合は
	// nilを返す（存在確認と更新の間に削除が割り込んだ場合を含む）。
	UpdateOwned(ctx context.Context, id, userID string, rating float64, comment string) (*model.Review, error)

	// DeleteOwned はidとuser_idの両方が一致する場合のみレビューを削除する。
	// 削除された場合はtrueを返す。
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}

// UserRepository はユーザープロフィールの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はプロフィールをマージ書き込みする。
	// nilのフィールドは変更せず既存値を維持し、created_atは初回作成時のみ設定される。
	Upsert(ctx context.Context, id string, email, displayName *string) (*model.User, error)
}
