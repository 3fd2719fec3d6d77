// Package model はドメインモデルを定義する。
package model

import "time"

// Review はユーザーが投稿した映画レビューを表す。
// UserIDは作成時に確定し、以降は変更されない（更新・削除の認可キー）。
type Review struct {
	ID          string
	MovieID     string
	MovieTitle  string
	MoviePoster string
	UserID      string
	UserName    string
	Rating      float64
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
