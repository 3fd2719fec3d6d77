// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーのプロフィールを表す。
// IDはクライアントが指定する外部キーをそのままドキュメントキーとして使う。
// CreatedAtは初回作成時のみ設定され、マージ更新では上書きされない。
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
