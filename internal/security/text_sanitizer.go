// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はレビューの本文やユーザー表示名など、
// ユーザー入力の自由テキストをサニタイズし、XSS攻撃などの
// セキュリティリスクから閲覧者を保護する。
// bluemondayのStrictPolicyを使用し、HTMLタグをすべて除去した
// プレーンテキストのみを保存する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はテキストサニタイズ機能のインターフェースを定義する。
// レビュー作成・更新時の保存前処理で使用される。
type TextSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグをすべて除去して返す。
	// script, iframe, img等のタグおよびon*イベント属性は痕跡を残さず除去される。
	// 前後の空白はトリムされる。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのHTML要素と属性を許可しない。
// レビューはプレーンテキストとして扱うため、許可タグは一切設けない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグをすべて除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
