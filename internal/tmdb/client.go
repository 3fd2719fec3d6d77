// Package tmdb は上流映画カタログAPI（TMDB）のクライアントを提供する。
// 各操作は上流のJSONレスポンスを加工せずそのまま返すパススルー呼び出しである。
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	// defaultBaseURL はTMDB API v3のベースURL。
	defaultBaseURL = "https://api.themoviedb.org/3"
	// defaultPage はpageパラメータ未指定時のデフォルト値。
	defaultPage = "1"
)

// MetricsRecorder は上流呼び出しのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordUpstreamRequest(endpoint string, statusCode int)
	RecordUpstreamLatency(duration time.Duration)
}

// noopMetrics はメトリクス未設定時のダミー実装。
type noopMetrics struct{}

func (noopMetrics) RecordUpstreamRequest(endpoint string, statusCode int) {}
func (noopMetrics) RecordUpstreamLatency(duration time.Duration)          {}

// Client は上流カタログAPIのクライアント。
// APIキーをサーバー側で保持し、呼び出し元のクエリパラメータに付与して転送する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	baseURL    string // テスト用にエンドポイントを差し替え可能
	metrics    MetricsRecorder
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLが空の場合はTMDBの本番エンドポイントを使用する。
// metricsがnilの場合は記録を行わない。
func NewClient(httpClient *http.Client, logger *slog.Logger, apiKey, baseURL string, metrics MetricsRecorder) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     apiKey,
		baseURL:    baseURL,
		metrics:    metrics,
	}
}

// Popular は人気映画一覧を取得する。
// pageは未指定の場合1になり、それ以外は検証せずそのまま転送する。
func (c *Client) Popular(ctx context.Context, page string) (json.RawMessage, error) {
	return c.get(ctx, "/movie/popular", url.Values{"page": {pageOrDefault(page)}})
}

// NowPlaying は公開中映画一覧を取得する。
func (c *Client) NowPlaying(ctx context.Context, page string) (json.RawMessage, error) {
	return c.get(ctx, "/movie/now_playing", url.Values{"page": {pageOrDefault(page)}})
}

// TopRated は高評価映画一覧を取得する。
func (c *Client) TopRated(ctx context.Context, page string) (json.RawMessage, error) {
	return c.get(ctx, "/movie/top_rated", url.Values{"page": {pageOrDefault(page)}})
}

// Search はクエリ文字列で映画を検索する。
// queryの必須チェックはハンドラー側で行い、ここでは転送のみ行う。
func (c *Client) Search(ctx context.Context, query, page string) (json.RawMessage, error) {
	return c.get(ctx, "/search/movie", url.Values{
		"query": {query},
		"page":  {pageOrDefault(page)},
	})
}

// Details は映画1件の詳細をクレジット・動画・画像付きで1回の呼び出しで取得する。
// idはパスセグメントの値をそのまま使用する。
func (c *Client) Details(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "/movie/"+url.PathEscape(id), url.Values{
		"append_to_response": {"credits,videos,images"},
	})
}

// pageOrDefault は空のpageをデフォルト値に置き換える。範囲チェックは行わない。
func pageOrDefault(page string) string {
	if page == "" {
		return defaultPage
	}
	return page
}

// get は上流APIへのGETリクエストを実行し、レスポンスボディを検証せずそのまま返す。
// 上流エラー（ネットワーク障害・非2xx・不正なJSON）の詳細はログにのみ記録し、
// 呼び出し元には内容を伝播しない。
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	q := reqURL.Query()
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	q.Set("api_key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Cinelog/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordUpstreamLatency(time.Since(start))
	if err != nil {
		c.logger.Error("カタログAPIの呼び出しに失敗しました",
			slog.String("endpoint", path),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordUpstreamRequest(path, 0)
		return nil, fmt.Errorf("カタログAPIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RecordUpstreamRequest(path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("カタログAPIがエラーステータスを返しました",
			slog.String("endpoint", path),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("カタログAPIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("endpoint", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	// パススルーの前にJSONとして妥当かのみ確認する（デコードはしない）
	if !json.Valid(body) {
		c.logger.Error("カタログAPIのレスポンスが不正なJSONでした",
			slog.String("endpoint", path),
		)
		return nil, fmt.Errorf("カタログAPIのレスポンスが不正なJSONでした")
	}

	return json.RawMessage(body), nil
}
