package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"

	cinemetrics "github.com/hitoshi/cinelog/internal/metrics"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	Metrics           middleware.HTTPMetricsRecorder
	Gatherer          prometheus.Gatherer

	// 映画カタログプロキシ
	MovieService MovieServiceInterface

	// レビュー
	ReviewService ReviewServiceInterface
	ReviewMetrics ReviewMetricsRecorder

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeaders → Logging → Recovery → Metrics
//
// /health と /metrics もチェーンを通るが、認証は存在しないため特別扱いは不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	movieHandler := NewMovieHandler(deps.MovieService)
	reviewHandler := NewReviewHandler(deps.ReviewService, deps.ReviewMetrics)
	userHandler := NewUserHandler(deps.UserService)

	// 動作確認用のエンドポイント一覧
	r.Get("/", rootHandler)

	// 死活監視
	r.Get("/health", healthHandler)

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Handle("/metrics", cinemetrics.Handler(deps.Gatherer))
	}

	// 映画カタログプロキシ
	// 固定パスを{id}より先に登録する（chiは固定パスを優先するが明示しておく）
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/popular", movieHandler.ListPopular)
		r.Get("/now-playing", movieHandler.ListNowPlaying)
		r.Get("/top-rated", movieHandler.ListTopRated)
		r.Get("/search", movieHandler.Search)
		r.Get("/{id}", movieHandler.GetDetails)
	})

	// レビュー管理
	r.Route("/api/reviews", func(r chi.Router) {
		r.Post("/", reviewHandler.Create)
		r.Get("/{movieId}", reviewHandler.ListByMovie)
		r.Put("/{id}", reviewHandler.Update)
		r.Delete("/{id}", reviewHandler.Delete)
	})

	// ユーザー別レビュー一覧
	r.Get("/api/user-reviews/{userId}", reviewHandler.ListByUser)

	// ユーザープロフィール管理
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.Upsert)
		r.Get("/{userId}", userHandler.Get)
	})

	return r
}

// rootHandler は提供エンドポイントの一覧を返す。
func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "Cinelog API",
		"endpoints": []string{
			"GET /health",
			"GET /api/movies/popular",
			"GET /api/movies/now-playing",
			"GET /api/movies/top-rated",
			"GET /api/movies/search?query=...",
			"GET /api/movies/{id}",
			"GET /api/reviews/{movieId}",
			"POST /api/reviews",
			"PUT /api/reviews/{id}",
			"DELETE /api/reviews/{id}",
			"GET /api/user-reviews/{userId}",
			"GET /api/users/{userId}",
			"POST /api/users",
		},
	})
}

// healthHandler は死活監視用の固定レスポンスを返す。
// 依存先（DB・カタログAPI）には触れない。
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
