package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cinelog/internal/model"
)

// PostgresReviewRepo はPostgreSQLを使用したレビューリポジトリ。
type PostgresReviewRepo struct {
	db *sql.DB
}

// NewPostgresReviewRepo はPostgresReviewRepoを生成する。
func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

// reviewColumns はSELECT句で使用するカラムリスト。scanReviewと順序を一致させること。
const reviewColumns = `id, movie_id, movie_title, movie_poster, user_id, user_name, rating, comment, created_at, updated_at`

// scanReview は1行分のレビューをスキャンする。
// created_at/updated_atはNULL許容のためsql.NullTime経由で読み取る。
func scanReview(scanner interface{ Scan(dest ...any) error }) (*model.Review, error) {
	review := &model.Review{}
	var createdAt, updatedAt sql.NullTime

	err := scanner.Scan(
		&review.ID, &review.MovieID, &review.MovieTitle, &review.MoviePoster,
		&review.UserID, &review.UserName, &review.Rating, &review.Comment,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.CreatedAt = createdAt.Time
	review.UpdatedAt = updatedAt.Time
	return review, nil
}

// FindByID は指定IDのレビューを取得する。見つからない場合はnilを返す。
func (r *PostgresReviewRepo) FindByID(ctx context.Context, id string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`,
		id,
	)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// ListByMovieID は指定映画のレビュー一覧をcreated_at降順で返す。
func (r *PostgresReviewRepo) ListByMovieID(ctx context.Context, movieID string) ([]*model.Review, error) {
	return r.list(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE movie_id = $1
		 ORDER BY created_at DESC NULLS LAST`,
		movieID,
	)
}

// ListByUserID は指定ユーザーのレビュー一覧をcreated_at降順で返す。
func (r *PostgresReviewRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Review, error) {
	return r.list(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE user_id = $1
		 ORDER BY created_at DESC NULLS LAST`,
		userID,
	)
}

// list は等値フィルタクエリを実行して全行を読み取る。
func (r *PostgresReviewRepo) list(ctx context.Context, query string, arg any) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

// Create はレビューを作成する。
func (r *PostgresReviewRepo) Create(ctx context.Context, review *model.Review) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, movie_id, movie_title, movie_poster, user_id, user_name, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		review.ID, review.MovieID, review.MovieTitle, review.MoviePoster,
		review.UserID, review.UserName, review.Rating, review.Comment,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

// UpdateOwned はidとuser_idの両方が一致する場合のみ更新する条件付き書き込み。
// movie_id・user_id・created_atは変更しない。更新後の行を返し、
// 一致する行がない場合はnilを返す。
func (r *PostgresReviewRepo) UpdateOwned(ctx context.Context, id, userID string, rating float64, comment string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE reviews
		 SET rating = $3, comment = $4, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+reviewColumns,
		id, userID, rating, comment,
	)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// DeleteOwned はidとuser_idの両方が一致する場合のみ削除する。
func (r *PostgresReviewRepo) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ReviewRepository = (*PostgresReviewRepo)(nil)
