package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var postColumns = []string{"id", "owner_id", "text", "name", "avatar", "likes", "comments", "created_at"}

type postgresPostRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	logger  logger.Logger
}

func NewPostgresPostRepo(db *pgxpool.Pool, timeout time.Duration, log logger.Logger) post.Repository {
	return &postgresPostRepo{db: db, timeout: timeout, logger: log}
}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	var likesBytes, commentsBytes []byte

	err := row.Scan(
		&p.ID,
		&p.User,
		&p.Text,
		&p.Name,
		&p.Avatar,
		&likesBytes,
		&commentsBytes,
		&p.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post row: %w", err)
	}

	if err := json.Unmarshal(likesBytes, &p.Likes); err != nil || p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if err := json.Unmarshal(commentsBytes, &p.Comments); err != nil || p.Comments == nil {
		p.Comments = []post.Comment{}
	}
	return p, nil
}

func marshalEmbedded(p *post.Post) (likes, comments []byte, err error) {
	if likes, err = json.Marshal(p.Likes); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal post likes: %w", err)
	}
	if comments, err = json.Marshal(p.Comments); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal post comments: %w", err)
	}
	return likes, comments, nil
}

func (r *postgresPostRepo) Save(ctx context.Context, p *post.Post) error {
	likes, comments, err := marshalEmbedded(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Insert("posts").Columns(postColumns...).
		Values(p.ID, p.User, p.Text, p.Name, p.Avatar, likes, comments, p.Date).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Replace writes the embedded collections back. Author snapshot and text never change.
func (r *postgresPostRepo) Replace(ctx context.Context, p *post.Post) error {
	likes, comments, err := marshalEmbedded(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Update("posts").
		Set("text", p.Text).
		Set("likes", likes).
		Set("comments", comments).
		Where("id = ?", p.ID).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Select(postColumns...).From("posts").Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return scanPost(r.db.QueryRow(ctx, sql, args...))
}

func (r *postgresPostRepo) List(ctx context.Context) ([]*post.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sql, args, err := psql.Select(postColumns...).From("posts").OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row during iteration: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

func (r *postgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}
