package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// NewsRepository handles news posts.
type NewsRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]*model.News, error)
	GetByID(ctx context.Context, id int) (*model.News, error)
	Create(ctx context.Context, n *model.News) error
	Update(ctx context.Context, n *model.News) error
	Delete(ctx context.Context, id int) error
	IncrementViews(ctx context.Context, id int) error
}

type newsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository creates a PostgreSQL-backed NewsRepository.
func NewNewsRepository(pool *pgxpool.Pool) NewsRepository {
	return &newsRepository{pool: pool}
}

const newsSelect = `SELECT n.id, n.title, n.content, n.excerpt, n.priority, n.color, n.is_published,
	n.is_pinned, n.views, n.author_id, COALESCE(o.display_name, ''), n.created_at, n.updated_at, n.published_at
	FROM news n LEFT JOIN operators o ON o.id = n.author_id`

func scanNews(row pgx.Row) (*model.News, error) {
	n := &model.News{}
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Excerpt, &n.Priority, &n.Color, &n.IsPublished,
		&n.IsPinned, &n.Views, &n.AuthorID, &n.AuthorName, &n.CreatedAt, &n.UpdatedAt, &n.PublishedAt)
	if err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (r *newsRepository) List(ctx context.Context, publishedOnly bool) ([]*model.News, error) {
	rows, err := r.pool.Query(ctx,
		newsSelect+`
		 WHERE (NOT $1 OR n.is_published)
		 ORDER BY n.is_pinned DESC, n.published_at DESC NULLS LAST, n.created_at DESC`,
		publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *newsRepository) GetByID(ctx context.Context, id int) (*model.News, error) {
	return scanNews(r.pool.QueryRow(ctx, newsSelect+` WHERE n.id = $1`, id))
}

func (r *newsRepository) Create(ctx context.Context, n *model.News) error {
	return translate(r.pool.QueryRow(ctx,
		`INSERT INTO news (title, content, excerpt, priority, color, is_published, is_pinned, author_id, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		n.Title, n.Content, n.Excerpt, n.Priority, n.Color, n.IsPublished, n.IsPinned, n.AuthorID, n.PublishedAt,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *newsRepository) Update(ctx context.Context, n *model.News) error {
	return translate(r.pool.QueryRow(ctx,
		`UPDATE news
		 SET title = $1, content = $2, excerpt = $3, priority = $4, color = $5,
		     is_published = $6, is_pinned = $7, published_at = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING updated_at`,
		n.Title, n.Content, n.Excerpt, n.Priority, n.Color, n.IsPublished, n.IsPinned, n.PublishedAt, n.ID,
	).Scan(&n.UpdatedAt))
}

func (r *newsRepository) Delete(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, id))
}

func (r *newsRepository) IncrementViews(ctx context.Context, id int) error {
	return expectRow(r.pool.Exec(ctx, `UPDATE news SET views = views + 1 WHERE id = $1`, id))
}
