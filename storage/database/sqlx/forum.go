package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kmande/chuo/core/forum"
)

type postRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Content      string         `db:"content"`
	Category     string         `db:"category"`
	Tags         pq.StringArray `db:"tags"`
	Views        int            `db:"views"`
	Upvotes      int            `db:"upvotes"`
	Downvotes    int            `db:"downvotes"`
	CreatedAt    time.Time      `db:"created_at"`
	CommentCount int            `db:"comment_count"`
	Author       profileRow     `db:"author"`
}

type commentRow struct {
	ID        string      `db:"id"`
	PostID    string      `db:"post_id"`
	ParentID  null.String `db:"parent_id"`
	Content   string      `db:"content"`
	CreatedAt time.Time   `db:"created_at"`
	Author    profileRow  `db:"author"`
}

func (r postRow) post() forum.Post {
	return forum.Post{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		Category:     r.Category,
		Tags:         r.Tags,
		Author:       r.Author.profile(),
		Views:        r.Views,
		Upvotes:      r.Upvotes,
		Downvotes:    r.Downvotes,
		CreatedAt:    r.CreatedAt,
		CommentCount: r.CommentCount,
	}
}

func (r commentRow) comment() forum.Comment {
	return forum.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		ParentID:  r.ParentID.String,
		Content:   r.Content,
		Author:    r.Author.profile(),
		CreatedAt: r.CreatedAt,
	}
}

const postSelect = `
	SELECT p.id, p.title, p.content, p.category, p.tags, p.views, p.upvotes, p.downvotes, p.created_at,
	       (SELECT COUNT(*) FROM forum_comment c WHERE c.post_id = p.id) AS comment_count,
	       u.id AS "author.id", u.name AS "author.name", u.email AS "author.email",
	       u.role AS "author.role", u.avatar AS "author.avatar"
	FROM forum_post p
	         JOIN identity u ON u.id = p.author_id`

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil) // interface compliance check

func NewForumRepository(db *sqlx.DB) forum.Repository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreatePost(ctx context.Context, post forum.Post) (forum.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	query := `
		INSERT INTO forum_post (id, title, content, category, tags, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Category, pq.Array(post.Tags), post.Author.ID, post.CreatedAt,
	)
	if err != nil {
		return forum.Post{}, errors.Wrap(err, "creating post")
	}
	return post, nil
}

func (repo *forumRepository) QueryPosts(ctx context.Context, category string) ([]forum.Post, error) {
	query := postSelect
	var args []interface{}
	if category != "" {
		query += ` WHERE p.category ILIKE $1`
		args = append(args, category)
	}
	query += ` ORDER BY p.created_at DESC`

	var rows []postRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]forum.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.post())
	}
	return posts, nil
}

func (repo *forumRepository) GetPost(ctx context.Context, id string) (forum.Post, error) {
	var row postRow
	if err := repo.db.GetContext(ctx, &row, postSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forum.Post{}, forum.ErrNotFound
		}
		return forum.Post{}, errors.Wrap(err, "getting post")
	}
	return row.post(), nil
}

func (repo *forumRepository) QueryComments(ctx context.Context, postID string) ([]forum.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.parent_id, c.content, c.created_at,
		       u.id AS "author.id", u.name AS "author.name", u.email AS "author.email",
		       u.role AS "author.role", u.avatar AS "author.avatar"
		FROM forum_comment c
		         JOIN identity u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at`
	var rows []commentRow
	if err := repo.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, errors.Wrap(err, "querying comments")
	}
	comments := make([]forum.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment())
	}
	return comments, nil
}

func (repo *forumRepository) CreateComment(ctx context.Context, cmt forum.Comment) (forum.Comment, error) {
	if cmt.ID == "" {
		cmt.ID = uuid.NewString()
	}
	parentID := null.NewString(cmt.ParentID, cmt.ParentID != "")
	query := `
		INSERT INTO forum_comment (id, post_id, parent_id, content, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, query,
		cmt.ID, cmt.PostID, parentID, cmt.Content, cmt.Author.ID, cmt.CreatedAt,
	)
	if err != nil {
		return forum.Comment{}, errors.Wrap(err, "creating comment")
	}
	return cmt, nil
}

func (repo *forumRepository) IncrementViews(ctx context.Context, postID string) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE forum_post SET views = views + 1 WHERE id = $1`, postID)
	if err != nil {
		return errors.Wrap(err, "recording view")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.ErrNotFound
	}
	return nil
}

func (repo *forumRepository) Vote(ctx context.Context, postID, voteType string) (forum.Post, error) {
	col := "upvotes"
	if voteType == forum.VoteDown {
		col = "downvotes"
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE forum_post SET `+col+` = `+col+` + 1 WHERE id = $1`, postID)
	if err != nil {
		return forum.Post{}, errors.Wrap(err, "recording vote")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.Post{}, forum.ErrNotFound
	}
	return repo.GetPost(ctx, postID)
}
