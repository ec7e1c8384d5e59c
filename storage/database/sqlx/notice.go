package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kmande/chuo/core/notice"
)

type noticeRow struct {
	ID         string     `db:"id"`
	Title      string     `db:"title"`
	Content    string     `db:"content"`
	Category   string     `db:"category"`
	Department string     `db:"department"`
	Important  bool       `db:"important"`
	ExpiresAt  null.Time  `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	Author     profileRow `db:"author"`
}

func (r noticeRow) notice() notice.Notice {
	return notice.Notice{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		Department: r.Department,
		Important:  r.Important,
		ExpiresAt:  r.ExpiresAt.Time,
		Author:     r.Author.profile(),
		CreatedAt:  r.CreatedAt,
	}
}

const noticeSelect = `
	SELECT n.id, n.title, n.content, n.category, n.department, n.important, n.expires_at, n.created_at,
	       u.id AS "author.id", u.name AS "author.name", u.email AS "author.email",
	       u.role AS "author.role", u.avatar AS "author.avatar"
	FROM notice n
	         JOIN identity u ON u.id = n.author_id`

type noticeRepository struct {
	db *sqlx.DB
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *sqlx.DB) notice.Repository {
	return &noticeRepository{db: db}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	if ntc.ID == "" {
		ntc.ID = uuid.NewString()
	}
	expiresAt := null.NewTime(ntc.ExpiresAt, !ntc.ExpiresAt.IsZero())
	query := `
		INSERT INTO notice (id, title, content, category, department, important, expires_at, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		ntc.ID, ntc.Title, ntc.Content, ntc.Category, ntc.Department, ntc.Important,
		expiresAt, ntc.Author.ID, ntc.CreatedAt,
	)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "creating notice")
	}
	return ntc, nil
}

func (repo *noticeRepository) QueryNotices(ctx context.Context, category string) ([]notice.Notice, error) {
	query := noticeSelect
	var args []interface{}
	if category != "" {
		query += ` WHERE n.category ILIKE $1`
		args = append(args, category)
	}
	query += ` ORDER BY n.created_at DESC`

	var rows []noticeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	notices := make([]notice.Notice, 0, len(rows))
	for _, row := range rows {
		notices = append(notices, row.notice())
	}
	return notices, nil
}

func (repo *noticeRepository) GetNotice(ctx context.Context, id string) (notice.Notice, error) {
	var row noticeRow
	if err := repo.db.GetContext(ctx, &row, noticeSelect+` WHERE n.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notice.Notice{}, notice.ErrNotFound
		}
		return notice.Notice{}, errors.Wrap(err, "getting notice")
	}
	return row.notice(), nil
}
