package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/material"
	"github.com/kmande/chuo/core/user"
)

type materialRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Subject     string     `db:"subject"`
	Department  string     `db:"department"`
	Type        string     `db:"type"`
	FileURL     string     `db:"file_url"`
	FileSize    int64      `db:"file_size"`
	Downloads   int        `db:"downloads"`
	UploadDate  time.Time  `db:"upload_date"`
	UploadedBy  profileRow `db:"uploaded_by"`
}

// profileRow maps a joined identity projection for content authors.
type profileRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	Role   string `db:"role"`
	Avatar string `db:"avatar"`
}

func (r profileRow) profile() user.Profile {
	return user.Profile{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Role:   user.Role(r.Role),
		Avatar: r.Avatar,
	}
}

func (r materialRow) material() material.Material {
	return material.Material{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Subject:     r.Subject,
		Department:  r.Department,
		Type:        r.Type,
		FileURL:     r.FileURL,
		FileSize:    r.FileSize,
		Downloads:   r.Downloads,
		UploadedBy:  r.UploadedBy.profile(),
		UploadDate:  r.UploadDate,
	}
}

const materialSelect = `
	SELECT m.id, m.title, m.description, m.subject, m.department, m.type,
	       m.file_url, m.file_size, m.downloads, m.upload_date,
	       u.id AS "uploaded_by.id", u.name AS "uploaded_by.name", u.email AS "uploaded_by.email",
	       u.role AS "uploaded_by.role", u.avatar AS "uploaded_by.avatar"
	FROM study_material m
	         JOIN identity u ON u.id = m.uploaded_by`

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *sqlx.DB) material.Repository {
	return &materialRepository{db: db}
}

func (repo *materialRepository) CreateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	if mat.ID == "" {
		mat.ID = uuid.NewString()
	}
	query := `
		INSERT INTO study_material (id, title, description, subject, department, type, file_url, file_size, uploaded_by, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, query,
		mat.ID, mat.Title, mat.Description, mat.Subject, mat.Department, mat.Type,
		mat.FileURL, mat.FileSize, mat.UploadedBy.ID, mat.UploadDate,
	)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "creating material")
	}
	return mat, nil
}

func (repo *materialRepository) QueryMaterials(ctx context.Context, filter *material.QueryFilter) ([]material.Material, error) {
	query := materialSelect
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Department != "" {
			args = append(args, filter.Department)
			conds = append(conds, fmt.Sprintf("m.department ILIKE $%d", len(args)))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			p := fmt.Sprintf("$%d", len(args))
			conds = append(conds, fmt.Sprintf("(m.title ILIKE %s OR m.description ILIKE %s OR m.subject ILIKE %s)", p, p, p))
		}
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY m.upload_date DESC`

	var rows []materialRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	mats := make([]material.Material, 0, len(rows))
	for _, row := range rows {
		mats = append(mats, row.material())
	}
	return mats, nil
}

func (repo *materialRepository) GetMaterial(ctx context.Context, id string) (material.Material, error) {
	var row materialRow
	if err := repo.db.GetContext(ctx, &row, materialSelect+` WHERE m.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return material.Material{}, material.ErrNotFound
		}
		return material.Material{}, errors.Wrap(err, "getting material")
	}
	return row.material(), nil
}

func (repo *materialRepository) IncrementDownloads(ctx context.Context, id string) (material.Material, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE study_material SET downloads = downloads + 1 WHERE id = $1`, id)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "recording download")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return material.Material{}, material.ErrNotFound
	}
	return repo.GetMaterial(ctx, id)
}
