package material

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/user"
)

var ErrNotFound = errors.New("study material not found")

type (
	Repository interface {
		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		// QueryMaterials filters by department and/or a case-insensitive
		// search on title, description and subject; newest uploads first.
		QueryMaterials(ctx context.Context, filter *QueryFilter) ([]Material, error)
		GetMaterial(ctx context.Context, id string) (Material, error)
		IncrementDownloads(ctx context.Context, id string) (Material, error)
	}

	ServiceInterface interface {
		Upload(ctx context.Context, nm NewMaterial, uploader user.User) (Material, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Material, error)
		GetByID(ctx context.Context, id string) (Material, error)
		RecordDownload(ctx context.Context, id string) (Material, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Upload(ctx context.Context, nm NewMaterial, uploader user.User) (Material, error) {
	mat := Material{
		Title:       nm.Title,
		Description: nm.Description,
		Subject:     nm.Subject,
		Department:  nm.Department,
		Type:        nm.Type,
		FileURL:     nm.FileURL,
		FileSize:    nm.FileSize,
		UploadedBy:  uploader.Profile(),
		UploadDate:  time.Now().UTC(),
	}
	return svc.repo.CreateMaterial(ctx, mat)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Material, error) {
	return svc.repo.QueryMaterials(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id string) (Material, error) {
	return svc.repo.GetMaterial(ctx, id)
}

func (svc *service) RecordDownload(ctx context.Context, id string) (Material, error) {
	return svc.repo.IncrementDownloads(ctx, id)
}
