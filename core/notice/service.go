package notice

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/user"
)

var ErrNotFound = errors.New("notice not found")

type (
	Repository interface {
		CreateNotice(ctx context.Context, ntc Notice) (Notice, error)
		// QueryNotices returns notices (optionally one category) newest first.
		QueryNotices(ctx context.Context, category string) ([]Notice, error)
		GetNotice(ctx context.Context, id string) (Notice, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nn NewNotice, author user.User) (Notice, error)
		Query(ctx context.Context, category string) ([]Notice, error)
		GetByID(ctx context.Context, id string) (Notice, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nn NewNotice, author user.User) (Notice, error) {
	ntc := Notice{
		Title:      nn.Title,
		Content:    nn.Content,
		Category:   nn.Category,
		Department: nn.Department,
		Important:  nn.Important,
		ExpiresAt:  nn.ExpiresAt,
		Author:     author.Profile(),
		CreatedAt:  time.Now().UTC(),
	}
	if !ntc.ExpiresAt.IsZero() {
		ntc.ExpiresAt = ntc.ExpiresAt.UTC()
	}
	return svc.repo.CreateNotice(ctx, ntc)
}

func (svc *service) Query(ctx context.Context, category string) ([]Notice, error) {
	return svc.repo.QueryNotices(ctx, category)
}

func (svc *service) GetByID(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNotice(ctx, id)
}
