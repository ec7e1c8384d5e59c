package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kmande/chuo/core/notice"
)

type noticeRepository struct {
	db *noticeTable
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *DB) notice.Repository {
	return &noticeRepository{db: db.notice}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, ntc notice.Notice) (notice.Notice, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if ntc.ID == "" {
		ntc.ID = uuid.NewString()
	}
	repo.db.table[ntc.ID] = &ntc
	return ntc, nil
}

func (repo *noticeRepository) QueryNotices(ctx context.Context, category string) ([]notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.db.table))
	for _, ntc := range repo.db.table {
		if category != "" && !strings.EqualFold(ntc.Category, category) {
			continue
		}
		notices = append(notices, *ntc)
	}
	// newest first
	sort.Slice(notices, func(i, j int) bool { return notices[i].CreatedAt.After(notices[j].CreatedAt) })
	return notices, nil
}

func (repo *noticeRepository) GetNotice(ctx context.Context, id string) (notice.Notice, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ntc, ok := repo.db.table[id]; ok {
		return *ntc, nil
	}
	return notice.Notice{}, notice.ErrNotFound
}
