package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kmande/chuo/core/material"
)

type materialRepository struct {
	db *materialTable
}

var _ material.Repository = (*materialRepository)(nil) // interface compliance check

func NewMaterialRepository(db *DB) material.Repository {
	return &materialRepository{db: db.material}
}

func (repo *materialRepository) query() []material.Material {
	mats := make([]material.Material, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		mats = append(mats, *m)
	}
	// newest uploads first
	sort.Slice(mats, func(i, j int) bool { return mats[i].UploadDate.After(mats[j].UploadDate) })
	return mats
}

func (repo *materialRepository) CreateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if mat.ID == "" {
		mat.ID = uuid.NewString()
	}
	repo.db.table[mat.ID] = &mat
	return mat, nil
}

func (repo *materialRepository) QueryMaterials(ctx context.Context, filter *material.QueryFilter) ([]material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	mats := repo.query()
	if filter == nil || filter.IsEmpty() {
		return mats, nil
	}

	if filter.Department != "" {
		var filtered []material.Material
		for _, m := range mats {
			if strings.EqualFold(m.Department, filter.Department) {
				filtered = append(filtered, m)
			}
		}
		mats = filtered
	}
	if mats != nil && filter.Search != "" {
		var filtered []material.Material
		search := strings.ToLower(filter.Search)
		for _, m := range mats {
			if strings.Contains(strings.ToLower(m.Title), search) ||
				strings.Contains(strings.ToLower(m.Description), search) ||
				strings.Contains(strings.ToLower(m.Subject), search) {
				filtered = append(filtered, m)
			}
		}
		mats = filtered
	}

	return mats, nil
}

func (repo *materialRepository) GetMaterial(ctx context.Context, id string) (material.Material, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mat, ok := repo.db.table[id]; ok {
		return *mat, nil
	}
	return material.Material{}, material.ErrNotFound
}

func (repo *materialRepository) IncrementDownloads(ctx context.Context, id string) (material.Material, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mat, ok := repo.db.table[id]
	if !ok {
		return material.Material{}, material.ErrNotFound
	}
	mat.Downloads++
	return *mat, nil
}
