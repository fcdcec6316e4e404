package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/pg"
	"gorm.io/gorm"
)

var ErrPackageNotFound = errors.New("package not found")

type PackageRepository struct {
	*pg.DB
}

func NewPackageRepository(db *pg.DB) *PackageRepository {
	return &PackageRepository{
		db,
	}
}

func (r *PackageRepository) Create(ctx context.Context, p *model.Package) (*model.Package, error) {
	entity := toPackageEntity(p)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toPackageModel(entity), nil
}

func (r *PackageRepository) Update(ctx context.Context, p *model.Package) (*model.Package, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&PackageEntity{ID: p.ID}).
		Select("name", "price", "description").
		Updates(toPackageEntity(p))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPackageNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *PackageRepository) Get(ctx context.Context, id int64) (*model.Package, error) {
	var entity PackageEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return toPackageModel(&entity), nil
}

func (r *PackageRepository) List(ctx context.Context) ([]*model.Package, error) {
	var entities []*PackageEntity
	if err := r.Read(ctx).WithContext(ctx).Order("name ASC").Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Package, len(entities))
	for i, e := range entities {
		out[i] = toPackageModel(e)
	}
	return out, nil
}

func (r *PackageRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).Delete(&PackageEntity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}
