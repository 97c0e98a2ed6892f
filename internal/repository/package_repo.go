package repository

import (
	"context"

	"github.com/Eursukkul/coaching-service/internal/models"
	"gorm.io/gorm"
)

type PackageFilter struct {
	Category        *models.Category
	IncludeInactive bool
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.Package) error
	Save(ctx context.Context, pkg *models.Package) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Package, error)
	List(ctx context.Context, filter PackageFilter) ([]models.Package, error)
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Create(ctx context.Context, pkg *models.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// Save writes every column so category fields cleared by an update become NULL.
func (r *packageRepository) Save(ctx context.Context, pkg *models.Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

func (r *packageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Package{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *packageRepository) FindByID(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) List(ctx context.Context, filter PackageFilter) ([]models.Package, error) {
	var pkgs []models.Package
	q := r.db.WithContext(ctx)
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if err := q.Order("display_order ASC, id ASC").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}
