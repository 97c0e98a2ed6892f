package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/repository"
)

// PackageCache holds the active catalog per category ("" for all).
type PackageCache interface {
	GetPackages(ctx context.Context, category string) ([]models.Package, bool, error)
	SetPackages(ctx context.Context, category string, pkgs []models.Package) error
	Invalidate(ctx context.Context) error
}

type PackageService interface {
	ListPackages(ctx context.Context, category *models.Category) ([]models.Package, error)
	ListAllPackages(ctx context.Context, actor lifecycle.Actor) ([]models.Package, error)
	GetPackage(ctx context.Context, id uint) (*models.Package, error)
	GetOffering(ctx context.Context, id uint) (lifecycle.Offering, error)
	CreatePackage(ctx context.Context, actor lifecycle.Actor, pkg *models.Package) error
	UpdatePackage(ctx context.Context, actor lifecycle.Actor, id uint, pkg *models.Package) (*models.Package, error)
	DeletePackage(ctx context.Context, actor lifecycle.Actor, id uint) error
}

type packageService struct {
	repo  repository.PackageRepository
	cache PackageCache
}

// NewPackageService accepts a nil cache, in which case the catalog is always read from the database.
func NewPackageService(repo repository.PackageRepository, cache PackageCache) PackageService {
	return &packageService{repo: repo, cache: cache}
}

func (s *packageService) ListPackages(ctx context.Context, category *models.Category) ([]models.Package, error) {
	key := ""
	if category != nil {
		if !category.Valid() {
			return nil, &lifecycle.ValidationError{Field: "category", Reason: "must be private_sessions or self_training"}
		}
		key = string(*category)
	}

	if s.cache != nil {
		pkgs, ok, err := s.cache.GetPackages(ctx, key)
		if err != nil {
			log.Printf("[PackageService] cache read failed: %v", err)
		}
		if ok {
			return pkgs, nil
		}
	}

	pkgs, err := s.repo.List(ctx, repository.PackageFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPackages(ctx, key, pkgs); err != nil {
			log.Printf("[PackageService] cache write failed: %v", err)
		}
	}
	return pkgs, nil
}

func (s *packageService) ListAllPackages(ctx context.Context, actor lifecycle.Actor) ([]models.Package, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, repository.PackageFilter{IncludeInactive: true})
}

func (s *packageService) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrPackageNotFound)
	}
	return pkg, nil
}

func (s *packageService) GetOffering(ctx context.Context, id uint) (lifecycle.Offering, error) {
	pkg, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	return lifecycle.OfferingFromPackage(*pkg)
}

func (s *packageService) CreatePackage(ctx context.Context, actor lifecycle.Actor, pkg *models.Package) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if _, err := lifecycle.OfferingFromPackage(*pkg); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *packageService) UpdatePackage(ctx context.Context, actor lifecycle.Actor, id uint, pkg *models.Package) (*models.Package, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	existing, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg.ID = existing.ID
	pkg.CreatedAt = existing.CreatedAt
	if _, err := lifecycle.OfferingFromPackage(*pkg); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update package: %w", err)
	}
	s.invalidate(ctx)
	return pkg, nil
}

// DeletePackage soft-deletes; subscriptions keep their package_name snapshot.
func (s *packageService) DeletePackage(ctx context.Context, actor lifecycle.Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrPackageNotFound)
	}
	s.invalidate(ctx)
	return nil
}

func (s *packageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("[PackageService] cache invalidation failed: %v", err)
	}
}
