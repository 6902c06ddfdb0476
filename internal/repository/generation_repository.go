package repository

import (
	"context"

	"github.com/fadilmartias/resume-ai/internal/model"
	"gorm.io/gorm"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db}
}

func (r *GenerationRepository) Create(ctx context.Context, generation *model.Generation) error {
	return r.db.WithContext(ctx).Create(generation).Error
}

func (r *GenerationRepository) Update(ctx context.Context, generation *model.Generation) error {
	return r.db.WithContext(ctx).Save(generation).Error
}

func (r *GenerationRepository) FindByID(ctx context.Context, id string) (*model.Generation, error) {
	var generation model.Generation
	err := r.db.WithContext(ctx).First(&generation, "id = ?", id).Error
	return &generation, err
}

// List returns one page of generations, newest first, and the total row count.
func (r *GenerationRepository) List(ctx context.Context, offset, limit int) ([]model.Generation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Generation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var generations []model.Generation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&generations).Error
	return generations, total, err
}
