package repository

import (
	"context"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
)

type ComplianceRepository interface {
	List(ctx context.Context, category string) ([]model.ComplianceItem, error)
	GetByID(ctx context.Context, id uint) (*model.ComplianceItem, error)
	Create(ctx context.Context, item *model.ComplianceItem) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	SetActive(ctx context.Context, id uint, active bool) error
	Count(ctx context.Context) (int64, error)
}

type complianceRepository struct {
	db *gorm.DB
}

func NewComplianceRepository(db *gorm.DB) ComplianceRepository {
	return &complianceRepository{db}
}

// List returns active items, optionally restricted to one category.
func (r *complianceRepository) List(ctx context.Context, category string) ([]model.ComplianceItem, error) {
	var items []model.ComplianceItem
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("category, particular").Find(&items).Error
	return items, err
}

func (r *complianceRepository) GetByID(ctx context.Context, id uint) (*model.ComplianceItem, error) {
	var item model.ComplianceItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *complianceRepository) Create(ctx context.Context, item *model.ComplianceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *complianceRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.ComplianceItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Items are archived, never deleted.
func (r *complianceRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&model.ComplianceItem{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *complianceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ComplianceItem{}).Count(&n).Error
	return n, err
}
