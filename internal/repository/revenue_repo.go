package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoice-dashboard-backend/internal/models"
)

type RevenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// List returns every revenue row in storage order.
func (r *RevenueRepository) List(ctx context.Context) ([]models.Revenue, error) {
	var revenue []models.Revenue
	err := r.db.WithContext(ctx).Find(&revenue).Error
	return revenue, err
}

func (r *RevenueRepository) CreateIfAbsent(ctx context.Context, revenue *models.Revenue) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(revenue).Error
}
