package services

import (
	"context"
	"errors"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/models"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category with this name already exists")

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (s *CategoryService) Create(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*models.Category, error) {
	category := models.Category{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &category, nil
}
