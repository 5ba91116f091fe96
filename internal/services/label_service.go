package services

import (
	"context"
	"errors"

	"github.com/denizgokce/inkpad-backend/internal/dto"
	"github.com/denizgokce/inkpad-backend/internal/models"
	"gorm.io/gorm"
)

var ErrLabelExists = errors.New("label with this name already exists")

type LabelService struct {
	db *gorm.DB
}

func NewLabelService(db *gorm.DB) *LabelService {
	return &LabelService{db: db}
}

func (s *LabelService) List(ctx context.Context, userID string) ([]models.Label, error) {
	var labels []models.Label
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&labels).Error
	return labels, err
}

func (s *LabelService) Create(ctx context.Context, userID string, req dto.CreateLabelRequest) (*models.Label, error) {
	label := models.Label{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
	}
	if err := s.db.WithContext(ctx).Create(&label).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLabelExists
		}
		return nil, err
	}
	return &label, nil
}
