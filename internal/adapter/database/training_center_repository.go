package database

import (
	"context"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TrainingCenterRepository implementa repository.TrainingCenterRepository
type TrainingCenterRepository struct {
	base
}

func NewTrainingCenterRepository(db *gorm.DB, logger *zap.Logger) repository.TrainingCenterRepository {
	return &TrainingCenterRepository{base: newBase(db, logger)}
}

func (r *TrainingCenterRepository) Create(ctx context.Context, center *model.TrainingCenter) error {
	ctx, span := r.startSpan(ctx, "TrainingCenterRepository.Create", "insert", "training_centers",
		attribute.Int64("user.id", int64(center.UserID)))
	defer span.End()

	entity := trainingCenterToEntity(center)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.fail(span, "falha ao criar centro de treinamento", err, nil, zap.Uint("user_id", center.UserID))
	}

	center.ID = entity.ID
	center.CreatedAt = entity.CreatedAt
	center.UpdatedAt = entity.UpdatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *TrainingCenterRepository) GetByID(ctx context.Context, id uint) (*model.TrainingCenter, error) {
	ctx, span := r.startSpan(ctx, "TrainingCenterRepository.GetByID", "select", "training_centers")
	defer span.End()

	var entity model.TrainingCenterEntity
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar centro de treinamento", err, repository.ErrTrainingCenterNotFound)
	}

	span.SetStatus(codes.Ok, "")
	return trainingCenterToModel(&entity), nil
}

func (r *TrainingCenterRepository) GetByUserID(ctx context.Context, userID uint) (*model.TrainingCenter, error) {
	ctx, span := r.startSpan(ctx, "TrainingCenterRepository.GetByUserID", "select", "training_centers",
		attribute.Int64("user.id", int64(userID)))
	defer span.End()

	var entity model.TrainingCenterEntity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&entity).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar centro por usuário", err, repository.ErrTrainingCenterNotFound)
	}

	span.SetStatus(codes.Ok, "")
	return trainingCenterToModel(&entity), nil
}
