package database

import (
	"context"
	"time"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TrainerRepository implementa repository.TrainerRepository
type TrainerRepository struct {
	base
}

func NewTrainerRepository(db *gorm.DB, logger *zap.Logger) repository.TrainerRepository {
	return &TrainerRepository{base: newBase(db, logger)}
}

func (r *TrainerRepository) Create(ctx context.Context, trainer *model.Trainer) error {
	ctx, span := r.startSpan(ctx, "TrainerRepository.Create", "insert", "trainers",
		attribute.Int64("user.id", int64(trainer.UserID)))
	defer span.End()

	entity := trainerToEntity(trainer)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.fail(span, "falha ao criar treinador", err, nil, zap.Uint("user_id", trainer.UserID))
	}

	trainer.ID = entity.ID
	trainer.CreatedAt = entity.CreatedAt
	trainer.UpdatedAt = entity.UpdatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *TrainerRepository) GetByID(ctx context.Context, id uint) (*model.Trainer, error) {
	ctx, span := r.startSpan(ctx, "TrainerRepository.GetByID", "select", "trainers",
		attribute.Int64("trainer.id", int64(id)))
	defer span.End()

	var entity model.TrainerEntity
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar treinador", err, repository.ErrTrainerNotFound, zap.Uint("id", id))
	}

	span.SetStatus(codes.Ok, "")
	return trainerToModel(&entity), nil
}

func (r *TrainerRepository) GetByUserID(ctx context.Context, userID uint) (*model.Trainer, error) {
	ctx, span := r.startSpan(ctx, "TrainerRepository.GetByUserID", "select", "trainers",
		attribute.Int64("user.id", int64(userID)))
	defer span.End()

	var entity model.TrainerEntity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&entity).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar treinador por usuário", err, repository.ErrTrainerNotFound, zap.Uint("user_id", userID))
	}

	span.SetStatus(codes.Ok, "")
	return trainerToModel(&entity), nil
}

func (r *TrainerRepository) Update(ctx context.Context, trainer *model.Trainer) error {
	ctx, span := r.startSpan(ctx, "TrainerRepository.Update", "update", "trainers",
		attribute.Int64("trainer.id", int64(trainer.ID)))
	defer span.End()

	entity := trainerToEntity(trainer)
	entity.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.TrainerEntity{ID: trainer.ID}).
		Select("Email", "FirstName", "LastName", "Phone", "UpdatedAt").
		Updates(entity)
	if result.Error != nil {
		return r.fail(span, "falha ao atualizar treinador", result.Error, nil, zap.Uint("id", trainer.ID))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrTrainerNotFound
	}

	trainer.UpdatedAt = entity.UpdatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *TrainerRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	ctx, span := r.startSpan(ctx, "TrainerRepository.DeleteByUserID", "delete", "trainers",
		attribute.Int64("user.id", int64(userID)))
	defer span.End()

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.TrainerEntity{})
	if result.Error != nil {
		return r.fail(span, "falha ao excluir treinador", result.Error, nil, zap.Uint("user_id", userID))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrTrainerNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
