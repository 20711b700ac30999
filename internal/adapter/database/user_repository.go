package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository implementa repository.UserRepository
type UserRepository struct {
	base
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) repository.UserRepository {
	return &UserRepository{base: newBase(db, logger)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, span := r.startSpan(ctx, "UserRepository.Create", "insert", "users")
	defer span.End()

	entity := userToEntity(user)
	if err := r.db.WithContext(ctx).Omit("Trainer", "TrainingCenter", "Roles").Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate email")
			return repository.ErrEmailTaken
		}
		return r.fail(span, "falha ao criar usuário", err, nil)
	}

	user.ID = entity.ID
	user.CreatedAt = entity.CreatedAt
	user.UpdatedAt = entity.UpdatedAt
	span.SetAttributes(attribute.Int64("user.id", int64(entity.ID)))
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx, span := r.startSpan(ctx, "UserRepository.GetByID", "select", "users", attribute.Int64("user.id", int64(id)))
	defer span.End()

	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Preload("Trainer").First(&entity, id).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar usuário", err, repository.ErrUserNotFound, zap.Uint("id", id))
	}

	span.SetStatus(codes.Ok, "")
	return userToModel(&entity), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := r.startSpan(ctx, "UserRepository.GetByEmail", "select", "users")
	defer span.End()

	var entity model.UserEntity
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		return nil, r.fail(span, "falha ao buscar usuário por email", err, repository.ErrUserNotFound)
	}

	span.SetStatus(codes.Ok, "")
	return userToModel(&entity), nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	ctx, span := r.startSpan(ctx, "UserRepository.EmailExists", "select", "users")
	defer span.End()

	query := r.db.WithContext(ctx).Model(&model.UserEntity{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, r.fail(span, "falha ao verificar email", err, nil)
	}

	span.SetAttributes(attribute.Bool("user.email_exists", count > 0))
	span.SetStatus(codes.Ok, "")
	return count > 0, nil
}

func (r *UserRepository) ListWithTrainer(ctx context.Context) ([]*model.User, error) {
	ctx, span := r.startSpan(ctx, "UserRepository.ListWithTrainer", "select", "users")
	defer span.End()

	var entities []model.UserEntity
	err := r.db.WithContext(ctx).
		Preload("Trainer").
		Where("EXISTS (SELECT 1 FROM trainers WHERE trainers.user_id = users.id)").
		Order("users.id").
		Find(&entities).Error
	if err != nil {
		return nil, r.fail(span, "falha ao listar treinadores", err, nil)
	}

	users := make([]*model.User, 0, len(entities))
	for i := range entities {
		users = append(users, userToModel(&entities[i]))
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	span.SetStatus(codes.Ok, "")
	return users, nil
}

// Update grava email e senha; o perfil é atualizado pelo próprio repositório
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	ctx, span := r.startSpan(ctx, "UserRepository.Update", "update", "users", attribute.Int64("user.id", int64(user.ID)))
	defer span.End()

	entity := userToEntity(user)
	entity.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.UserEntity{ID: user.ID}).
		Select("Email", "Password", "UpdatedAt").
		Updates(entity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "duplicate email")
			return repository.ErrEmailTaken
		}
		return r.fail(span, "falha ao atualizar usuário", result.Error, nil, zap.Uint("id", user.ID))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = entity.UpdatedAt
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := r.startSpan(ctx, "UserRepository.Delete", "delete", "users", attribute.Int64("user.id", int64(id)))
	defer span.End()

	result := r.db.WithContext(ctx).Delete(&model.UserEntity{}, id)
	if result.Error != nil {
		return r.fail(span, "falha ao excluir usuário", result.Error, nil, zap.Uint("id", id))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return fmt.Errorf("excluir usuário %d: %w", id, repository.ErrUserNotFound)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
