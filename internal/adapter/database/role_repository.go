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

// RoleRepository implementa repository.RoleRepository
type RoleRepository struct {
	base
}

func NewRoleRepository(db *gorm.DB, logger *zap.Logger) repository.RoleRepository {
	return &RoleRepository{base: newBase(db, logger)}
}

func (r *RoleRepository) Assign(ctx context.Context, assignment *model.RoleAssignment) error {
	ctx, span := r.startSpan(ctx, "RoleRepository.Assign", "insert", "users_with_roles",
		attribute.Int64("user.id", int64(assignment.UserID)),
		attribute.Int("role.id", int(assignment.RoleID)),
	)
	defer span.End()

	entity := &model.RoleAssignmentEntity{UserID: assignment.UserID, RoleID: int(assignment.RoleID)}
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return r.fail(span, "falha ao atribuir papel", err, nil, zap.Uint("user_id", assignment.UserID))
	}

	assignment.ID = entity.ID
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *RoleRepository) ListByUserID(ctx context.Context, userID uint) ([]*model.RoleAssignment, error) {
	ctx, span := r.startSpan(ctx, "RoleRepository.ListByUserID", "select", "users_with_roles",
		attribute.Int64("user.id", int64(userID)))
	defer span.End()

	var entities []model.RoleAssignmentEntity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&entities).Error; err != nil {
		return nil, r.fail(span, "falha ao listar papéis", err, nil, zap.Uint("user_id", userID))
	}

	roles := make([]*model.RoleAssignment, 0, len(entities))
	for _, e := range entities {
		roles = append(roles, &model.RoleAssignment{ID: e.ID, UserID: e.UserID, RoleID: model.Role(e.RoleID)})
	}

	span.SetStatus(codes.Ok, "")
	return roles, nil
}

// DeleteByUserID remove todas as atribuições do usuário; nenhuma linha não é erro
func (r *RoleRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	ctx, span := r.startSpan(ctx, "RoleRepository.DeleteByUserID", "delete", "users_with_roles",
		attribute.Int64("user.id", int64(userID)))
	defer span.End()

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RoleAssignmentEntity{})
	if result.Error != nil {
		return r.fail(span, "falha ao excluir papéis", result.Error, nil, zap.Uint("user_id", userID))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	span.SetStatus(codes.Ok, "")
	return nil
}
