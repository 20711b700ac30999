package database

import (
	"context"

	"github.com/diillson/training-center-go/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRepositories monta todos os repositórios sobre a mesma conexão ou transação
func NewRepositories(db *gorm.DB, logger *zap.Logger) repository.Repositories {
	return repository.Repositories{
		Users:           NewUserRepository(db, logger),
		Trainers:        NewTrainerRepository(db, logger),
		TrainingCenters: NewTrainingCenterRepository(db, logger),
		Roles:           NewRoleRepository(db, logger),
	}
}

// UnitOfWork implementa repository.UnitOfWork com db.Transaction
type UnitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUnitOfWork(db *gorm.DB, logger *zap.Logger) *UnitOfWork {
	return &UnitOfWork{db: db, logger: logger}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, u.logger))
	})
}
