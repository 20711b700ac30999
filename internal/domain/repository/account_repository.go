package repository

import (
	"context"
	"errors"

	"github.com/diillson/training-center-go/internal/domain/model"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrTrainerNotFound        = errors.New("trainer not found")
	ErrTrainingCenterNotFound = errors.New("training center not found")
	ErrEmailTaken             = errors.New("email already registered")
)

// UserRepository define o armazenamento de usuários
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	// GetByID retorna ErrUserNotFound se o id não existir
	GetByID(ctx context.Context, id uint) (*model.User, error)

	// GetByEmail compara o email já normalizado
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// EmailExists ignora o usuário excludeID (0 para não ignorar nenhum)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)

	// ListWithTrainer retorna só usuários com perfil de treinador, ordenados por id
	ListWithTrainer(ctx context.Context) ([]*model.User, error)

	Update(ctx context.Context, user *model.User) error

	Delete(ctx context.Context, id uint) error
}

// TrainerRepository define o armazenamento de perfis de treinador
type TrainerRepository interface {
	Create(ctx context.Context, trainer *model.Trainer) error
	GetByID(ctx context.Context, id uint) (*model.Trainer, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Trainer, error)
	Update(ctx context.Context, trainer *model.Trainer) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

// TrainingCenterRepository define o armazenamento de perfis de centro
type TrainingCenterRepository interface {
	Create(ctx context.Context, center *model.TrainingCenter) error
	GetByID(ctx context.Context, id uint) (*model.TrainingCenter, error)
	GetByUserID(ctx context.Context, userID uint) (*model.TrainingCenter, error)
}

// RoleRepository define o armazenamento das atribuições de papel
type RoleRepository interface {
	Assign(ctx context.Context, assignment *model.RoleAssignment) error
	ListByUserID(ctx context.Context, userID uint) ([]*model.RoleAssignment, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// Repositories agrupa os repositórios que compartilham a mesma conexão ou transação
type Repositories struct {
	Users           UserRepository
	Trainers        TrainerRepository
	TrainingCenters TrainingCenterRepository
	Roles           RoleRepository
}

// UnitOfWork executa fn dentro de uma transação. Se fn retornar erro
// (ou entrar em pânico) nada do que fez é persistido.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
