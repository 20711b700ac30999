package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"github.com/diillson/training-center-go/internal/infra/metrics"
	"github.com/diillson/training-center-go/pkg/cache"
	"github.com/diillson/training-center-go/pkg/logging"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	trainersListKey = "trainers:list"
	defaultCacheTTL = time.Minute
)

func trainerKey(userID uint) string {
	return fmt.Sprintf("trainer:%d", userID)
}

// PasswordHasher é implementado por security.BcryptHasher
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service cuida do ciclo de vida das contas de centros e treinadores
type Service struct {
	repos    repository.Repositories
	uow      repository.UnitOfWork
	hasher   PasswordHasher
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.APIMetrics
	logger   *logging.ContextLogger
	validate *validator.Validate
}

// Option ajusta dependências opcionais do serviço
type Option func(*Service)

func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(repos repository.Repositories, uow repository.UnitOfWork, hasher PasswordHasher, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repos:    repos,
		uow:      uow,
		hasher:   hasher,
		cache:    &cache.NoOpCache{},
		cacheTTL: defaultCacheTTL,
		logger:   logging.NewContextLogger(logger.Named("account")),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTrainingCenter cria usuário, perfil de centro e papel 3 numa única transação.
// Toda a validação acontece antes da primeira escrita.
func (s *Service) RegisterTrainingCenter(ctx context.Context, in RegisterTrainingCenterInput) (*model.User, error) {
	const op = "register_training_center"

	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		s.record(op, "invalid")
		return nil, FromValidator(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.record(op, "error")
		return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}

	var user *model.User
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := ensureEmailFree(ctx, repos.Users, in.Email, 0); err != nil {
			return err
		}

		user = &model.User{Email: in.Email, Password: hash}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}

		center := &model.TrainingCenter{
			UserID:            user.ID,
			Email:             in.Email,
			Password:          hash,
			FirstName:         in.FirstName,
			LastName:          in.LastName,
			Phone:             in.Phone,
			TaxIdentityNumber: in.TaxIdentityNumber,
		}
		if err := repos.TrainingCenters.Create(ctx, center); err != nil {
			return err
		}

		return repos.Roles.Assign(ctx, &model.RoleAssignment{UserID: user.ID, RoleID: model.RoleTrainingCenter})
	})
	if err != nil {
		return nil, s.writeFailed(ctx, op, err)
	}

	s.record(op, "ok")
	s.logger.InfoCtx(ctx, "Centro de treinamento registrado", zap.Uint("user_id", user.ID))
	return user, nil
}

// CreateTrainer cria usuário, perfil de treinador e papel 2 numa única transação
// e devolve o perfil criado.
func (s *Service) CreateTrainer(ctx context.Context, in CreateTrainerInput) (*model.Trainer, error) {
	const op = "create_trainer"

	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		s.record(op, "invalid")
		return nil, FromValidator(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.record(op, "error")
		return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}

	var trainer *model.Trainer
	err = s.uow.Do(ctx, func(repos repository.Repositories) error {
		if err := ensureEmailFree(ctx, repos.Users, in.Email, 0); err != nil {
			return err
		}

		user := &model.User{Email: in.Email, Password: hash}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}

		trainer = &model.Trainer{
			UserID:    user.ID,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.Phone,
		}
		if err := repos.Trainers.Create(ctx, trainer); err != nil {
			return err
		}

		return repos.Roles.Assign(ctx, &model.RoleAssignment{UserID: user.ID, RoleID: model.RoleTrainer})
	})
	if err != nil {
		return nil, s.writeFailed(ctx, op, err)
	}

	s.invalidate(ctx, trainersListKey)
	s.record(op, "ok")
	s.logger.InfoCtx(ctx, "Treinador criado", zap.Uint("user_id", trainer.UserID))
	return trainer, nil
}

// DeleteTrainer remove perfil, papéis e usuário na mesma transação.
// O id é o do usuário; um usuário sem perfil de treinador dá ErrTrainerNotFound.
func (s *Service) DeleteTrainer(ctx context.Context, userID uint) error {
	const op = "delete_trainer"

	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		if _, err := repos.Trainers.GetByUserID(ctx, userID); err != nil {
			return err
		}

		if err := repos.Roles.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := repos.Trainers.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return repos.Users.Delete(ctx, userID)
	})
	if err != nil {
		return s.writeFailed(ctx, op, err)
	}

	s.invalidate(ctx, trainersListKey, trainerKey(userID))
	s.record(op, "ok")
	s.logger.InfoCtx(ctx, "Treinador excluído", zap.Uint("user_id", userID))
	return nil
}

// UpdateTrainer aplica os campos presentes. Email vai para usuário e perfil,
// senha só para o usuário, nome e telefone só para o perfil.
func (s *Service) UpdateTrainer(ctx context.Context, userID uint, update TrainerUpdate) (*model.Trainer, error) {
	const op = "update_trainer"

	if vErr := update.validate(s.validate); vErr != nil {
		s.record(op, "invalid")
		return nil, vErr
	}

	var hash string
	if update.Password != nil {
		var err error
		if hash, err = s.hasher.Hash(*update.Password); err != nil {
			s.record(op, "error")
			return nil, fmt.Errorf("falha ao gerar hash da senha: %w", err)
		}
	}

	var trainer *model.Trainer
	err := s.uow.Do(ctx, func(repos repository.Repositories) error {
		user, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		trainer, err = repos.Trainers.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		// corpo vazio: só confirma que o treinador existe
		if update.Empty() {
			return nil
		}

		if update.Email != nil && *update.Email != user.Email {
			if err := ensureEmailFree(ctx, repos.Users, *update.Email, userID); err != nil {
				return err
			}
		}

		if update.Email != nil {
			user.Email = *update.Email
			trainer.Email = *update.Email
		}
		if update.Password != nil {
			user.Password = hash
		}
		if update.FirstName != nil {
			trainer.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			trainer.LastName = *update.LastName
		}
		if update.Phone != nil {
			trainer.Phone = *update.Phone
		}

		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		return repos.Trainers.Update(ctx, trainer)
	})
	if err != nil {
		return nil, s.writeFailed(ctx, op, err)
	}

	if !update.Empty() {
		s.invalidate(ctx, trainersListKey, trainerKey(userID))
	}
	s.record(op, "ok")
	s.logger.InfoCtx(ctx, "Treinador atualizado", zap.Uint("user_id", userID))
	return trainer, nil
}

// ListTrainers devolve os usuários com perfil de treinador carregado.
// Lista vazia é ErrNoTrainers.
func (s *Service) ListTrainers(ctx context.Context) ([]*model.User, error) {
	const op = "list_trainers"

	var users []*model.User
	if s.fromCache(ctx, trainersListKey, &users) && len(users) > 0 {
		s.record(op, "ok")
		return users, nil
	}

	users, err := s.repos.Users.ListWithTrainer(ctx)
	if err != nil {
		s.record(op, "error")
		return nil, err
	}
	if len(users) == 0 {
		s.record(op, "not_found")
		return nil, ErrNoTrainers
	}

	s.toCache(ctx, trainersListKey, users)
	s.record(op, "ok")
	return users, nil
}

// GetTrainer busca o perfil de treinador pelo id do usuário
func (s *Service) GetTrainer(ctx context.Context, userID uint) (*model.Trainer, error) {
	const op = "get_trainer"

	var trainer model.Trainer
	if s.fromCache(ctx, trainerKey(userID), &trainer) {
		s.record(op, "ok")
		return &trainer, nil
	}

	found, err := s.repos.Trainers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) {
			s.record(op, "not_found")
		} else {
			s.record(op, "error")
		}
		return nil, err
	}

	s.toCache(ctx, trainerKey(userID), found)
	s.record(op, "ok")
	return found, nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, excludeID uint) error {
	taken, err := users.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrEmailTaken
	}
	return nil
}

// writeFailed classifica o erro da transação, registra a métrica e
// converte email duplicado em erro de validação
func (s *Service) writeFailed(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		s.record(op, "invalid")
		return emailTaken()
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrTrainerNotFound):
		s.record(op, "not_found")
		return repository.ErrTrainerNotFound
	default:
		s.record(op, "error")
		s.logger.ErrorCtx(ctx, "Falha ao gravar conta", zap.String("operation", op), zap.Error(err))
		return err
	}
}

func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WarnCtx(ctx, "Erro ao buscar do cache", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.WarnCtx(ctx, "Erro ao armazenar no cache", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnCtx(ctx, "Erro ao invalidar cache", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *Service) record(op, outcome string) {
	s.metrics.AccountOperation(op, outcome)
}
