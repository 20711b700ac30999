package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diillson/training-center-go/internal/adapter/database"
	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/internal/domain/repository"
	"github.com/diillson/training-center-go/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (*database.Database, repository.Repositories) {
	db := testutils.NewTestDatabase(t)
	return db, database.NewRepositories(db.DB(), testutils.TestLogger(t))
}

func createTrainer(t *testing.T, repos repository.Repositories, email string) (*model.User, *model.Trainer) {
	ctx := context.Background()

	user := &model.User{Email: email, Password: "hash"}
	require.NoError(t, repos.Users.Create(ctx, user))

	trainer := &model.Trainer{UserID: user.ID, Email: email, FirstName: "F", LastName: "L", Phone: "1"}
	require.NoError(t, repos.Trainers.Create(ctx, trainer))
	require.NoError(t, repos.Roles.Assign(ctx, &model.RoleAssignment{UserID: user.ID, RoleID: model.RoleTrainer}))

	return user, trainer
}

func TestUserRepository(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	user, trainer := createTrainer(t, repos, "user@example.com")
	require.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("get by id loads the trainer", func(t *testing.T) {
		got, err := repos.Users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", got.Email)
		require.NotNil(t, got.Trainer)
		assert.Equal(t, trainer.ID, got.Trainer.ID)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repos.Users.GetByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "hash", got.Password)

		_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("email exists honours the excluded id", func(t *testing.T) {
		exists, err := repos.Users.EmailExists(ctx, "user@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repos.Users.EmailExists(ctx, "user@example.com", user.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unique email is enforced by the database", func(t *testing.T) {
		err := repos.Users.Create(ctx, &model.User{Email: "user@example.com", Password: "x"})
		assert.ErrorIs(t, err, repository.ErrEmailTaken)
	})

	t.Run("update", func(t *testing.T) {
		user.Email = "renamed@example.com"
		require.NoError(t, repos.Users.Update(ctx, user))

		got, err := repos.Users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed@example.com", got.Email)

		err = repos.Users.Update(ctx, &model.User{ID: 999, Email: "x@example.com", Password: "x"})
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repos.Users.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.ErrorIs(t, repos.Users.Delete(ctx, 999), repository.ErrUserNotFound)
	})
}

func TestUserRepository_ListWithTrainer(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	users, err := repos.Users.ListWithTrainer(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	center := &model.User{Email: "center@example.com", Password: "hash"}
	require.NoError(t, repos.Users.Create(ctx, center))
	require.NoError(t, repos.TrainingCenters.Create(ctx, &model.TrainingCenter{
		UserID: center.ID, Email: center.Email, Password: "hash",
		FirstName: "C", LastName: "C", Phone: "1", TaxIdentityNumber: "T",
	}))

	first, _ := createTrainer(t, repos, "first@example.com")
	second, _ := createTrainer(t, repos, "second@example.com")

	users, err = repos.Users.ListWithTrainer(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, second.ID, users[1].ID)
	for _, u := range users {
		require.NotNil(t, u.Trainer)
		assert.Equal(t, u.ID, u.Trainer.UserID)
	}
}

func TestTrainerRepository(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	user, trainer := createTrainer(t, repos, "t@example.com")

	got, err := repos.Trainers.GetByID(ctx, trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	got.Phone = "2"
	require.NoError(t, repos.Trainers.Update(ctx, got))

	got, err = repos.Trainers.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Phone)

	require.NoError(t, repos.Trainers.DeleteByUserID(ctx, user.ID))
	_, err = repos.Trainers.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrTrainerNotFound)
}

func TestTrainingCenterRepository(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	user := &model.User{Email: "c@example.com", Password: "hash"}
	require.NoError(t, repos.Users.Create(ctx, user))

	center := &model.TrainingCenter{
		UserID: user.ID, Email: user.Email, Password: "hash",
		FirstName: "C", LastName: "D", Phone: "1", TaxIdentityNumber: "T",
	}
	require.NoError(t, repos.TrainingCenters.Create(ctx, center))

	got, err := repos.TrainingCenters.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, center.ID, got.ID)
	assert.Equal(t, "T", got.TaxIdentityNumber)

	_, err = repos.TrainingCenters.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrTrainingCenterNotFound)
}

func TestRoleRepository(t *testing.T) {
	_, repos := setupRepos(t)
	ctx := context.Background()

	user, _ := createTrainer(t, repos, "r@example.com")

	roles, err := repos.Roles.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, model.RoleTrainer, roles[0].RoleID)

	require.NoError(t, repos.Roles.DeleteByUserID(ctx, user.ID))
	// sem linhas também não é erro
	require.NoError(t, repos.Roles.DeleteByUserID(ctx, user.ID))

	roles, err = repos.Roles.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestUnitOfWork(t *testing.T) {
	db, repos := setupRepos(t)
	uow := database.NewUnitOfWork(db.DB(), testutils.TestLogger(t))
	ctx := context.Background()

	t.Run("error rolls everything back", func(t *testing.T) {
		errStop := errors.New("stop")

		err := uow.Do(ctx, func(tx repository.Repositories) error {
			user := &model.User{Email: "tx@example.com", Password: "hash"}
			if err := tx.Users.Create(ctx, user); err != nil {
				return err
			}
			if err := tx.Roles.Assign(ctx, &model.RoleAssignment{UserID: user.ID, RoleID: model.RoleTrainer}); err != nil {
				return err
			}
			return errStop
		})
		assert.ErrorIs(t, err, errStop)

		_, err = repos.Users.GetByEmail(ctx, "tx@example.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("commit", func(t *testing.T) {
		err := uow.Do(ctx, func(tx repository.Repositories) error {
			return tx.Users.Create(ctx, &model.User{Email: "ok@example.com", Password: "hash"})
		})
		require.NoError(t, err)

		_, err = repos.Users.GetByEmail(ctx, "ok@example.com")
		assert.NoError(t, err)
	})
}
