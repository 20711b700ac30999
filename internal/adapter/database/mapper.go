package database

import "github.com/diillson/training-center-go/internal/domain/model"

func userToModel(e *model.UserEntity) *model.User {
	u := &model.User{
		ID:        e.ID,
		Email:     e.Email,
		Password:  e.Password,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Trainer != nil {
		u.Trainer = trainerToModel(e.Trainer)
	}
	return u
}

func userToEntity(u *model.User) *model.UserEntity {
	return &model.UserEntity{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func trainerToModel(e *model.TrainerEntity) *model.Trainer {
	return &model.Trainer{
		ID:        e.ID,
		UserID:    e.UserID,
		Email:     e.Email,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Phone:     e.Phone,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func trainerToEntity(t *model.Trainer) *model.TrainerEntity {
	return &model.TrainerEntity{
		ID:        t.ID,
		UserID:    t.UserID,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func trainingCenterToModel(e *model.TrainingCenterEntity) *model.TrainingCenter {
	return &model.TrainingCenter{
		ID:                e.ID,
		UserID:            e.UserID,
		Email:             e.Email,
		Password:          e.Password,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		Phone:             e.Phone,
		TaxIdentityNumber: e.TaxIdentityNumber,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func trainingCenterToEntity(c *model.TrainingCenter) *model.TrainingCenterEntity {
	return &model.TrainingCenterEntity{
		ID:                c.ID,
		UserID:            c.UserID,
		Email:             c.Email,
		Password:          c.Password,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Phone:             c.Phone,
		TaxIdentityNumber: c.TaxIdentityNumber,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
