package model

import "time"

// TrainingCenter é o perfil de um centro de treinamento. Email e senha são
// cópias do User no momento do registro e não são sincronizados depois.
type TrainingCenter struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	Email             string    `json:"email"`
	Password          string    `json:"-"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Phone             string    `json:"phone"`
	TaxIdentityNumber string    `json:"tax_identity_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TrainingCenterEntity é a representação de banco de dados de um TrainingCenter
type TrainingCenterEntity struct {
	ID                uint      `gorm:"primaryKey"`
	UserID            uint      `gorm:"uniqueIndex;not null"`
	Email             string    `gorm:"not null;size:100"`
	Password          string    `gorm:"not null"`
	FirstName         string    `gorm:"not null"`
	LastName          string    `gorm:"not null"`
	Phone             string    `gorm:"not null"`
	TaxIdentityNumber string    `gorm:"not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TableName define o nome da tabela
func (TrainingCenterEntity) TableName() string {
	return "training_centers"
}
