package model

import "time"

// User é a identidade comum a centros e treinadores.
// Password guarda o hash e nunca é serializado.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Trainer   *Trainer  `json:"trainer,omitempty"`
}

// UserEntity é a representação de banco de dados de um usuário.
// As relações apagam em cascata onde o banco aplica as chaves estrangeiras;
// a exclusão de treinador também remove as linhas explicitamente.
type UserEntity struct {
	ID             uint                   `gorm:"primaryKey"`
	Email          string                 `gorm:"uniqueIndex;not null;size:100"`
	Password       string                 `gorm:"not null"`
	CreatedAt      time.Time              `gorm:"autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"autoUpdateTime"`
	Trainer        *TrainerEntity         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TrainingCenter *TrainingCenterEntity  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Roles          []RoleAssignmentEntity `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "users"
}
