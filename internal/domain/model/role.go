package model

// Role identifica o tipo de conta; os valores são fixos e gravados em users_with_roles
type Role int

const (
	RoleTrainer        Role = 2
	RoleTrainingCenter Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleTrainer:
		return "trainer"
	case RoleTrainingCenter:
		return "training_center"
	default:
		return "unknown"
	}
}

// RoleAssignment liga um usuário a um papel. Não é alterado depois de criado.
type RoleAssignment struct {
	ID     uint `json:"id"`
	UserID uint `json:"user_id"`
	RoleID Role `json:"role_id"`
}

// RoleAssignmentEntity é a representação de banco de dados de um RoleAssignment
type RoleAssignmentEntity struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`
	RoleID int  `gorm:"not null"`
}

// TableName define o nome da tabela
func (RoleAssignmentEntity) TableName() string {
	return "users_with_roles"
}
