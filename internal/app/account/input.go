package account

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterTrainingCenterInput é validado explicitamente pelo serviço, sem binding do gin
type RegisterTrainingCenterInput struct {
	Email             string `json:"email" validate:"required,email,max=100"`
	Password          string `json:"password" validate:"required,min=2"`
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	TaxIdentityNumber string `json:"tax_identity_number" validate:"required"`
}

// CreateTrainerInput é validado no binding do gin e de novo no serviço
type CreateTrainerInput struct {
	Email     string `json:"email" binding:"required,email,max=100" validate:"required,email,max=100"`
	Password  string `json:"password" binding:"required,min=2" validate:"required,min=2"`
	FirstName string `json:"first_name" binding:"required" validate:"required"`
	LastName  string `json:"last_name" binding:"required" validate:"required"`
	Phone     string `json:"phone" binding:"required" validate:"required"`
}

// TrainerUpdate é a atualização parcial de um treinador: campos nil não mudam
type TrainerUpdate struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// Empty indica que nenhum campo foi enviado
func (u TrainerUpdate) Empty() bool {
	return u.Email == nil && u.Password == nil && u.FirstName == nil && u.LastName == nil && u.Phone == nil
}

// LoginInput são as credenciais trocadas por um token
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("validate")
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// jsonFieldName faz os erros usarem o nome do campo no JSON
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *RegisterTrainingCenterInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.TaxIdentityNumber = strings.TrimSpace(in.TaxIdentityNumber)
}

func (in *CreateTrainerInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
}

// validate confere cada campo presente isoladamente, antes de qualquer escrita
func (u *TrainerUpdate) validate(v *validator.Validate) *ValidationError {
	out := &ValidationError{}

	check := func(field string, value *string, rules string) {
		if value == nil {
			return
		}
		if err := v.Var(*value, rules); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				out.add(field, message(field, fe.Tag(), fe.Param()))
			}
		}
	}

	if u.Email != nil {
		email := normalizeEmail(*u.Email)
		u.Email = &email
	}
	for _, f := range []**string{&u.FirstName, &u.LastName, &u.Phone} {
		if *f != nil {
			trimmed := strings.TrimSpace(**f)
			*f = &trimmed
		}
	}

	check("email", u.Email, "required,email,max=100")
	check("password", u.Password, "required,min=2")
	check("first_name", u.FirstName, "required")
	check("last_name", u.LastName, "required")
	check("phone", u.Phone, "required")

	if out.empty() {
		return nil
	}
	return out
}
