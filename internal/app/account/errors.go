package account

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrNoTrainers é retornado pela listagem quando nenhum usuário tem perfil de treinador
var ErrNoTrainers = errors.New("trainers not found")

// ValidationError carrega as mensagens por campo, no formato devolvido ao cliente
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// IsValidation indica se err é (ou embrulha) um *ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// FromValidator converte erros do validator (inclusive os do binding do gin)
// em ValidationError. Outros erros viram uma mensagem no campo "body".
func FromValidator(err error) *ValidationError {
	out := &ValidationError{}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.add("body", "The request body is invalid.")
		return out
	}

	for _, fe := range fieldErrs {
		field := snakeCase(fe.Field())
		out.add(field, message(field, fe.Tag(), fe.Param()))
	}
	return out
}

func emailTaken() *ValidationError {
	out := &ValidationError{}
	out.add("email", "The email has already been taken.")
	return out
}

func message(field, tag, param string) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", label, param)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", label, param)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

// snakeCase converte FirstName em first_name; nomes já em snake_case passam intactos
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
