package mocks

import (
	"github.com/diillson/training-center-go/pkg/security"
	"github.com/stretchr/testify/mock"
)

// MockTokenValidator é um mock para middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(tokenString string) (*security.Claims, error) {
	args := m.Called(tokenString)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*security.Claims), args.Error(1)
}

// MockPasswordHasher é um mock para account.PasswordHasher e auth.PasswordVerifier
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}
