package security

import (
	"crypto/rand"
	"os"
)

// ResolveJWTSecret obtém o segredo JWT na seguinte ordem:
// 1. Variável de ambiente JWT_SECRET_KEY
// 2. Valor da configuração (auth.jwtSecret / TC_AUTH_JWTSECRET)
func ResolveJWTSecret(configured string) []byte {
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		return []byte(secret)
	}
	if configured != "" {
		return []byte(configured)
	}
	return nil
}

// RandomSecret gera um segredo efêmero, usado quando a autenticação está
// desligada e nenhum segredo foi configurado
func RandomSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}
