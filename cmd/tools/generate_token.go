package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/diillson/training-center-go/internal/domain/model"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/security"
	"go.uber.org/zap"
)

func main() {
	var (
		userID   uint
		role     int
		duration time.Duration
	)
	flag.UintVar(&userID, "user", 0, "ID do usuário")
	flag.IntVar(&role, "role", int(model.RoleTrainingCenter), "Papel (2 = treinador, 3 = centro de treinamento)")
	flag.DurationVar(&duration, "ttl", 24*time.Hour, "Validade do token")
	flag.Parse()

	if userID == 0 {
		fmt.Println("Erro: o ID do usuário não pode ser vazio.")
		fmt.Println("Uso: go run ./cmd/tools -user=<ID> [-role=3] [-ttl=24h]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	km, err := security.NewKeyManager(security.ResolveJWTSecret(cfg.Auth.JWTSecret), zap.NewNop())
	if err != nil {
		fmt.Printf("Erro: %v\n", err)
		fmt.Println("Configure JWT_SECRET_KEY, TC_AUTH_JWTSECRET ou auth.jwtSecret no config.yaml")
		os.Exit(1)
	}

	token, err := km.GenerateToken(userID, role, duration)
	if err != nil {
		fmt.Printf("Erro ao gerar token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nToken JWT gerado:")
	fmt.Println("------------------------------------------")
	fmt.Println(token)
	fmt.Println("------------------------------------------")
	fmt.Printf("ID do usuário: %d\n", userID)
	fmt.Printf("Papel: %s\n", model.Role(role))
	fmt.Printf("Expira em: %s\n", time.Now().Add(duration).Format(time.RFC3339))
	fmt.Printf("\nAuthorization: Bearer %s\n", token)
}
