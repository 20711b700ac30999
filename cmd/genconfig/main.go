package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/diillson/training-center-go/pkg/config"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		outputPath string
		force      bool
	)

	flag.StringVar(&outputPath, "output", "config.yaml", "Caminho para o arquivo de configuração de saída")
	flag.BoolVar(&force, "force", false, "Sobrescrever arquivo se existir")
	flag.Parse()

	if _, err := os.Stat(outputPath); err == nil && !force {
		fmt.Printf("Erro: arquivo %s já existe. Use --force para sobrescrever.\n", outputPath)
		os.Exit(1)
	}

	// Parte dos defaults e preenche exemplos para o que não tem padrão
	cfg := config.Default()
	cfg.Server.CertFile = "/path/to/cert.pem"
	cfg.Server.KeyFile = "/path/to/key.pem"
	cfg.Server.Domains = []string{"api.example.com"}
	cfg.Auth.JWTSecret = "change-me-to-a-secret-with-at-least-32-bytes"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Printf("Erro ao serializar configuração: %v\n", err)
		os.Exit(1)
	}

	yamlStr := string(data)
	re := regexp.MustCompile(`(\s+skipmigrations:\s+false)`)
	yamlStr = re.ReplaceAllString(yamlStr, `$1  # true pula os arquivos .sql`)
	re = regexp.MustCompile(`(\s+jwtsecret:\s+\S+)`)
	yamlStr = re.ReplaceAllString(yamlStr, `$1  # ou JWT_SECRET_KEY / TC_AUTH_JWTSECRET`)

	if err := os.WriteFile(outputPath, []byte(yamlStr), 0o644); err != nil {
		fmt.Printf("Erro ao escrever arquivo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Arquivo de configuração gerado em: %s\n", outputPath)
}
