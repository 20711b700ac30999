package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/diillson/training-center-go/internal/adapter/database"
	"github.com/diillson/training-center-go/pkg/config"
	"github.com/diillson/training-center-go/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	var (
		action       string
		name         string
		driver       string
		dsn          string
		migrationDir string
	)

	flag.StringVar(&action, "action", "migrate", "Ação (migrate, create, status)")
	flag.StringVar(&name, "name", "", "Nome da migração (apenas para action=create)")
	flag.StringVar(&driver, "driver", "", "Driver de banco de dados (sqlite, mysql, postgres); padrão da configuração")
	flag.StringVar(&dsn, "dsn", "", "DSN do banco de dados; padrão da configuração")
	flag.StringVar(&migrationDir, "dir", "", "Diretório de migrações; padrão da configuração")
	flag.Parse()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		fmt.Printf("Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dbConfig := cfg.Database
	if driver != "" {
		dbConfig.Driver = driver
	}
	if dsn != "" {
		dbConfig.DSN = dsn
	}
	if migrationDir != "" {
		dbConfig.MigrationDir = migrationDir
	}

	ctx := context.Background()

	switch action {
	case "migrate":
		// NewDatabase aplica o schema e os arquivos pendentes
		dbConfig.SkipMigrations = false
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao aplicar migrações", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Migrações aplicadas com sucesso")

	case "create":
		if name == "" {
			logger.Fatal("Nome da migração é obrigatório para action=create")
		}

		// criar o arquivo não precisa de conexão
		path, err := database.NewMigrationManager(nil, logger, dbConfig.MigrationDir).CreateMigration(name)
		if err != nil {
			logger.Fatal("Falha ao criar migração", zap.Error(err))
		}

		logger.Info("Migração criada", zap.String("path", path))

	case "status":
		dbConfig.SkipMigrations = true
		dbConfig.AutoMigrate = false
		db, err := database.NewDatabase(ctx, dbConfig, logger)
		if err != nil {
			logger.Fatal("Falha ao inicializar banco de dados", zap.Error(err))
		}
		defer db.Close()

		applied, err := db.Migrations().Applied(ctx)
		if err != nil {
			logger.Fatal("Falha ao listar migrações", zap.Error(err))
		}
		for _, m := range applied {
			fmt.Printf("%d\t%s\t%s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%d migração(ões) aplicada(s)\n", len(applied))

	default:
		logger.Fatal("Ação desconhecida", zap.String("action", action))
	}
}
