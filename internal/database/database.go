// /internal/database/database.go
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/freit4sdev/urbanfood/internal/model"
)

// MemoryDSN abre um banco SQLite só em memória (útil para testes e demonstrações).
const MemoryDSN = ":memory:"

// Connect abre a conexão e garante o schema.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(dsn, log)
	if err != nil {
		return nil, err
	}

	log.Info("Executando migrações do banco de dados...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}
	log.Info("Migrações concluídas com sucesso.")
	return db, nil
}

// Open escolhe o driver pelo DSN: postgres:// vai para o PostgreSQL,
// qualquer outra coisa é tratada como caminho de arquivo SQLite.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("falha ao conectar ao PostgreSQL: %w", err)
		}
		log.Info("Conexão com o PostgreSQL estabelecida.")
		return db, nil
	}

	path, _, _ := strings.Cut(dsn, "?")
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("criando diretório do banco: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir o SQLite %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Uma única conexão compartilhada: o SQLite serializa as escritas de qualquer
	// forma, e o banco em memória só existe dentro dessa conexão.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("habilitando chaves estrangeiras: %w", err)
	}

	log.Info("Conexão com o SQLite estabelecida.", zap.String("path", dsn))
	return db, nil
}

// sqliteDSN acrescenta o pragma de chaves estrangeiras preservando a query que
// o DSN já tiver.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate cria ou atualiza as tabelas users, stores, products, orders e order_items.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{}, &model.Loja{}, &model.Produto{}, &model.Pedido{}, &model.ItemPedido{},
	)
}

// Close libera a conexão subjacente.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
