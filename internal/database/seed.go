// /internal/database/seed.go
package database

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
)

const (
	AdminNome  = "Administrador"
	AdminEmail = "admin@urbanfood.com"
	AdminSenha = "admin123"
)

// SeedAdmin cria a conta de administrador padrão se ainda não existir nenhum admin.
// Chamar duas vezes não cria uma segunda conta.
func SeedAdmin(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&model.Usuario{}).Where("user_type = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("verificando administrador: %w", err)
	}
	if count > 0 {
		log.Info("Usuário administrador já existe.")
		return nil
	}

	log.Info("Usuário administrador não encontrado, criando um novo...")
	senhaHash, err := bcrypt.GenerateFromPassword([]byte(AdminSenha), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("falha ao criar hash da senha do administrador: %w", err)
	}

	admin := model.Usuario{
		Nome:      AdminNome,
		Email:     AdminEmail,
		SenhaHash: string(senhaHash),
		Tipo:      model.RoleAdmin,
		Ativo:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("falha ao criar o usuário administrador: %w", err)
	}
	log.Info("Usuário administrador criado com sucesso.", zap.String("email", AdminEmail))
	return nil
}
