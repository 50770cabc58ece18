package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
)

// LojaComDono é a linha da listagem administrativa de lojas.
type LojaComDono struct {
	ID        uint      `json:"id"`
	Nome      string    `json:"name"`
	Descricao string    `json:"description,omitempty"`
	Email     string    `json:"email"`
	UsuarioID uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LojaUpdate carrega as mudanças de uma edição administrativa. SenhaHash vazio
// mantém a senha atual.
type LojaUpdate struct {
	Nome      string
	Email     string
	Descricao string
	SenhaHash string
}

// LojaRepository acessa stores e, nas operações de conta, users junto.
type LojaRepository struct {
	db *gorm.DB
}

func NewLojaRepository(db *gorm.DB) *LojaRepository {
	return &LojaRepository{db: db}
}

// CreateWithOwner grava o usuário dono e a loja na mesma transação.
func (r *LojaRepository) CreateWithOwner(ctx context.Context, dono *model.Usuario, loja *model.Loja) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dono).Error; err != nil {
			return err
		}
		loja.UsuarioID = dono.ID
		return tx.Create(loja).Error
	})
}

// UpdateWithOwner altera loja e conta do dono numa única transação.
func (r *LojaRepository) UpdateWithOwner(ctx context.Context, lojaID uint, upd LojaUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loja model.Loja
		if err := tx.First(&loja, lojaID).Error; err != nil {
			return notFound(err)
		}

		userFields := map[string]any{"name": upd.Nome, "email": upd.Email}
		if upd.SenhaHash != "" {
			userFields["password"] = upd.SenhaHash
		}
		if err := tx.Model(&model.Usuario{}).Where("id = ?", loja.UsuarioID).Updates(userFields).Error; err != nil {
			return err
		}

		return tx.Model(&model.Loja{}).Where("id = ?", lojaID).
			Updates(map[string]any{"name": upd.Nome, "description": upd.Descricao}).Error
	})
}

func (r *LojaRepository) FindByID(ctx context.Context, id uint) (*model.Loja, error) {
	var loja model.Loja
	if err := r.db.WithContext(ctx).First(&loja, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &loja, nil
}

func (r *LojaRepository) FindByUsuarioID(ctx context.Context, usuarioID uint) (*model.Loja, error) {
	var loja model.Loja
	if err := r.db.WithContext(ctx).Where("user_id = ?", usuarioID).First(&loja).Error; err != nil {
		return nil, notFound(err)
	}
	return &loja, nil
}

// ListByName é a aba "Lojas" do cliente.
func (r *LojaRepository) ListByName(ctx context.Context) ([]model.Loja, error) {
	var lojas []model.Loja
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&lojas).Error; err != nil {
		return nil, err
	}
	return lojas, nil
}

// ListWithOwners é a listagem do administrador, mais recentes primeiro.
func (r *LojaRepository) ListWithOwners(ctx context.Context) ([]LojaComDono, error) {
	var rows []LojaComDono
	err := r.db.WithContext(ctx).
		Table("stores AS s").
		Select("s.id AS id, s.name AS nome, s.description AS descricao, u.email AS email, u.id AS usuario_id, s.created_at AS created_at").
		Joins("JOIN users u ON s.user_id = u.id").
		Order("s.created_at DESC").Order("s.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
