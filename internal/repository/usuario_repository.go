package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
)

// UsuarioRepository acessa a tabela users.
type UsuarioRepository struct {
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (r *UsuarioRepository) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UsuarioRepository) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UsuarioRepository) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// EmailTaken informa se outro usuário (diferente de exceptID) já usa o e-mail.
func (r *UsuarioRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List devolve os usuários mais recentes primeiro; role vazio traz todos.
func (r *UsuarioRepository) List(ctx context.Context, role string) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if role != "" {
		q = q.Where("user_type = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleBlocked inverte is_blocked no próprio UPDATE e devolve o usuário atualizado.
func (r *UsuarioRepository) ToggleBlocked(ctx context.Context, id uint) (*model.Usuario, error) {
	return r.toggle(ctx, id, "is_blocked")
}

func (r *UsuarioRepository) ToggleActive(ctx context.Context, id uint) (*model.Usuario, error) {
	return r.toggle(ctx, id, "is_active")
}

func (r *UsuarioRepository) toggle(ctx context.Context, id uint, column string) (*model.Usuario, error) {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where("id = ?", id).
		Update(column, gorm.Expr("NOT "+column))
	if err := affected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete remove o usuário; as FKs em cascata levam loja, produtos e pedidos junto.
func (r *UsuarioRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Usuario{}, id))
}
