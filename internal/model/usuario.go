// /internal/model/usuario.go
package model

import (
	"time"
)

const (
	RoleCliente = "client"
	RoleLoja    = "store"
	RoleAdmin   = "admin"
)

// ValidRole informa se o papel pertence ao vocabulário fixo da tabela users.
func ValidRole(role string) bool {
	switch role {
	case RoleCliente, RoleLoja, RoleAdmin:
		return true
	}
	return false
}

// Usuario é a conta de acesso. O papel (Tipo) não muda depois da criação.
type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	SenhaHash string    `gorm:"column:password;not null" json:"-"` // hash bcrypt, nunca a senha em claro
	Tipo      string    `gorm:"column:user_type;not null;check:chk_users_user_type,user_type IN ('client','store','admin')" json:"user_type"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	Ativo     bool      `gorm:"column:is_active;not null" json:"is_active"`
	Bloqueado bool      `gorm:"column:is_blocked;not null" json:"is_blocked"`
}

func (Usuario) TableName() string { return "users" }

// Loja pertence a exatamente um Usuario do tipo store e é criada junto com ele.
type Loja struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UsuarioID  uint      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Usuario    *Usuario  `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE" json:"-"`
	Nome       string    `gorm:"column:name;not null" json:"name"`
	Descricao  string    `gorm:"column:description" json:"description,omitempty"`
	ImagemPath string    `gorm:"column:image_path" json:"image_path,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Loja) TableName() string { return "stores" }
