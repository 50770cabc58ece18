package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound indica que nenhuma linha corresponde (inclusive por pertencer a outro dono).
var ErrNotFound = errors.New("registro não encontrado")

// IsUniqueViolation reconhece violação de UNIQUE tanto pelo erro traduzido do
// GORM quanto pela mensagem crua do SQLite/PostgreSQL.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
