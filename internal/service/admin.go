package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var (
	ErrUsuarioNaoEncontrado = apperror.NotFound("Usuário não encontrado.")
	ErrExcluirAdmin         = apperror.Forbidden("Não é possível excluir usuários administradores.")
	ErrTipoInvalido         = apperror.Validation("Tipo de usuário inválido.")
)

// StoreInput é o cadastro de loja feito pelo administrador (sem confirmação de senha).
type StoreInput struct {
	Nome      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Senha     string `json:"password" validate:"required,min=6,max=72"`
	Descricao string `json:"description"`
}

// StoreUpdateInput: senha vazia mantém a atual.
type StoreUpdateInput struct {
	Nome      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Senha     string `json:"password" validate:"omitempty,min=6,max=72"`
	Descricao string `json:"description"`
}

type AdminService struct {
	usuarios *repository.UsuarioRepository
	lojas    *repository.LojaRepository
	log      *zap.Logger
}

func NewAdminService(usuarios *repository.UsuarioRepository, lojas *repository.LojaRepository, log *zap.Logger) *AdminService {
	return &AdminService{usuarios: usuarios, lojas: lojas, log: log}
}

// ListUsers lista os usuários, opcionalmente só de um tipo.
func (s *AdminService) ListUsers(ctx context.Context, tipo string) ([]model.Usuario, error) {
	if tipo != "" && !model.ValidRole(tipo) {
		return nil, ErrTipoInvalido
	}
	users, err := s.usuarios.List(ctx, tipo)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar usuários.", err)
	}
	return users, nil
}

func (s *AdminService) ToggleBlocked(ctx context.Context, usuarioID uint) (*model.Usuario, error) {
	u, err := s.usuarios.ToggleBlocked(ctx, usuarioID)
	if err != nil {
		return nil, userErr(err, "Erro ao atualizar usuário.")
	}
	s.log.Info("Bloqueio de usuário alterado", zap.Uint("user_id", u.ID), zap.Bool("is_blocked", u.Bloqueado))
	return u, nil
}

func (s *AdminService) ToggleActive(ctx context.Context, usuarioID uint) (*model.Usuario, error) {
	u, err := s.usuarios.ToggleActive(ctx, usuarioID)
	if err != nil {
		return nil, userErr(err, "Erro ao atualizar usuário.")
	}
	s.log.Info("Ativação de usuário alterada", zap.Uint("user_id", u.ID), zap.Bool("is_active", u.Ativo))
	return u, nil
}

// DeleteUser apaga o usuário e, pelas FKs em cascata, tudo que depende dele.
// Administradores não podem ser apagados.
func (s *AdminService) DeleteUser(ctx context.Context, usuarioID uint) error {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return userErr(err, "Erro ao excluir usuário.")
	}
	if u.Tipo == model.RoleAdmin {
		return ErrExcluirAdmin
	}
	if err := s.usuarios.Delete(ctx, usuarioID); err != nil {
		return userErr(err, "Erro ao excluir usuário.")
	}
	s.log.Info("Usuário excluído", zap.Uint("user_id", usuarioID), zap.String("user_type", u.Tipo))
	return nil
}

func (s *AdminService) ListStores(ctx context.Context) ([]repository.LojaComDono, error) {
	lojas, err := s.lojas.ListWithOwners(ctx)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar lojas.", err)
	}
	return lojas, nil
}

func (s *AdminService) CreateStore(ctx context.Context, in StoreInput) (*model.Loja, error) {
	in.Nome, in.Email, in.Descricao = strings.TrimSpace(in.Nome), strings.TrimSpace(in.Email), strings.TrimSpace(in.Descricao)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	loja, err := createStore(ctx, s.usuarios, s.lojas, in.Nome, in.Email, in.Senha, in.Descricao)
	if err != nil {
		return nil, err
	}
	s.log.Info("Loja criada pelo administrador", zap.Uint("store_id", loja.ID))
	return loja, nil
}

// UpdateStore altera loja e conta do dono juntas. O email só pode repetir o
// do próprio dono.
func (s *AdminService) UpdateStore(ctx context.Context, lojaID uint, in StoreUpdateInput) error {
	in.Nome, in.Email, in.Descricao = strings.TrimSpace(in.Nome), strings.TrimSpace(in.Email), strings.TrimSpace(in.Descricao)
	if err := validateInput(in); err != nil {
		return err
	}

	loja, err := s.lojas.FindByID(ctx, lojaID)
	if err != nil {
		return storeErr(err, "Erro ao atualizar loja.")
	}
	if err := checkEmailFree(ctx, s.usuarios, in.Email, loja.UsuarioID); err != nil {
		return err
	}

	upd := repository.LojaUpdate{Nome: in.Nome, Email: in.Email, Descricao: in.Descricao}
	if in.Senha != "" {
		if upd.SenhaHash, err = hashSenha(in.Senha); err != nil {
			return err
		}
	}
	if err := s.lojas.UpdateWithOwner(ctx, lojaID, upd); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return storeErr(err, "Erro ao atualizar loja.")
	}
	s.log.Info("Loja atualizada", zap.Uint("store_id", lojaID), zap.Bool("password_changed", in.Senha != ""))
	return nil
}

// DeleteStore apaga o usuário dono; a loja, os produtos e os pedidos vão em cascata.
func (s *AdminService) DeleteStore(ctx context.Context, lojaID uint) error {
	loja, err := s.lojas.FindByID(ctx, lojaID)
	if err != nil {
		return storeErr(err, "Erro ao excluir loja.")
	}
	if err := s.usuarios.Delete(ctx, loja.UsuarioID); err != nil {
		return storeErr(err, "Erro ao excluir loja.")
	}
	s.log.Info("Loja excluída", zap.Uint("store_id", lojaID), zap.Uint("user_id", loja.UsuarioID))
	return nil
}

func userErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUsuarioNaoEncontrado
	}
	return apperror.Persistence(msg, err)
}

func storeErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLojaNaoEncontrada
	}
	return apperror.Persistence(msg, err)
}
