package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/metrics"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var (
	ErrEmailTaken        = apperror.Conflict("Este email já está cadastrado.")
	ErrCredenciais       = apperror.Unauthorized("Email ou senha incorretos.")
	ErrContaBloqueada    = apperror.Forbidden("Sua conta está bloqueada. Entre em contato com o administrador.")
	ErrContaInativa      = apperror.Forbidden("Sua conta está inativa.")
	ErrLojaNaoEncontrada = apperror.NotFound("Loja não encontrada.")
	ErrDadosLojaAusentes = apperror.NotFound("Dados da loja não encontrados.")
)

// hashFalso é comparado quando o email não existe, para o tempo de resposta
// não revelar quais contas estão cadastradas.
var hashFalso, _ = bcrypt.GenerateFromPassword([]byte("urbanfood-senha-falsa"), bcrypt.DefaultCost)

type SignupInput struct {
	Nome        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Senha       string `json:"password" validate:"required,min=6,max=72"`
	Confirmacao string `json:"password_confirmation" validate:"eqfield=Senha"`
}

type StoreSignupInput struct {
	Nome        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Senha       string `json:"password" validate:"required,min=6,max=72"`
	Confirmacao string `json:"password_confirmation" validate:"eqfield=Senha"`
	Descricao   string `json:"description"`
}

// LoginInput.Tipo é opcional; quando vem, a conta precisa ser desse tipo.
type LoginInput struct {
	Email string `json:"email" validate:"required"`
	Senha string `json:"password" validate:"required"`
	Tipo  string `json:"user_type" validate:"omitempty,oneof=client store admin"`
}

// Sessao é o que o login devolve e o handler guarda no cookie.
type Sessao struct {
	UsuarioID uint   `json:"user_id"`
	Nome      string `json:"name"`
	Email     string `json:"email"`
	Tipo      string `json:"user_type"`
	LojaID    uint   `json:"store_id,omitempty"`
}

// AuthService cuida de cadastro e login.
type AuthService struct {
	usuarios *repository.UsuarioRepository
	lojas    *repository.LojaRepository
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewAuthService(usuarios *repository.UsuarioRepository, lojas *repository.LojaRepository, log *zap.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{usuarios: usuarios, lojas: lojas, log: log, metrics: m}
}

// RegisterClient cria uma conta de cliente.
func (s *AuthService) RegisterClient(ctx context.Context, in SignupInput) (*model.Usuario, error) {
	in.Nome, in.Email = strings.TrimSpace(in.Nome), strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkEmailFree(ctx, s.usuarios, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := hashSenha(in.Senha)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{Nome: in.Nome, Email: in.Email, SenhaHash: hash, Tipo: model.RoleCliente, Ativo: true}
	if err := s.usuarios.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Persistence("Erro ao cadastrar.", err)
	}

	s.log.Info("Cliente cadastrado", zap.Uint("user_id", u.ID))
	s.metrics.Signup(model.RoleCliente)
	return u, nil
}

// RegisterStore cria o usuário da loja e a loja numa única transação.
func (s *AuthService) RegisterStore(ctx context.Context, in StoreSignupInput) (*model.Loja, error) {
	in.Nome, in.Email = strings.TrimSpace(in.Nome), strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	loja, err := createStore(ctx, s.usuarios, s.lojas, in.Nome, in.Email, in.Senha, strings.TrimSpace(in.Descricao))
	if err != nil {
		return nil, err
	}

	s.log.Info("Loja cadastrada", zap.Uint("store_id", loja.ID), zap.Uint("user_id", loja.UsuarioID))
	s.metrics.Signup(model.RoleLoja)
	return loja, nil
}

// Login confere email e senha; contas bloqueadas ou inativas não entram.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Sessao, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	u, err := s.usuarios.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Persistence("Erro ao fazer login.", err)
		}
		_ = bcrypt.CompareHashAndPassword(hashFalso, []byte(in.Senha))
		s.metrics.Login(false)
		return nil, ErrCredenciais
	}

	if bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(in.Senha)) != nil || (in.Tipo != "" && in.Tipo != u.Tipo) {
		s.metrics.Login(false)
		return nil, ErrCredenciais
	}
	if u.Bloqueado {
		s.metrics.Login(false)
		return nil, ErrContaBloqueada
	}
	if !u.Ativo {
		s.metrics.Login(false)
		return nil, ErrContaInativa
	}

	sessao := &Sessao{UsuarioID: u.ID, Nome: u.Nome, Email: u.Email, Tipo: u.Tipo}
	if u.Tipo == model.RoleLoja {
		loja, err := s.lojas.FindByUsuarioID(ctx, u.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrDadosLojaAusentes
			}
			return nil, apperror.Persistence("Erro ao fazer login.", err)
		}
		sessao.LojaID = loja.ID
	}

	s.metrics.Login(true)
	s.log.Info("Login realizado", zap.Uint("user_id", u.ID), zap.String("user_type", u.Tipo))
	return sessao, nil
}

// createStore é compartilhado pelo autocadastro e pelo administrador.
func createStore(ctx context.Context, usuarios *repository.UsuarioRepository, lojas *repository.LojaRepository, nome, email, senha, descricao string) (*model.Loja, error) {
	if err := checkEmailFree(ctx, usuarios, email, 0); err != nil {
		return nil, err
	}
	hash, err := hashSenha(senha)
	if err != nil {
		return nil, err
	}

	dono := &model.Usuario{Nome: nome, Email: email, SenhaHash: hash, Tipo: model.RoleLoja, Ativo: true}
	loja := &model.Loja{Nome: nome, Descricao: descricao}
	if err := lojas.CreateWithOwner(ctx, dono, loja); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Persistence("Erro ao cadastrar loja.", err)
	}
	return loja, nil
}

func checkEmailFree(ctx context.Context, usuarios *repository.UsuarioRepository, email string, exceptID uint) error {
	taken, err := usuarios.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return apperror.Persistence("Erro ao verificar email.", err)
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

func hashSenha(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "Erro ao processar a senha.", err)
	}
	return string(hash), nil
}
