package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freit4sdev/urbanfood/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// mensagens traduz "<Tipo>.<campo>.<regra>" (ou só "<campo>.<regra>") para o
// texto mostrado ao usuário.
var mensagens = map[string]string{
	"name.required":                  "Por favor, preencha o nome.",
	"email.required":                 "Por favor, preencha o email.",
	"email.email":                    "Por favor, insira um email válido.",
	"password.required":              "Por favor, preencha a senha.",
	"password.min":                   "A senha deve ter pelo menos 6 caracteres.",
	"password.max":                   "A senha deve ter no máximo 72 caracteres.",
	"password_confirmation.eqfield":  "As senhas não coincidem.",
	"StoreSignupInput.name.required": "Por favor, preencha o nome da loja.",
	"StoreInput.name.required":       "Por favor, preencha o nome da loja.",
	"StoreUpdateInput.name.required": "Por favor, preencha o nome da loja.",
	"ProductInput.name.required":     "Por favor, preencha o nome do produto.",
	"LoginInput.user_type.oneof":     "Tipo de usuário inválido.",
}

// validateInput roda as regras da struct e devolve o primeiro erro como
// apperror de validação.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Wrap(apperror.KindValidation, "Dados inválidos.", err)
	}

	fe := fieldErrs[0]
	if msg, ok := mensagens[fe.Namespace()+"."+fe.Tag()]; ok {
		return apperror.Validation(msg)
	}
	if msg, ok := mensagens[fe.Field()+"."+fe.Tag()]; ok {
		return apperror.Validation(msg)
	}
	return apperror.Validation("Dados inválidos: " + fe.Field() + ".")
}
