// Package users implementa o diretório de usuários sobre o document store.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"doefood/backend/internal/docstore"
	"doefood/backend/internal/models"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrInvalidUser   = errors.New("invalid user data")
	ErrEmptyID       = errors.New("user id must not be empty")
	ErrFieldReadOnly = errors.New("field cannot be changed")
)

var cnpjPattern = regexp.MustCompile(`^\d{14}$`)

// Campos que só o próprio diretório grava.
var readOnlyFields = map[string]bool{
	"id":                       true,
	models.UserFieldCreatedAt:  true,
	models.UserFieldUpdatedAt:  true,
	models.UserFieldResetToken: true,
}

// Directory persiste e consulta usuários. Toda operação toca um único documento.
type Directory struct {
	store docstore.Store[models.User]
	now   func() time.Time
}

func NewDirectory(store docstore.Store[models.User]) *Directory {
	return &Directory{store: store, now: time.Now}
}

func (d *Directory) ByID(ctx context.Context, id string) (docstore.Record[models.User], error) {
	if id == "" {
		return docstore.Record[models.User]{}, ErrUserNotFound
	}
	rec, err := d.store.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return rec, ErrUserNotFound
	}
	return rec, err
}

// ByEmail compara o e-mail exatamente como armazenado (case-sensitive).
func (d *Directory) ByEmail(ctx context.Context, email string) (docstore.Record[models.User], error) {
	return d.findOne(ctx, models.UserFieldEmail, email)
}

// ByTaxID busca pelo CNPJ.
func (d *Directory) ByTaxID(ctx context.Context, cnpj string) (docstore.Record[models.User], error) {
	return d.findOne(ctx, models.UserFieldCNPJ, cnpj)
}

func (d *Directory) findOne(ctx context.Context, field, value string) (docstore.Record[models.User], error) {
	if value == "" {
		return docstore.Record[models.User]{}, ErrUserNotFound
	}
	recs, err := d.store.FindBy(ctx, field, value)
	if err != nil {
		return docstore.Record[models.User]{}, err
	}
	if len(recs) == 0 {
		return docstore.Record[models.User]{}, ErrUserNotFound
	}
	return recs[0], nil
}

// SetResetToken grava o token de redefinição pendente, substituindo qualquer token anterior.
func (d *Directory) SetResetToken(ctx context.Context, id, token string) error {
	return d.setResetToken(ctx, id, &token)
}

// ClearResetToken remove o token pendente (grava null).
func (d *Directory) ClearResetToken(ctx context.Context, id string) error {
	return d.setResetToken(ctx, id, nil)
}

func (d *Directory) setResetToken(ctx context.Context, id string, token *string) error {
	if id == "" {
		return ErrEmptyID
	}
	var value any
	if token != nil {
		value = *token
	}
	err := d.store.Update(ctx, id, map[string]any{models.UserFieldResetToken: value})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Create valida e grava um novo usuário. id vazio deixa o store gerar o ID;
// normalmente é o ID da conta no provedor de identidade.
func (d *Directory) Create(ctx context.Context, id string, u models.User) (docstore.Record[models.User], error) {
	if err := Validate(u); err != nil {
		return docstore.Record[models.User]{}, err
	}
	now := d.now().UTC()
	u.TokenRedefinicao = nil
	u.CriadoEm = now
	u.AtualizadoEm = now

	rec, err := d.store.Create(ctx, id, u)
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return rec, ErrUserExists
	}
	return rec, err
}

// Update aplica uma atualização parcial de perfil. Campos desconhecidos são aceitos
// como campos extras; o documento resultante precisa continuar válido.
// token_redefinicao só aceita null, e trocar o e-mail também invalida o token pendente.
func (d *Directory) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return ErrEmptyID
	}
	updates := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		if k == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidUser)
		}
		if k == models.UserFieldResetToken && v == nil {
			updates[k] = nil
			continue
		}
		if readOnlyFields[k] {
			return fmt.Errorf("%w: %s", ErrFieldReadOnly, k)
		}
		updates[k] = v
	}

	current, err := d.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := validateMerged(current.Data, updates); err != nil {
		return err
	}

	if _, changesEmail := updates[models.UserFieldEmail]; changesEmail {
		updates[models.UserFieldResetToken] = nil
	}
	updates[models.UserFieldUpdatedAt] = d.now().UTC()

	err = d.store.Update(ctx, id, updates)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return d.store.Delete(ctx, id)
}

func (d *Directory) List(ctx context.Context) ([]docstore.Record[models.User], error) {
	return d.store.List(ctx)
}

// Validate verifica os campos obrigatórios e o formato de um usuário.
func Validate(u models.User) error {
	err := validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.CNPJ, validation.Match(cnpjPattern)),
		validation.Field(&u.Tipo, validation.In(models.UserTypeDonor, models.UserTypeBeneficiary)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	return nil
}

// validateMerged aplica as alterações sobre o documento atual e valida o resultado,
// garantindo que o documento gravado continue legível como models.User.
func validateMerged(current models.User, updates map[string]any) error {
	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range updates {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	var u models.User
	if err := json.Unmarshal(merged, &u); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %s: expected %s", ErrInvalidUser, typeErr.Field, typeErr.Type)
		}
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	return Validate(u)
}
