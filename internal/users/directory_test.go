package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"doefood/backend/internal/docstore"
	"doefood/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(docstore.NewMemoryStore[models.User]())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }
	return d
}

func TestDirectory_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)

	rec, err := d.Create(ctx, "uid-1", models.User{Nome: "Padaria", Email: "padaria@x.com", CNPJ: "12345678000199", Tipo: models.UserTypeDonor})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", rec.ID)
	assert.Nil(t, rec.Data.TokenRedefinicao)

	byID, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "padaria@x.com", byID.Data.Email)
	assert.Equal(t, 2024, byID.Data.CriadoEm.Year())

	byEmail, err := d.ByEmail(ctx, "padaria@x.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", byEmail.ID)

	byTax, err := d.ByTaxID(ctx, "12345678000199")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", byTax.ID)

	_, err = d.ByEmail(ctx, "PADARIA@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound, "e-mail lookup is case-sensitive")

	_, err = d.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = d.Create(ctx, "uid-1", models.User{Email: "outro@x.com"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestDirectory_CreateValidation(t *testing.T) {
	d := newTestDirectory(t)
	cases := map[string]models.User{
		"missing email": {Nome: "Sem email"},
		"bad email":     {Email: "not-an-email"},
		"bad cnpj":      {Email: "a@x.com", CNPJ: "12.345"},
		"bad type":      {Email: "a@x.com", Tipo: "ong"},
	}
	for name, u := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.Create(context.Background(), "", u)
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestDirectory_ResetTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Create(ctx, "uid-1", models.User{Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, d.SetResetToken(ctx, "uid-1", "tok-1"))
	require.NoError(t, d.SetResetToken(ctx, "uid-1", "tok-2"))
	rec, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, rec.Data.TokenRedefinicao)
	assert.Equal(t, "tok-2", *rec.Data.TokenRedefinicao, "newer token overwrites")

	require.NoError(t, d.ClearResetToken(ctx, "uid-1"))
	rec, err = d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, rec.Data.TokenRedefinicao)

	assert.ErrorIs(t, d.SetResetToken(ctx, "missing", "tok"), ErrUserNotFound)
	assert.ErrorIs(t, d.ClearResetToken(ctx, ""), ErrEmptyID)
}

func TestDirectory_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Create(ctx, "uid-1", models.User{Email: "a@x.com", Nome: "Antigo"})
	require.NoError(t, err)
	require.NoError(t, d.SetResetToken(ctx, "uid-1", "tok-1"))

	require.NoError(t, d.Update(ctx, "uid-1", map[string]any{"nome": "Novo"}))
	rec, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Novo", rec.Data.Nome)
	require.NotNil(t, rec.Data.TokenRedefinicao, "name change keeps pending token")

	require.NoError(t, d.Update(ctx, "uid-1", map[string]any{"email": "b@x.com"}))
	rec, err = d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", rec.Data.Email)
	assert.Nil(t, rec.Data.TokenRedefinicao, "email change invalidates pending token")

	assert.ErrorIs(t, d.Update(ctx, "uid-1", map[string]any{"token_redefinicao": "forged"}), ErrFieldReadOnly)
	assert.ErrorIs(t, d.Update(ctx, "uid-1", map[string]any{"email": "nope"}), ErrInvalidUser)
	assert.ErrorIs(t, d.Update(ctx, "missing", map[string]any{"nome": "x"}), ErrUserNotFound)
}

func TestDirectory_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, _ = d.Create(ctx, "uid-1", models.User{Email: "a@x.com"})
	_, _ = d.Create(ctx, "uid-2", models.User{Email: "b@x.com"})

	require.NoError(t, d.Delete(ctx, "uid-1"))
	all, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "uid-2", all[0].ID)
}

func TestDirectory_UpdateKeepsDocumentReadable(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Create(ctx, "uid-1", models.User{Email: "a@x.com", Nome: "Mercado", CNPJ: "12345678000199"})
	require.NoError(t, err)

	cases := map[string]map[string]any{
		"numeric name":     {"nome": 123},
		"numeric cnpj":     {"cnpj": 12345678000199},
		"object phone":     {"telefone": map[string]any{"ddd": "11"}},
		"unknown type":     {"tipo": "admin"},
		"null email":       {"email": nil},
		"numeric email":    {"email": 42},
		"created at":       {"criadoEm": "2020-01-01T00:00:00Z"},
		"forged token":     {"token_redefinicao": "forjado"},
		"empty field name": {"": "x"},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			err := d.Update(ctx, "uid-1", fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidUser) || errors.Is(err, ErrFieldReadOnly), err.Error())

			rec, err := d.ByID(ctx, "uid-1")
			require.NoError(t, err, "document must stay decodable")
			assert.Equal(t, "Mercado", rec.Data.Nome)
			assert.Equal(t, "12345678000199", rec.Data.CNPJ)
			assert.Empty(t, rec.Data.Tipo)
		})
	}

	require.NoError(t, d.Update(ctx, "uid-1", map[string]any{"tipo": "beneficiario"}))
	rec, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeBeneficiary, rec.Data.Tipo)
}

func TestDirectory_ExtraProfileFields(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Create(ctx, "uid-1", models.User{
		Email:  "a@x.com",
		Extras: map[string]any{"responsavel": "Joana"},
	})
	require.NoError(t, err)

	require.NoError(t, d.Update(ctx, "uid-1", map[string]any{
		"bairro":   "Centro",
		"horarios": []any{"seg", "qua"},
	}))

	rec, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Joana", rec.Data.Extras["responsavel"])
	assert.Equal(t, "Centro", rec.Data.Extras["bairro"])
	assert.Equal(t, []any{"seg", "qua"}, rec.Data.Extras["horarios"])

	byExtra, err := d.store.FindBy(ctx, "bairro", "Centro")
	require.NoError(t, err)
	assert.Len(t, byExtra, 1)
}

func TestDirectory_UpdateClearingResetToken(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Create(ctx, "uid-1", models.User{Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, d.SetResetToken(ctx, "uid-1", "tok-1"))

	require.NoError(t, d.Update(ctx, "uid-1", map[string]any{"token_redefinicao": nil, "nome": "Novo"}))

	rec, err := d.ByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, rec.Data.TokenRedefinicao)
	assert.Equal(t, "Novo", rec.Data.Nome)
}
