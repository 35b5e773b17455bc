package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONCarriesExtraFields(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"nome":"Padaria","email":"a@x.com","bairro":"Centro","capacidade":12,"token_redefinicao":null}`), &u))

	assert.Equal(t, "Padaria", u.Nome)
	assert.Equal(t, map[string]any{"bairro": "Centro", "capacidade": float64(12)}, u.Extras)
	assert.Nil(t, u.TokenRedefinicao)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Centro", doc["bairro"])
	assert.Equal(t, "a@x.com", doc["email"])
}

func TestUserJSONExtrasNeverShadowKnownFields(t *testing.T) {
	u := User{Email: "a@x.com", Extras: map[string]any{"email": "outro@x.com", "token_redefinicao": "forjado"}}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	var back User
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "a@x.com", back.Email)
	assert.Nil(t, back.TokenRedefinicao)
	assert.Empty(t, back.Extras)
}

func TestUserJSONRejectsMistypedKnownField(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"nome":123}`), &u)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "nome", typeErr.Field)
}
