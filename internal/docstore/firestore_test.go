package docstore

import (
	"testing"
	"time"

	"doefood/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreDocumentConversion(t *testing.T) {
	token := "tok"
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	u := models.User{
		Nome:             "Padaria",
		Email:            "a@x.com",
		TokenRedefinicao: &token,
		CriadoEm:         created,
		Extras:           map[string]any{"bairro": "Centro"},
	}

	doc, err := toDocument(u)
	require.NoError(t, err)
	assert.Equal(t, "Centro", doc["bairro"])
	assert.Equal(t, "tok", doc["token_redefinicao"])

	// O Firestore devolve timestamps como time.Time.
	doc["atualizadoEm"] = created.Add(time.Hour)
	back, err := fromDocument[models.User](doc)
	require.NoError(t, err)
	assert.Equal(t, "Centro", back.Extras["bairro"])
	assert.True(t, created.Equal(back.CriadoEm))
	assert.True(t, created.Add(time.Hour).Equal(back.AtualizadoEm))
	require.NotNil(t, back.TokenRedefinicao)
	assert.Equal(t, "tok", *back.TokenRedefinicao)
}
