package models

import (
	"encoding/json"
	"time"
)

// Nomes das coleções no document store.
const (
	CollectionUsers     = "usuarios"
	CollectionDonations = "doacoes"
)

type UserType string

const (
	UserTypeDonor       UserType = "doador"
	UserTypeBeneficiary UserType = "beneficiario"
)

// User é o documento de usuário. O ID do documento é o ID da conta no provedor de identidade.
// As tags `firestore` e `json` precisam ter os mesmos nomes: o PostgresStore consulta pelo nome JSON.
type User struct {
	Nome     string   `json:"nome" firestore:"nome"`
	Email    string   `json:"email" firestore:"email"`
	CNPJ     string   `json:"cnpj,omitempty" firestore:"cnpj,omitempty"`
	Tipo     UserType `json:"tipo,omitempty" firestore:"tipo,omitempty"`
	Telefone string   `json:"telefone,omitempty" firestore:"telefone,omitempty"`
	Endereco string   `json:"endereco,omitempty" firestore:"endereco,omitempty"`

	// TokenRedefinicao é o único token de redefinição de senha pendente (nil quando não há).
	TokenRedefinicao *string `json:"token_redefinicao" firestore:"token_redefinicao"`

	CriadoEm     time.Time `json:"criadoEm" firestore:"criadoEm"`
	AtualizadoEm time.Time `json:"atualizadoEm" firestore:"atualizadoEm"`

	// Extras guarda os demais campos de perfil enviados pelo cliente, gravados no
	// mesmo nível dos campos acima.
	Extras map[string]any `json:"-" firestore:"-"`
}

// UserKnownFields são os campos tipados de User; qualquer outro nome vai para Extras.
var UserKnownFields = map[string]bool{
	"nome":              true,
	UserFieldEmail:      true,
	UserFieldCNPJ:       true,
	"tipo":              true,
	"telefone":          true,
	"endereco":          true,
	UserFieldResetToken: true,
	UserFieldCreatedAt:  true,
	UserFieldUpdatedAt:  true,
}

type userFields User

func (u User) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(userFields(u))
	if err != nil || len(u.Extras) == 0 {
		return raw, err
	}
	doc := make(map[string]any, len(u.Extras)+len(UserKnownFields))
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, v := range u.Extras {
		if !UserKnownFields[k] {
			doc[k] = v
		}
	}
	return json.Marshal(doc)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var known userFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	known.Extras = nil
	for k, v := range doc {
		if UserKnownFields[k] {
			continue
		}
		if known.Extras == nil {
			known.Extras = make(map[string]any)
		}
		known.Extras[k] = v
	}
	*u = User(known)
	return nil
}

// Campos do documento de usuário referenciados em consultas e atualizações parciais.
const (
	UserFieldEmail      = "email"
	UserFieldCNPJ       = "cnpj"
	UserFieldResetToken = "token_redefinicao"
	UserFieldCreatedAt  = "criadoEm"
	UserFieldUpdatedAt  = "atualizadoEm"
)

// Donation é um documento de doação sem esquema fixo; apenas doadorId/beneficiarioId são consultados.
type Donation map[string]any

const (
	DonationFieldDonorID       = "doadorId"
	DonationFieldBeneficiaryID = "beneficiarioId"
)
