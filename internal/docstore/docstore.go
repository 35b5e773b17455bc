// Package docstore define um armazenamento de documentos genérico por coleção,
// com implementações para Firestore, Postgres (jsonb) e memória.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Record é um documento armazenado junto com seu ID.
type Record[T any] struct {
	ID   string
	Data T
}

// Store é o contrato de persistência de uma coleção de documentos do tipo T.
// Cada operação toca um único documento (exceto List/FindBy) e a escrita em um
// documento é atômica: a última escrita vence.
type Store[T any] interface {
	// Create grava um novo documento. id vazio gera um ID novo.
	Create(ctx context.Context, id string, data T) (Record[T], error)
	Get(ctx context.Context, id string) (Record[T], error)
	// Update altera apenas os campos informados (nível superior). Valor nil limpa o campo.
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Record[T], error)
	// FindBy retorna os documentos cujo campo é igual ao valor informado.
	FindBy(ctx context.Context, field string, value any) ([]Record[T], error)
}

// Pinger é implementado por stores que conseguem verificar a conectividade (usado no /health).
type Pinger interface {
	Ping(ctx context.Context) error
}

func encode[T any](data T) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("failed to decode document: %w", err)
	}
	return data, nil
}

// normalize passa um valor por JSON para compará-lo com campos já decodificados.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
