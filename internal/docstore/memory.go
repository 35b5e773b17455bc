package docstore

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore guarda documentos serializados em JSON, com a mesma semântica de
// campos do PostgresStore. Usado em desenvolvimento (DOCSTORE_PROVIDER=memory) e testes.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{docs: make(map[string][]byte)}
}

func (m *MemoryStore[T]) Create(ctx context.Context, id string, data T) (Record[T], error) {
	raw, err := encode(data)
	if err != nil {
		return Record[T]{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[id]; exists {
		return Record[T]{}, ErrAlreadyExists
	}
	m.docs[id] = raw
	m.order = append(m.order, id)

	stored, err := decode[T](raw)
	if err != nil {
		return Record[T]{}, err
	}
	return Record[T]{ID: id, Data: stored}, nil
}

func (m *MemoryStore[T]) Get(ctx context.Context, id string) (Record[T], error) {
	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return Record[T]{}, ErrNotFound
	}
	data, err := decode[T](raw)
	if err != nil {
		return Record[T]{}, err
	}
	return Record[T]{ID: id, Data: data}, nil
}

func (m *MemoryStore[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}

	doc, err := decode[map[string]any](raw)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := encode(doc)
	if err != nil {
		return err
	}
	m.docs[id] = merged
	return nil
}

// Delete é idempotente: remover um documento inexistente não é erro.
func (m *MemoryStore[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return nil
	}
	delete(m.docs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore[T]) List(ctx context.Context) ([]Record[T], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]Record[T], 0, len(m.order))
	for _, id := range m.order {
		data, err := decode[T](m.docs[id])
		if err != nil {
			return nil, err
		}
		records = append(records, Record[T]{ID: id, Data: data})
	}
	return records, nil
}

func (m *MemoryStore[T]) FindBy(ctx context.Context, field string, value any) ([]Record[T], error) {
	want, err := normalize(value)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []Record[T]
	for _, id := range m.order {
		raw := m.docs[id]
		doc, err := decode[map[string]any](raw)
		if err != nil {
			return nil, err
		}
		got, present := doc[field]
		if !present || !reflect.DeepEqual(got, want) {
			continue
		}
		data, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		records = append(records, Record[T]{ID: id, Data: data})
	}
	return records, nil
}

func (m *MemoryStore[T]) Ping(ctx context.Context) error { return nil }
