package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implementa Store sobre uma coleção do Cloud Firestore.
// Os documentos passam pela forma JSON de T, assim campos extras (ex.: User.Extras)
// chegam ao Firestore e o nome dos campos é o mesmo do PostgresStore.
type FirestoreStore[T any] struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore[T any](client *firestore.Client, collection string) *FirestoreStore[T] {
	return &FirestoreStore[T]{client: client, collection: collection}
}

func (f *FirestoreStore[T]) Create(ctx context.Context, id string, data T) (Record[T], error) {
	coll := f.client.Collection(f.collection)
	ref := coll.NewDoc()
	if id != "" {
		ref = coll.Doc(id)
	}
	doc, err := toDocument(data)
	if err != nil {
		return Record[T]{}, err
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return Record[T]{}, ErrAlreadyExists
		}
		return Record[T]{}, fmt.Errorf("failed to create document in '%s': %w", f.collection, err)
	}
	stored, err := fromDocument[T](doc)
	if err != nil {
		return Record[T]{}, err
	}
	return Record[T]{ID: ref.ID, Data: stored}, nil
}

func (f *FirestoreStore[T]) Get(ctx context.Context, id string) (Record[T], error) {
	snap, err := f.client.Collection(f.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Record[T]{}, ErrNotFound
		}
		return Record[T]{}, fmt.Errorf("failed to get document '%s/%s': %w", f.collection, id, err)
	}
	if !snap.Exists() {
		return Record[T]{}, ErrNotFound
	}
	return snapshotToRecord[T](snap)
}

func (f *FirestoreStore[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	// Ordem estável dos campos para facilitar a leitura dos logs do Firestore.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: fields[k]})
	}

	if _, err := f.client.Collection(f.collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update document '%s/%s': %w", f.collection, id, err)
	}
	return nil
}

func (f *FirestoreStore[T]) Delete(ctx context.Context, id string) error {
	if _, err := f.client.Collection(f.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document '%s/%s': %w", f.collection, id, err)
	}
	return nil
}

func (f *FirestoreStore[T]) List(ctx context.Context) ([]Record[T], error) {
	return collect[T](f.client.Collection(f.collection).Documents(ctx))
}

func (f *FirestoreStore[T]) FindBy(ctx context.Context, field string, value any) ([]Record[T], error) {
	return collect[T](f.client.Collection(f.collection).Where(field, "==", value).Documents(ctx))
}

func (f *FirestoreStore[T]) Ping(ctx context.Context) error {
	iter := f.client.Collection(f.collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func collect[T any](iter *firestore.DocumentIterator) ([]Record[T], error) {
	defer iter.Stop()
	var records []Record[T]
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate documents: %w", err)
		}
		rec, err := snapshotToRecord[T](snap)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func snapshotToRecord[T any](snap *firestore.DocumentSnapshot) (Record[T], error) {
	data, err := fromDocument[T](snap.Data())
	if err != nil {
		return Record[T]{}, fmt.Errorf("failed to decode document '%s': %w", snap.Ref.ID, err)
	}
	return Record[T]{ID: snap.Ref.ID, Data: data}, nil
}

// toDocument converte T no mapa gravado no Firestore.
func toDocument[T any](data T) (map[string]any, error) {
	raw, err := encode(data)
	if err != nil {
		return nil, err
	}
	return decode[map[string]any](raw)
}

// fromDocument converte os campos de um documento em T. Timestamps viram strings
// RFC 3339 no caminho e são lidos de volta em time.Time.
func fromDocument[T any](doc map[string]any) (T, error) {
	raw, err := encode(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw)
}
