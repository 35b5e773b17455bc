package docstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresStore persiste documentos na tabela "documents" (coluna data jsonb),
// particionada pelo nome da coleção. A tabela é criada pelas migrações de internal/database.
type PostgresStore[T any] struct {
	db         *gorm.DB
	collection string
}

type documentRow struct {
	ID   string
	Data []byte
}

func NewPostgresStore[T any](db *gorm.DB, collection string) *PostgresStore[T] {
	return &PostgresStore[T]{db: db, collection: collection}
}

func (p *PostgresStore[T]) Create(ctx context.Context, id string, data T) (Record[T], error) {
	raw, err := encode(data)
	if err != nil {
		return Record[T]{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	result := p.db.WithContext(ctx).Exec(
		`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?::jsonb, NOW(), NOW()) ON CONFLICT (collection, id) DO NOTHING`,
		p.collection, id, string(raw),
	)
	if result.Error != nil {
		return Record[T]{}, fmt.Errorf("failed to insert document into '%s': %w", p.collection, result.Error)
	}
	if result.RowsAffected == 0 {
		return Record[T]{}, ErrAlreadyExists
	}

	stored, err := decode[T](raw)
	if err != nil {
		return Record[T]{}, err
	}
	return Record[T]{ID: id, Data: stored}, nil
}

func (p *PostgresStore[T]) Get(ctx context.Context, id string) (Record[T], error) {
	var rows []documentRow
	err := p.db.WithContext(ctx).
		Raw(`SELECT id, data FROM documents WHERE collection = ? AND id = ?`, p.collection, id).
		Scan(&rows).Error
	if err != nil {
		return Record[T]{}, fmt.Errorf("failed to get document '%s/%s': %w", p.collection, id, err)
	}
	if len(rows) == 0 {
		return Record[T]{}, ErrNotFound
	}
	return toRecord[T](rows[0])
}

func (p *PostgresStore[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	raw, err := encode(fields)
	if err != nil {
		return err
	}
	result := p.db.WithContext(ctx).Exec(
		`UPDATE documents SET data = data || ?::jsonb, updated_at = NOW() WHERE collection = ? AND id = ?`,
		string(raw), p.collection, id,
	)
	if result.Error != nil {
		return fmt.Errorf("failed to update document '%s/%s': %w", p.collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore[T]) Delete(ctx context.Context, id string) error {
	err := p.db.WithContext(ctx).
		Exec(`DELETE FROM documents WHERE collection = ? AND id = ?`, p.collection, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete document '%s/%s': %w", p.collection, id, err)
	}
	return nil
}

func (p *PostgresStore[T]) List(ctx context.Context) ([]Record[T], error) {
	var rows []documentRow
	err := p.db.WithContext(ctx).
		Raw(`SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at`, p.collection).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in '%s': %w", p.collection, err)
	}
	return toRecords[T](rows)
}

func (p *PostgresStore[T]) FindBy(ctx context.Context, field string, value any) ([]Record[T], error) {
	raw, err := encode(value)
	if err != nil {
		return nil, err
	}
	var rows []documentRow
	err = p.db.WithContext(ctx).
		Raw(`SELECT id, data FROM documents WHERE collection = ? AND data -> ? = ?::jsonb ORDER BY created_at`,
			p.collection, field, string(raw)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query '%s' by '%s': %w", p.collection, field, err)
	}
	return toRecords[T](rows)
}

func (p *PostgresStore[T]) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func toRecord[T any](row documentRow) (Record[T], error) {
	data, err := decode[T](row.Data)
	if err != nil {
		return Record[T]{}, err
	}
	return Record[T]{ID: row.ID, Data: data}, nil
}

func toRecords[T any](rows []documentRow) ([]Record[T], error) {
	records := make([]Record[T], 0, len(rows))
	for _, row := range rows {
		rec, err := toRecord[T](row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
