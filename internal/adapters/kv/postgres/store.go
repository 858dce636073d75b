// Package postgres は kv_entries テーブルを下層エンジンとする kv.Store 実装です。
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	pgdb "github.com/ogurasousui/roster/internal/platform/db/postgres"
)

// Store は PostgreSQL を利用した kv.Store の実装です。
type Store struct {
	db pgdb.Queryer
}

// NewStore は Store を生成します。
func NewStore(db pgdb.Queryer) *Store {
	return &Store{db: db}
}

// Get はキーに対応する JSON 値を dest へ復元します。行が存在しない場合は
// found=false を返します。
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	row := s.db.QueryRow(ctx, `
        SELECT value
          FROM kv_entries
         WHERE key = $1
    `, key)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("postgres: get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("postgres: decode %s: %w", key, err)
	}
	return true, nil
}

// Set は値を JSON として upsert します。同一キーへの書き込みは後勝ちです。
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("postgres: encode %s: %w", key, err)
	}

	_, err = s.db.Exec(ctx, `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = now()
    `, key, raw)
	if err != nil {
		return fmt.Errorf("postgres: set %s: %w", key, err)
	}
	return nil
}

// Remove はキーを削除します。存在しないキーでもエラーにはなりません。
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: remove %s: %w", key, err)
	}
	return nil
}
