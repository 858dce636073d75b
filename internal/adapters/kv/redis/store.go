// Package redis は Redis を下層エンジンとする kv.Store 実装です。
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ogurasousui/roster/internal/adapters/kv"
)

const defaultKeyPrefix = "roster"

// Store は go-redis クライアントを遅延初期化して使い回す kv.Store です。
// 値は JSON として直列化され、同一キーへの書き込みは後勝ちです。
type Store struct {
	url    string
	prefix string

	once    sync.Once
	client  *goredis.Client
	dialErr error
}

// New は Store を生成します。接続は最初の操作時に一度だけ確立されます。
// prefix が空の場合は "roster" を使用します。
func New(url, prefix string) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{url: url, prefix: prefix}
}

// NewWithClient は既存のクライアントを使う Store を生成します。テスト用です。
func NewWithClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	s := &Store{prefix: prefix}
	s.once.Do(func() { s.client = client })
	return s
}

// Get はキーに対応する値を dest へ復元します。キーが存在しない場合は
// found=false を返し、エラーにはしません。
func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	client, err := s.conn(ctx)
	if err != nil {
		return false, err
	}

	raw, err := client.Get(ctx, s.fullKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return true, nil
}

// Set は値を JSON として書き込みます。
func (s *Store) Set(ctx context.Context, key string, value any) error {
	client, err := s.conn(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", key, err)
	}

	if err := client.Set(ctx, s.fullKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Remove はキーを削除します。存在しないキーでもエラーにはなりません。
func (s *Store) Remove(ctx context.Context, key string) error {
	client, err := s.conn(ctx)
	if err != nil {
		return err
	}

	if err := client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: remove %s: %w", key, err)
	}
	return nil
}

// Close は確立済みの接続を閉じます。未接続の場合は何もしません。
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// conn は接続を一度だけ確立して使い回します。確立に失敗した場合、以後の
// 操作は kv.ErrConnection を包んだエラーで失敗し続けます。
func (s *Store) conn(ctx context.Context) (*goredis.Client, error) {
	s.once.Do(func() {
		opts, err := goredis.ParseURL(s.url)
		if err != nil {
			s.dialErr = fmt.Errorf("%w: invalid redis url: %v", kv.ErrConnection, err)
			return
		}

		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			s.dialErr = fmt.Errorf("%w: %v", kv.ErrConnection, err)
			return
		}
		s.client = client
	})

	if s.dialErr != nil {
		return nil, s.dialErr
	}
	return s.client, nil
}

func (s *Store) fullKey(key string) string {
	return s.prefix + ":" + key
}
