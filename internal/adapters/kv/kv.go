// Package kv は永続キー・バリュー保管の抽象を提供します。
//
// 値は JSON 直列化可能な任意の構造であり、文字列・数値・真偽値・
// ネストしたオブジェクトや配列を損失なく往復できます。
package kv

import (
	"context"
	"errors"
)

// ErrConnection は下層エンジンへの接続が確立できないことを示します。
// 呼び出し側はこれを永続化の劣化として扱い、データ損失としては扱いません。
var ErrConnection = errors.New("kv: connection unavailable")

// Store は非同期キー・バリュー保管の契約です。
//
// Get は存在しないキーに対してエラーではなく found=false を返します。
// 異なるキーへの操作は並行してよく、同一キーへの並行書き込みは
// 完了順の後勝ちです。同一キーに対する 2 つの書き込みが順序を
// 入れ替えて適用されてはなりません。
type Store interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}
