package employee

import (
	"context"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/ogurasousui/roster/internal/adapters/kv"
)

// SchemaVersion は永続化スナップショットの世代番号です。
// 読み込み時に一致しない場合は移行を試みず、空の状態から開始します。
const SchemaVersion = 1

// SnapshotKey はアダプタ上でスナップショットを保持するキーです。
const SnapshotKey = "employees"

type snapshot struct {
	SchemaVersion int         `json:"schemaVersion"`
	Employees     []*Employee `json:"employees"`
}

// IDGenerator は新規レコードの識別子を払い出します。テストでは決定的な
// 実装に差し替えられます。
type IDGenerator func() string

// DefaultIDGenerator は暗号学的乱数による UUID を生成し、乱数源が
// 利用できない環境では擬似乱数の 16 進トークンにフォールバックします。
func DefaultIDGenerator() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return fmt.Sprintf("%016x%016x", mrand.Uint64(), mrand.Uint64())
}

// Store は社員レコードのインメモリ正本です。挿入順を保持し、正規化済み
// メールアドレスの一意性をコミット前に守ります。
//
// 変更はメモリ上で即座に可視となり、耐久化は kv.Store への非同期書き込みで
// 追随します。永続化の失敗は呼び出し元へは返らず、ログと通知フックに
// 現れるだけです。
type Store struct {
	mu        sync.Mutex
	employees []*Employee
	generate  IDGenerator
	subs      map[int]func()
	nextSub   int

	persist kv.Store
	logger  *slog.Logger

	persistMu   sync.Mutex
	persistSeq  uint64
	persistedTo uint64
	pending     sync.WaitGroup
}

// NewStore は Store を生成します。persist が nil の場合はメモリのみで動作し、
// gen が nil の場合は DefaultIDGenerator を使用します。
func NewStore(persist kv.Store, gen IDGenerator, logger *slog.Logger) *Store {
	if gen == nil {
		gen = DefaultIDGenerator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		generate: gen,
		subs:     make(map[int]func()),
		persist:  persist,
		logger:   logger,
	}
}

// Hydrate はアダプタからスナップショットを読み込みます。キーが存在しない、
// または世代番号が一致しない場合は空の状態で開始します。接続エラーは
// 返しますが、その場合も Store は空の状態で利用可能です。
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	var snap snapshot
	found, err := s.persist.Get(ctx, SnapshotKey, &snap)
	if err != nil {
		return fmt.Errorf("employee: hydrate: %w", err)
	}
	if !found || snap.SchemaVersion != SchemaVersion {
		return nil
	}

	s.mu.Lock()
	s.employees = snap.Employees
	s.mu.Unlock()
	return nil
}

// All は全レコードのスナップショットを挿入順で返します。
func (s *Store) All() []*Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*Employee, 0, len(s.employees))
	for _, e := range s.employees {
		all = append(all, cloneEmployee(e))
	}
	return all
}

// ByID は指定 ID のレコードを返します。存在しない場合は ErrEmployeeNotFound です。
func (s *Store) ByID(id string) (*Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.ID == id {
			return cloneEmployee(e), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

// Count は保持するレコード数を返します。
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.employees)
}

// Upsert はレコードを追加または全置換します。ID が空なら新規発番し、
// 既存 ID なら identity を除く全フィールドを置き換えます。
//
// コミット前に、別 ID のレコードが同じ正規化済みメールアドレスを
// 持たないことを走査で確認し、違反があれば状態を変更せずに
// ErrEmailAlreadyExists を返します。コミットはコレクション全体の
// 単一スワップであり、途中状態が観測されることはありません。
func (s *Store) Upsert(in Employee) (string, error) {
	candidate := in
	candidate.Email = NormalizeEmail(in.Email)

	s.mu.Lock()

	id := candidate.ID
	if id == "" {
		id = s.generate()
	}
	candidate.ID = id

	for _, e := range s.employees {
		if e.ID != id && e.Email == candidate.Email {
			s.mu.Unlock()
			return "", ErrEmailAlreadyExists
		}
	}

	next := make([]*Employee, len(s.employees), len(s.employees)+1)
	copy(next, s.employees)

	replaced := false
	for i, e := range next {
		if e.ID == id {
			next[i] = cloneEmployee(&candidate)
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, cloneEmployee(&candidate))
	}

	s.employees = next
	s.commitLocked()
	return id, nil
}

// Remove は指定 ID のレコードを取り除きます。存在しない場合は何もしません。
func (s *Store) Remove(id string) {
	s.mu.Lock()

	next := make([]*Employee, 0, len(s.employees))
	removed := false
	for _, e := range s.employees {
		if e.ID == id {
			removed = true
			continue
		}
		next = append(next, e)
	}

	if !removed {
		s.mu.Unlock()
		return
	}

	s.employees = next
	s.commitLocked()
}

// ClearAll はコレクションを空にリセットします。
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.employees = nil
	s.commitLocked()
}

// Subscribe は変更通知の購読を登録し、解除関数を返します。通知は
// コミットごとの同期的なファンアウトで、引数はありません。
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.nextSub
	s.nextSub++
	s.subs[token] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, token)
	}
}

// Flush は進行中の永続化書き込みの完了を待ちます。終了処理とテストで使います。
func (s *Store) Flush() {
	s.pending.Wait()
}

// commitLocked は書き込みロックを保持した状態で呼ばれ、ロックを解放して
// から購読者への通知と非同期の永続化を行います。
func (s *Store) commitLocked() {
	snap := snapshot{SchemaVersion: SchemaVersion, Employees: s.employees}
	seq := s.persistSeq + 1
	s.persistSeq = seq

	listeners := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	s.persistAsync(snap, seq)
}

// persistAsync はスナップショットを後追いで書き込みます。より新しい世代が
// 既に書かれていれば古い書き込みは捨てられるため、同一キーへの適用順が
// 入れ替わることはなく、耐久化された内容は常に完全なスナップショットです。
func (s *Store) persistAsync(snap snapshot, seq uint64) {
	if s.persist == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		s.persistMu.Lock()
		defer s.persistMu.Unlock()

		if seq <= s.persistedTo {
			return
		}
		s.persistedTo = seq

		if err := s.persist.Set(context.Background(), SnapshotKey, snap); err != nil {
			s.logger.Warn("employee snapshot write failed",
				slog.Uint64("seq", seq),
				slog.Int("employees", len(snap.Employees)),
				slog.String("error", err.Error()))
		}
	}()
}
