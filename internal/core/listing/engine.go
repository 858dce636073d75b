// Package listing は社員コレクション上の検索・フィルタ・ページングと
// 複数選択の状態を導出ビューとして提供します。
package listing

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ogurasousui/roster/internal/core/employee"
)

// ErrSelectionTooSmall は一括削除に必要な選択数(2 件以上)を満たしていない
// ことを示します。1 件のみの削除は行単位の削除経路を使います。
var ErrSelectionTooSmall = errors.New("listing: bulk delete requires at least two selected records")

// Source はエンジンが参照する生きた社員コレクションの抽象です。
type Source interface {
	All() []*employee.Employee
	Remove(id string)
}

// ViewMode は一覧の表示モードです。カード表示はテーブル表示より
// 1 ページあたりの件数が少なくなります。
type ViewMode string

const (
	ViewModeTable ViewMode = "table"
	ViewModeCards ViewMode = "cards"
)

const (
	defaultTablePageSize = 10
	defaultCardsPageSize = 6
)

// Filters は構造化フィルタの集合です。ゼロ値のフィールドは無条件として
// 扱われ、設定されたフィールドは独立した AND 条件になります。
type Filters struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Department     string
	Position       string
	EmploymentFrom string
	EmploymentTo   string
	BirthFrom      string
	BirthTo        string
}

func (f Filters) isZero() bool {
	return f == Filters{}
}

// PageResult は UI 境界へ渡す、現在ページのスライスとページング情報です。
type PageResult struct {
	Items      []*employee.Employee
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	ViewMode   ViewMode
}

// Engine は検索文字列・構造化フィルタ・ページ番号・表示モード・選択集合を
// 所有し、Source の生きたコレクションから導出ビューを計算します。
// 削除操作を除き Source を変更することはありません。
type Engine struct {
	mu            sync.Mutex
	source        Source
	search        string
	filters       Filters
	page          int
	tablePageSize int
	cardsPageSize int
	viewMode      ViewMode
	selected      map[string]struct{}
}

// NewEngine は Engine を生成します。ページサイズが 0 以下の場合は既定値
// (テーブル 10 件、カード 6 件)を使用します。
func NewEngine(source Source, tablePageSize, cardsPageSize int) *Engine {
	if tablePageSize <= 0 {
		tablePageSize = defaultTablePageSize
	}
	if cardsPageSize <= 0 {
		cardsPageSize = defaultCardsPageSize
	}
	return &Engine{
		source:        source,
		page:          1,
		tablePageSize: tablePageSize,
		cardsPageSize: cardsPageSize,
		viewMode:      ViewModeTable,
		selected:      make(map[string]struct{}),
	}
}

// SetSearch は自由検索文字列を設定し、ページを 1 に戻します。
func (e *Engine) SetSearch(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	query = strings.TrimSpace(query)
	if query == e.search {
		return
	}
	e.search = query
	e.page = 1
}

// SetFilters は構造化フィルタを置き換え、変更があればページを 1 に戻します。
func (e *Engine) SetFilters(f Filters) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if f == e.filters {
		return
	}
	e.filters = f
	e.page = 1
}

// SetPage はページ番号を [1, totalPages] に黙って丸めた上で設定します。
func (e *Engine) SetPage(page int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := e.totalPagesLocked(len(e.filteredLocked()))
	e.page = clamp(page, 1, total)
}

// SetViewMode は表示モードを切り替えます。実効ページサイズの変化で現在
// ページが範囲外になった場合はリセットせずに丸めます。未知のモードは
// 無視されます。
func (e *Engine) SetViewMode(mode ViewMode) {
	if mode != ViewModeTable && mode != ViewModeCards {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.viewMode = mode
	total := e.totalPagesLocked(len(e.filteredLocked()))
	e.page = clamp(e.page, 1, total)
}

// Refresh はコレクションの変化に合わせて現在ページを丸め直します。
// Store の購読コールバックとして登録されることを想定しています。
func (e *Engine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := e.totalPagesLocked(len(e.filteredLocked()))
	e.page = clamp(e.page, 1, total)
}

// ViewMode は現在の表示モードを返します。
func (e *Engine) ViewMode() ViewMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewMode
}

// EffectivePageSize は表示モードに応じた実効ページサイズを返します。
func (e *Engine) EffectivePageSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effectivePageSizeLocked()
}

// FilteredView は生きたコレクションへ自由検索と構造化フィルタを適用した
// 結果を挿入順で返します。
func (e *Engine) FilteredView() []*employee.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filteredLocked()
}

// CurrentPage は現在のフィルタ結果に対してページ番号を丸め直した上で、
// 該当ページのスライスとページング情報を返します。
func (e *Engine) CurrentPage() PageResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := e.filteredLocked()
	size := e.effectivePageSizeLocked()
	total := e.totalPagesLocked(len(filtered))
	e.page = clamp(e.page, 1, total)

	return PageResult{
		Items:      pageSlice(filtered, e.page, size),
		Total:      len(filtered),
		Page:       e.page,
		PageSize:   size,
		TotalPages: total,
		ViewMode:   e.viewMode,
	}
}

// TotalPages は現在のフィルタ結果と実効ページサイズに対する総ページ数を
// 返します。空のコレクションでも 1 を下回りません。
func (e *Engine) TotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPagesLocked(len(e.filteredLocked()))
}

// Select は指定 ID 群を選択集合へ追加します。現在のビューに存在しない ID を
// 渡してもエラーにはなりません。
func (e *Engine) Select(ids ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range ids {
		e.selected[id] = struct{}{}
	}
}

// SelectAll は渡されたページ内の全レコードを選択集合へ追加します。
func (e *Engine) SelectAll(items []*employee.Employee) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range items {
		e.selected[item.ID] = struct{}{}
	}
}

// ToggleSelect は 1 件の選択状態を反転します。
func (e *Engine) ToggleSelect(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return
	}
	e.selected[id] = struct{}{}
}

// Selected は選択中の ID をソート済みで返します。
func (e *Engine) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearSelection は選択集合を空にします。
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = make(map[string]struct{})
}

// BulkDelete は選択中の各 ID を Source から削除し、選択集合を空にします。
// 選択が 2 件未満の場合は何も削除せず ErrSelectionTooSmall を返します。
// 削除を試みた件数を返します。
func (e *Engine) BulkDelete() (int, error) {
	e.mu.Lock()
	if len(e.selected) < 2 {
		e.mu.Unlock()
		return 0, ErrSelectionTooSmall
	}

	ids := make([]string, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	e.selected = make(map[string]struct{})
	e.mu.Unlock()

	for _, id := range ids {
		e.source.Remove(id)
	}
	return len(ids), nil
}

// UniqueValues は指定フィールドの重複しない非空の値を、フィルタや
// ページングを無視した全コレクションからソート済みで返します。
// フィルタ用ドロップダウンの選択肢に使います。
func (e *Engine) UniqueValues(field string) []string {
	seen := make(map[string]struct{})
	for _, item := range e.source.All() {
		value := item.FieldValue(field)
		if value == "" {
			continue
		}
		seen[value] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func (e *Engine) effectivePageSizeLocked() int {
	if e.viewMode == ViewModeCards {
		return e.cardsPageSize
	}
	return e.tablePageSize
}

func (e *Engine) totalPagesLocked(totalItems int) int {
	size := e.effectivePageSizeLocked()
	pages := (totalItems + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

func (e *Engine) filteredLocked() []*employee.Employee {
	all := e.source.All()

	if e.search == "" && e.filters.isZero() {
		return all
	}

	filtered := make([]*employee.Employee, 0, len(all))
	for _, item := range all {
		if !matchesSearch(item, e.search) {
			continue
		}
		if !matchesFilters(item, e.filters) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// matchesSearch は空のクエリを全通過とし、それ以外は 6 つのフィールドの
// いずれかへの大文字小文字を区別しない部分一致を要求します。
func matchesSearch(item *employee.Employee, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	for _, value := range []string{
		item.FirstName,
		item.LastName,
		item.Email,
		item.Phone,
		string(item.Department),
		string(item.Position),
	} {
		if strings.Contains(strings.ToLower(value), q) {
			return true
		}
	}
	return false
}

func matchesFilters(item *employee.Employee, f Filters) bool {
	if !containsFold(item.FirstName, f.FirstName) {
		return false
	}
	if !containsFold(item.LastName, f.LastName) {
		return false
	}
	if !containsFold(item.Email, f.Email) {
		return false
	}
	if f.Phone != "" && !strings.Contains(employee.DigitsOnly(item.Phone), employee.DigitsOnly(f.Phone)) {
		return false
	}
	if f.Department != "" && string(item.Department) != f.Department {
		return false
	}
	if f.Position != "" && string(item.Position) != f.Position {
		return false
	}
	if !inDateRange(item.EmploymentDate, f.EmploymentFrom, f.EmploymentTo) {
		return false
	}
	if !inDateRange(item.BirthDate, f.BirthFrom, f.BirthTo) {
		return false
	}
	return true
}

func containsFold(value, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

// inDateRange は YYYY-MM-DD 文字列の辞書順比較で範囲判定を行います。
// 空の境界は無制約です。
func inDateRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func pageSlice(items []*employee.Employee, page, size int) []*employee.Employee {
	start := (page - 1) * size
	if start >= len(items) {
		return []*employee.Employee{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
