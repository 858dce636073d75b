// Package seed は起動時の初期データ取り込みを行います。取り込みは
// ベストエフォートであり、失敗しても正しさには影響しません。
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ogurasousui/roster/internal/core/employee"
	"github.com/ogurasousui/roster/internal/observability/metrics"
)

const defaultFetchTimeout = 10 * time.Second

// Target は取り込み先となるストアの抽象です。
type Target interface {
	Count() int
	Upsert(employee.Employee) (string, error)
}

// Importer は設定された URL から社員の JSON 配列を取得し、ストアが空の
// 場合に限り 1 件ずつ upsert します。
type Importer struct {
	url    string
	store  Target
	client *http.Client
	logger *slog.Logger
}

// New は Importer を生成します。client が nil の場合はタイムアウト付きの
// 既定クライアントを使用します。
func New(url string, store Target, client *http.Client, logger *slog.Logger) *Importer {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{url: url, store: store, client: client, logger: logger}
}

// Run は取り込みを実行し、upsert に成功した件数を返します。URL が未設定、
// ストアが空でない、取得や解釈に失敗した、のいずれの場合も静かに 0 件で
// 終わります。エンドユーザーへエラーが届くことはありません。
func (i *Importer) Run(ctx context.Context) int {
	if i.url == "" || i.store.Count() > 0 {
		return 0
	}

	records, err := i.fetch(ctx)
	if err != nil {
		i.logger.Warn("seed fetch skipped", slog.String("url", i.url), slog.String("error", err.Error()))
		return 0
	}

	imported := 0
	for _, record := range records {
		record.ID = ""
		record.Email = employee.NormalizeEmail(record.Email)
		if _, err := i.store.Upsert(record); err != nil {
			metrics.ObserveSeedRecord("error")
			i.logger.Warn("seed record skipped", slog.String("email", record.Email), slog.String("error", err.Error()))
			continue
		}
		metrics.ObserveSeedRecord("success")
		imported++
	}

	i.logger.Info("seed import finished", slog.Int("imported", imported), slog.Int("fetched", len(records)))
	return imported
}

func (i *Importer) fetch(ctx context.Context) ([]employee.Employee, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var records []employee.Employee
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}
