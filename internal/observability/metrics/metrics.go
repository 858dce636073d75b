// Package metrics は Prometheus メトリクスと kv.Store の計装デコレータを
// 提供します。
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ogurasousui/roster/internal/adapters/kv"
)

var (
	kvOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_kv_operations_total",
		Help: "Count of key-value store operations by operation and result",
	}, []string{"operation", "result"})

	seedImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_seed_records_total",
		Help: "Count of seed records by import result",
	}, []string{"result"})
)

// ObserveSeedRecord は初期データ 1 件の取り込み結果を記録します。
func ObserveSeedRecord(result string) {
	seedImports.WithLabelValues(result).Inc()
}

// InstrumentedKV は下層の kv.Store をラップし、操作数と失敗数を記録します。
type InstrumentedKV struct {
	inner kv.Store
}

// InstrumentKV は計装済みの kv.Store を返します。
func InstrumentKV(inner kv.Store) *InstrumentedKV {
	return &InstrumentedKV{inner: inner}
}

func (m *InstrumentedKV) Get(ctx context.Context, key string, dest any) (bool, error) {
	found, err := m.inner.Get(ctx, key, dest)
	kvOperations.WithLabelValues("get", resultLabel(err)).Inc()
	return found, err
}

func (m *InstrumentedKV) Set(ctx context.Context, key string, value any) error {
	err := m.inner.Set(ctx, key, value)
	kvOperations.WithLabelValues("set", resultLabel(err)).Inc()
	return err
}

func (m *InstrumentedKV) Remove(ctx context.Context, key string) error {
	err := m.inner.Remove(ctx, key)
	kvOperations.WithLabelValues("remove", resultLabel(err)).Inc()
	return err
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
