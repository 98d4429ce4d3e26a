package metrics

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordCacheHitAndMiss(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCacheHit("sportsfeed")
		RecordCacheMiss("sportsfeed")
	})
}

func TestObserveFetchDuration(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		ObserveFetchDuration("sportsfeed", "schedule", 120*time.Millisecond)
	})
}

func TestRecordStreamMessage(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordStreamMessage("score_update")
		RecordStreamReconnect()
	})
}

func TestUpdateBacktestAccuracy(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		accuracy float64
	}{
		{
			name:     "perfect accuracy",
			accuracy: 1.0,
		},
		{
			name:     "partial accuracy",
			accuracy: 0.625,
		},
		{
			name:     "zero accuracy",
			accuracy: 0,
		},
		{
			name:     "undefined accuracy",
			accuracy: math.NaN(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBacktestAccuracy(tt.accuracy)
			})
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func TestRunMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBacktestRun("backtest", "success")
	})

	assert.NotPanics(t, func() {
		RecordMatchupResult("correct")
	})

	assert.NotPanics(t, func() {
		RecordBacktestDuration(12.5)
	})

	assert.NotPanics(t, func() {
		UpdateGameDaysResolved(5)
	})
}

func TestWeightMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateStatWeight("pts", 1.1)
	})

	assert.NotPanics(t, func() {
		RecordWeightRefinement()
	})
}

func BenchmarkRecordMatchupResult(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordMatchupResult("correct")
	}
}

func BenchmarkUpdateBacktestAccuracy(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		UpdateBacktestAccuracy(0.625)
	}
}
