package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics("test", registry)

	m.Observe(Gauges{
		Workers:       12,
		Eggs:          3,
		QueenAlive:    true,
		States:        map[string]int{"Foraging": 7, "Resting": 5},
		FoodStore:     42.5,
		FoodAvailable: 9,
		Phase:         1,
		PhaseProgress: 0.4,
		Day:           3.5,
		Disasters:     map[string]float64{"Rain": 12},
		Speed:         5,
	})

	assert.Equal(t, 12.0, testutil.ToFloat64(m.population.WithLabelValues("worker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.population.WithLabelValues("queen")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.antStates.WithLabelValues("Foraging")))
	assert.Equal(t, 42.5, testutil.ToFloat64(m.foodStore))
	assert.Equal(t, 0.4, testutil.ToFloat64(m.phaseProgress))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.disasters.WithLabelValues("Rain")))
}

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics("test", registry)

	m.EggLaid()
	m.EggLaid()
	m.Hatched()
	m.Death(DeathStarved)
	m.Death(DeathOldAge)
	m.Death(DeathOldAge)
	m.Delivered(10)
	m.Delivered(-3) // ignored
	m.Tick(0.001)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eggsLaid))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deaths.WithLabelValues("starved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.deaths.WithLabelValues("old_age")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.delivered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(Gauges{})
		m.EggLaid()
		m.Death(DeathStarved)
		m.Tick(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics("antnest", registry)
	m.EggLaid()

	srv := httptest.NewServer(Handler(registry))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "antnest_eggs_laid_total 1"), "body: %s", body)
}
