package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports live colony gauges and event counters to Prometheus.
type Metrics struct {
	population    *prometheus.GaugeVec
	antStates     *prometheus.GaugeVec
	foodStore     prometheus.Gauge
	foodAvailable prometheus.Gauge
	phase         prometheus.Gauge
	phaseProgress prometheus.Gauge
	colonyDay     prometheus.Gauge
	disasters     *prometheus.GaugeVec
	speed         prometheus.Gauge

	eggsLaid  prometheus.Counter
	hatched   prometheus.Counter
	deaths    *prometheus.CounterVec
	delivered prometheus.Counter
	ticks     prometheus.Counter

	tickDuration prometheus.Histogram
}

// NewMetrics creates the colony metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population",
			Help:      "Live entities by kind.",
		}, []string{"kind"}),
		antStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ant_state",
			Help:      "Workers in each behavior state.",
		}, []string{"state"}),
		foodStore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "food_store",
			Help:      "Food held in the colony store.",
		}),
		foodAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "food_sources_available",
			Help:      "Food sources currently available.",
		}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase",
			Help:      "Colony development phase index.",
		}),
		phaseProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_progress",
			Help:      "Progress toward the next phase in [0,1].",
		}),
		colonyDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "colony_day",
			Help:      "Simulated colony days elapsed.",
		}),
		disasters: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disaster_remaining_seconds",
			Help:      "Remaining active time per disaster kind, 0 when inactive.",
		}, []string{"kind"}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speed_multiplier",
			Help:      "Current simulation speed multiplier, 0 while paused.",
		}),
		eggsLaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eggs_laid_total",
			Help:      "Eggs laid by the queen.",
		}),
		hatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eggs_hatched_total",
			Help:      "Eggs hatched into workers.",
		}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ant_deaths_total",
			Help:      "Ant deaths by cause.",
		}, []string{"cause"}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_delivered_total",
			Help:      "Food delivered to the colony store.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks executed.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent per simulation tick.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
	}

	reg.MustRegister(
		m.population, m.antStates, m.foodStore, m.foodAvailable,
		m.phase, m.phaseProgress, m.colonyDay, m.disasters, m.speed,
		m.eggsLaid, m.hatched, m.deaths, m.delivered, m.ticks,
		m.tickDuration,
	)
	return m
}

// Gauges is the point-in-time colony state pushed to the exporter.
type Gauges struct {
	Workers, Eggs, Invasives, Food int
	QueenAlive                     bool
	States                         map[string]int
	FoodStore                      float64
	FoodAvailable                  int
	Phase                          int
	PhaseProgress                  float64
	Day                            float64
	Disasters                      map[string]float64
	Speed                          float64
}

// Observe updates every gauge from g.
func (m *Metrics) Observe(g Gauges) {
	if m == nil {
		return
	}
	queen := 0.0
	if g.QueenAlive {
		queen = 1
	}
	m.population.WithLabelValues("worker").Set(float64(g.Workers))
	m.population.WithLabelValues("queen").Set(queen)
	m.population.WithLabelValues("egg").Set(float64(g.Eggs))
	m.population.WithLabelValues("invasive").Set(float64(g.Invasives))
	m.population.WithLabelValues("food").Set(float64(g.Food))
	for state, n := range g.States {
		m.antStates.WithLabelValues(state).Set(float64(n))
	}
	m.foodStore.Set(g.FoodStore)
	m.foodAvailable.Set(float64(g.FoodAvailable))
	m.phase.Set(float64(g.Phase))
	m.phaseProgress.Set(g.PhaseProgress)
	m.colonyDay.Set(g.Day)
	for kind, remaining := range g.Disasters {
		m.disasters.WithLabelValues(kind).Set(remaining)
	}
	m.speed.Set(g.Speed)
}

// EggLaid counts an egg.
func (m *Metrics) EggLaid() {
	if m != nil {
		m.eggsLaid.Inc()
	}
}

// Hatched counts a hatch.
func (m *Metrics) Hatched() {
	if m != nil {
		m.hatched.Inc()
	}
}

// Death counts an ant death.
func (m *Metrics) Death(cause DeathCause) {
	if m != nil {
		m.deaths.WithLabelValues(cause.String()).Inc()
	}
}

// Delivered adds food delivered to the store.
func (m *Metrics) Delivered(amount float32) {
	if m != nil && amount > 0 {
		m.delivered.Add(float64(amount))
	}
}

// Tick counts one tick and its wall duration in seconds.
func (m *Metrics) Tick(seconds float64) {
	if m != nil {
		m.ticks.Inc()
		m.tickDuration.Observe(seconds)
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
