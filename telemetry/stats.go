package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated colony statistics for a window of simulated time.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Day             float64 `csv:"day"`

	// Development
	Phase         string  `csv:"phase"`
	PhaseProgress float64 `csv:"phase_progress"`

	// Population at window end
	Workers    int  `csv:"workers"`
	Eggs       int  `csv:"eggs"`
	QueenAlive bool `csv:"queen_alive"`
	Invasives  int  `csv:"invasives"`
	Structures int  `csv:"structures"`

	// Events during window
	EggsLaid      int     `csv:"eggs_laid"`
	Hatched       int     `csv:"hatched"`
	DeathsAge     int     `csv:"deaths_age"`
	DeathsStarved int     `csv:"deaths_starved"`
	Pickups       int     `csv:"pickups"`
	FoodDelivered float64 `csv:"food_delivered"`
	FoodEaten     float64 `csv:"food_eaten_invasive"`
	Transitions   int     `csv:"phase_transitions"`

	// Food
	FoodAvailable int     `csv:"food_available"`
	FoodTotal     int     `csv:"food_total"`
	FoodStore     float64 `csv:"food_store"`

	// Behavior states at window end
	Foraging  int `csv:"foraging"`
	Returning int `csv:"returning"`
	Resting   int `csv:"resting"`
	Digging   int `csv:"digging"`
	Carrying  int `csv:"carrying"`

	// Worker energy distribution
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	AgeMean float64 `csv:"age_mean"`

	// Soil
	MoistureMin   float64 `csv:"moisture_min"`
	MoistureMean  float64 `csv:"moisture_mean"`
	MoistureMax   float64 `csv:"moisture_max"`
	TempMean      float64 `csv:"temperature_mean"`
	NutritionMean float64 `csv:"nutrition_mean"`

	ActiveDisasters string `csv:"active_disasters"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, standard deviation and deciles.
// An empty sample yields zeros.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// Range returns min, mean and max of values, or zeros when empty.
func Range(values []float64) (lo, mean, hi float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	return floats.Min(values), stat.Mean(values, nil), floats.Max(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("day", s.Day),
		slog.String("phase", s.Phase),
		slog.Float64("phase_progress", s.PhaseProgress),
		slog.Int("workers", s.Workers),
		slog.Int("eggs", s.Eggs),
		slog.Bool("queen_alive", s.QueenAlive),
		slog.Int("invasives", s.Invasives),
		slog.Int("structures", s.Structures),
		slog.Int("eggs_laid", s.EggsLaid),
		slog.Int("hatched", s.Hatched),
		slog.Int("deaths_age", s.DeathsAge),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("pickups", s.Pickups),
		slog.Float64("food_delivered", s.FoodDelivered),
		slog.Float64("food_eaten_invasive", s.FoodEaten),
		slog.Int("phase_transitions", s.Transitions),
		slog.Int("food_available", s.FoodAvailable),
		slog.Int("food_total", s.FoodTotal),
		slog.Float64("food_store", s.FoodStore),
		slog.Int("foraging", s.Foraging),
		slog.Int("returning", s.Returning),
		slog.Int("resting", s.Resting),
		slog.Int("digging", s.Digging),
		slog.Int("carrying", s.Carrying),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("moisture_min", s.MoistureMin),
		slog.Float64("moisture_mean", s.MoistureMean),
		slog.Float64("moisture_max", s.MoistureMax),
		slog.Float64("temperature_mean", s.TempMean),
		slog.Float64("nutrition_mean", s.NutritionMean),
		slog.String("active_disasters", s.ActiveDisasters),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
