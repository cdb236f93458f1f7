// Package tripmetrics computes distance and fuel figures for the legs of a
// freight trip. A trip's odometer and pump totals are known; fuel is
// attributed to each leg in proportion to the distance it covers.
package tripmetrics

import "math"

// LegStatus says whether a leg ran loaded or empty. The values match the
// ones stored in trip records.
type LegStatus string

const (
	StatusLoaded LegStatus = "CARREGADO"
	StatusEmpty  LegStatus = "VAZIO"
)

// Leg is one stretch of a trip between two odometer readings.
type Leg struct {
	ID      string
	Status  LegStatus
	StartKm float64
	EndKm   float64
}

// Metrics aggregates a trip's legs by status. Averages are km per liter,
// rounded to two decimals; zero when the inputs cannot support a figure.
type Metrics struct {
	LoadedKm     float64
	EmptyKm      float64
	LoadedLiters float64
	EmptyLiters  float64

	LoadedAverage  float64
	EmptyAverage   float64
	OverallAverage float64
}

// Distance returns the leg's length in km. A reading that runs backwards
// counts as zero.
func (l Leg) Distance() float64 {
	return math.Max(0, l.EndKm-l.StartKm)
}

// FuelForLeg returns the fuel a leg of legKm is expected to burn at the
// given overall average (km per liter). A non-positive average yields zero.
func FuelForLeg(legKm, overallAverage float64) float64 {
	if overallAverage <= 0 {
		return 0
	}
	return legKm / overallAverage
}

// Aggregate splits the trip totals across loaded and empty legs. Liters are
// distributed proportionally to the distance each group covered.
func Aggregate(legs []Leg, totalLiters, totalKm float64) Metrics {
	var loadedKm, emptyKm float64
	for _, l := range legs {
		switch l.Status {
		case StatusLoaded:
			loadedKm += l.Distance()
		case StatusEmpty:
			emptyKm += l.Distance()
		}
	}

	m := Metrics{LoadedKm: loadedKm, EmptyKm: emptyKm}

	if totalLiters > 0 && totalKm > 0 {
		m.OverallAverage = round2(totalKm / totalLiters)
	}

	if totalKm > 0 {
		m.LoadedLiters = totalLiters * (loadedKm / totalKm)
		m.EmptyLiters = totalLiters * (emptyKm / totalKm)
	}

	if m.LoadedLiters > 0 && loadedKm > 0 {
		m.LoadedAverage = round2(loadedKm / m.LoadedLiters)
	}
	if m.EmptyLiters > 0 && emptyKm > 0 {
		m.EmptyAverage = round2(emptyKm / m.EmptyLiters)
	}

	return m
}

// DistributeFuelByLeg returns the expected fuel per leg id at the given
// overall average.
func DistributeFuelByLeg(legs []Leg, overallAverage float64) map[string]float64 {
	out := make(map[string]float64, len(legs))
	for _, l := range legs {
		out[l.ID] = FuelForLeg(l.Distance(), overallAverage)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
