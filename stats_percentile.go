// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"strconv"
	"strings"
)

// percentileStatistic depends on StatHistogram: its Calculate reads the
// histogram dependency's Calculator and asks for the value at Percent.
type percentileStatistic struct {
	baseStatistic
	percent float64
}

func newPercentileStatistic(name string, percent float64) Statistic {
	return &percentileStatistic{
		baseStatistic: baseStatistic{name: name, deps: []Statistic{StatHistogram}},
		percent:       percent,
	}
}

func (s *percentileStatistic) NewAccumulator() Accumulator {
	return &percentileAccumulator{stat: s}
}

// percentileAccumulator never accumulates directly — all mass flows through
// its histogram dependency — but it must satisfy Accumulator so the bucket
// can treat specified and dependent statistics uniformly.
type percentileAccumulator struct {
	stat *percentileStatistic
}

func (a *percentileAccumulator) Accumulate(Quantity) error            { return nil }
func (a *percentileAccumulator) AccumulateValue(CalculatedValue) error { return nil }

func (a *percentileAccumulator) Calculate(deps map[Statistic]Calculator) CalculatedValue {
	histCalc, ok := deps[StatHistogram]
	if !ok {
		return CalculatedValue{}
	}
	histVal := histCalc.Calculate(nil)
	data, _ := histVal.Data.(HistogramSupportingData)
	return CalculatedValue{
		Value: Quantity{Value: data.Snapshot.ValueAtPercentile(a.stat.percent), Unit: data.Unit},
		Data:  data,
	}
}

// percentileName formats a percentile statistic name the conventional way:
// tp50, tp99, tp99.9, dropping a trailing ".0".
func percentileName(percent float64) string {
	s := strconv.FormatFloat(percent, 'f', -1, 64)
	return "tp" + s
}

// parsePercentileName extracts the percent value from a "tpNN[.N]" name, or
// reports ok=false if name doesn't match that shape.
func parsePercentileName(name string) (float64, bool) {
	if !strings.HasPrefix(name, "tp") {
		return 0, false
	}
	v, err := strconv.ParseFloat(name[2:], 64)
	if err != nil || v <= 0 || v > 100 {
		return 0, false
	}
	return v, true
}

var builtinPercentiles = []float64{50, 75, 90, 95, 99, 99.9}

// registerBuiltinPercentiles seeds the registry's memoization cache with the
// standard percentile set, so Lookup never needs to parse "tp50" et al.
// on the hot path.
func registerBuiltinPercentiles(r *StatisticRegistry) {
	for _, p := range builtinPercentiles {
		name := percentileName(p)
		r.statistics[name] = newPercentileStatistic(name, p)
	}
}
