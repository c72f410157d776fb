// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

// meanStatistic computes sum/count at Calculate time rather than
// accumulating incrementally; its accumulator is a thin pass-through that
// delegates ingestion to its dependencies.
type meanStatistic struct {
	baseStatistic
}

// StatMean is the arithmetic mean of a metric's observed values. Its
// dependencies are StatSum and StatCount, computed as sum/count at close.
var StatMean Statistic = newMeanStatistic()

func newMeanStatistic() Statistic {
	return &meanStatistic{baseStatistic{name: "mean", deps: []Statistic{StatSum, StatCount}}}
}

func (s *meanStatistic) NewAccumulator() Accumulator {
	return &meanAccumulator{sum: StatSum.NewAccumulator(), count: StatCount.NewAccumulator()}
}

// meanAccumulator holds no state of its own: Accumulate forwards to an
// internal sum/count pair so mean never needs its own unit bookkeeping.
type meanAccumulator struct {
	sum   Accumulator
	count Accumulator
}

func (a *meanAccumulator) Accumulate(q Quantity) error {
	if err := a.sum.Accumulate(q); err != nil {
		return err
	}
	return a.count.Accumulate(q)
}

func (a *meanAccumulator) AccumulateValue(c CalculatedValue) error {
	if err := a.sum.AccumulateValue(c); err != nil {
		return err
	}
	return a.count.AccumulateValue(c)
}

// Calculate reads the sum and count Calculators supplied by the bucket's
// dependency-resolution pass (they may be this accumulator's own internal
// pair, or — when mean is itself a dependent of nothing else and declared
// specified alongside a separately-tracked sum/count — the bucket's shared
// instances) and returns sum.value / count.value.
func (a *meanAccumulator) Calculate(deps map[Statistic]Calculator) CalculatedValue {
	sumCalc, sumOK := deps[StatSum]
	countCalc, countOK := deps[StatCount]
	if !sumOK {
		sumCalc = a.sum
	}
	if !countOK {
		countCalc = a.count
	}
	sumVal := sumCalc.Calculate(nil)
	countVal := countCalc.Calculate(nil)
	var mean float64
	if countVal.Value.Value != 0 {
		mean = sumVal.Value.Value / countVal.Value.Value
	}
	return CalculatedValue{Value: Quantity{Value: mean, Unit: sumVal.Value.Unit}}
}
