// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

// HistogramSupportingData is the CalculatedValue.Data payload for the
// histogram statistic: the immutable snapshot plus the unit it was
// recorded in, consumed by dependent percentile statistics.
type HistogramSupportingData struct {
	Snapshot HistogramSnapshot
	Unit     Unit
}

// histogramStatistic has no dependencies; it is the leaf that percentile
// statistics depend on.
type histogramStatistic struct {
	baseStatistic
}

// StatHistogram is the distribution-tracking statistic underlying all
// percentile statistics.
var StatHistogram Statistic = &histogramStatistic{baseStatistic{name: "histogram"}}

func (s *histogramStatistic) NewAccumulator() Accumulator {
	return &histogramAccumulator{hist: NewHistogram()}
}

type histogramAccumulator struct {
	unitLockedAccumulator
	hist *Histogram
}

func (a *histogramAccumulator) Accumulate(q Quantity) error {
	v, err := a.resolve(q)
	if err != nil {
		return err
	}
	a.hist.RecordValue(v, 1)
	return nil
}

// AccumulateValue merges a precomputed histogram snapshot from an upstream
// aggregation tier.
func (a *histogramAccumulator) AccumulateValue(c CalculatedValue) error {
	data, ok := c.Data.(HistogramSupportingData)
	if !ok {
		return nil
	}
	if !a.hasUnit {
		a.hasUnit = true
		a.unit = data.Unit
	}
	a.hist.Add(data.Snapshot)
	return nil
}

func (a *histogramAccumulator) Calculate(map[Statistic]Calculator) CalculatedValue {
	snap := a.hist.Snapshot()
	return CalculatedValue{
		Value: Quantity{Value: float64(snap.EntriesCount()), Unit: a.unit},
		Data:  HistogramSupportingData{Snapshot: snap, Unit: a.unit},
	}
}
