// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

// CalculatedValue is the result a Calculator produces: a Quantity plus
// optional statistic-specific supporting data, e.g. a percentile's
// histogram snapshot.
type CalculatedValue struct {
	Value Quantity
	Data  any
}

// Calculator produces a CalculatedValue from the calculators of its
// declared dependencies. A dependent statistic is handed the
// dependency's Calculator instance — not a bare value — so it can
// inspect richer state (a percentile reads the histogram's full
// distribution, not just its count).
type Calculator interface {
	Calculate(deps map[Statistic]Calculator) CalculatedValue
}

// Accumulator is a Calculator that also ingests samples. Two ingestion
// paths exist: raw quantities observed directly, and precomputed
// CalculatedValues merged in from an upstream aggregator tier.
type Accumulator interface {
	Calculator
	Accumulate(Quantity) error
	AccumulateValue(CalculatedValue) error
}

// Statistic is the identity and capability set of one named statistic.
// Statistic equality is by identity (name): two registry lookups of the
// same name return the same instance.
type Statistic interface {
	Name() string
	Dependencies() []Statistic
	NewAccumulator() Accumulator
}

// baseStatistic implements the identity/dependency half of Statistic; each
// concrete statistic embeds it and supplies NewAccumulator.
type baseStatistic struct {
	name string
	deps []Statistic
}

func (s *baseStatistic) Name() string { return s.name }

func (s *baseStatistic) Dependencies() []Statistic {
	if len(s.deps) == 0 {
		return nil
	}
	out := make([]Statistic, len(s.deps))
	copy(out, s.deps)
	return out
}
