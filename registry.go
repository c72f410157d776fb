// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import "sync"

// StatisticRegistry resolves a statistic name to its Statistic instance.
// Two lookups of the same name return the same instance: Statistic
// equality is by identity, not by value. Parametric percentile
// statistics ("tp33.3") are created on first lookup and memoized.
type StatisticRegistry struct {
	mu         sync.Mutex
	statistics map[string]Statistic
}

// defaultRegistry is the process-wide registry; Lookup and MustLookup use
// it unless a caller constructs its own via NewStatisticRegistry (tests do
// this to avoid cross-test memoization bleed).
var defaultRegistry = NewStatisticRegistry()

// NewStatisticRegistry returns a registry pre-seeded with the built-in
// statistics.
func NewStatisticRegistry() *StatisticRegistry {
	r := &StatisticRegistry{statistics: make(map[string]Statistic, 16)}
	r.statistics[StatMin.Name()] = StatMin
	r.statistics[StatMax.Name()] = StatMax
	r.statistics[StatSum.Name()] = StatSum
	r.statistics[StatCount.Name()] = StatCount
	r.statistics[StatMean.Name()] = StatMean
	r.statistics[StatHistogram.Name()] = StatHistogram
	registerBuiltinPercentiles(r)
	return r
}

// Lookup resolves name to a Statistic, creating and memoizing a parametric
// percentile statistic on demand if name parses as "tpNN[.N]" and isn't
// already registered. It returns ok=false for an unrecognized name.
func (r *StatisticRegistry) Lookup(name string) (Statistic, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.statistics[name]; ok {
		return s, true
	}
	if percent, ok := parsePercentileName(name); ok {
		s := newPercentileStatistic(name, percent)
		r.statistics[name] = s
		return s, true
	}
	return nil, false
}

// MustLookup panics if name is not a recognized statistic. It exists for
// configuration-time wiring (NewOptions defaults), never on the record hot
// path.
func (r *StatisticRegistry) MustLookup(name string) Statistic {
	s, ok := r.Lookup(name)
	if !ok {
		panic("aggregator: unknown statistic " + name)
	}
	return s
}

// Lookup resolves a statistic name against the process-wide default
// registry.
func Lookup(name string) (Statistic, bool) { return defaultRegistry.Lookup(name) }

// closure computes the transitive dependency set of stats, excluding any
// statistic already present in stats itself.
func closure(stats []Statistic) []Statistic {
	specified := make(map[Statistic]bool, len(stats))
	for _, s := range stats {
		specified[s] = true
	}
	seen := make(map[Statistic]bool)
	var out []Statistic
	var visit func(s Statistic)
	visit = func(s Statistic) {
		for _, d := range s.Dependencies() {
			if seen[d] {
				continue
			}
			seen[d] = true
			visit(d)
			if !specified[d] {
				out = append(out, d)
			}
		}
	}
	for _, s := range stats {
		visit(s)
	}
	return out
}

// topoOrder returns stats plus their full transitive dependency closure,
// ordered so that every statistic appears after all of its dependencies.
// The built-in set is acyclic by construction. A cycle does not loop
// forever (each statistic is marked visited before its dependencies are
// walked), but the returned order then places some statistic before one
// of its dependencies.
func topoOrder(stats []Statistic) []Statistic {
	visited := make(map[Statistic]bool)
	var order []Statistic
	var visit func(s Statistic)
	visit = func(s Statistic) {
		if visited[s] {
			return
		}
		visited[s] = true
		for _, d := range s.Dependencies() {
			visit(d)
		}
		order = append(order, s)
	}
	for _, s := range stats {
		visit(s)
	}
	return order
}
