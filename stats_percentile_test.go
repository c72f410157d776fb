// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePercentileName(t *testing.T) {
	p, ok := parsePercentileName("tp99")
	require.True(t, ok)
	assert.Equal(t, 99.0, p)

	p, ok = parsePercentileName("tp99.9")
	require.True(t, ok)
	assert.Equal(t, 99.9, p)

	_, ok = parsePercentileName("mean")
	assert.False(t, ok)

	_, ok = parsePercentileName("tp0")
	assert.False(t, ok, "percentile must be in (0, 100]")

	_, ok = parsePercentileName("tp101")
	assert.False(t, ok)
}

func TestPercentileNameRoundTrip(t *testing.T) {
	assert.Equal(t, "tp99", percentileName(99))
	assert.Equal(t, "tp99.9", percentileName(99.9))
}

func TestPercentileStatisticReadsHistogramDependency(t *testing.T) {
	histAcc := StatHistogram.NewAccumulator()
	for i := 1; i <= 100; i++ {
		require.NoError(t, histAcc.Accumulate(Q(float64(i))))
	}

	stat := defaultRegistry.MustLookup("tp99")
	pctAcc := stat.NewAccumulator()

	deps := map[Statistic]Calculator{StatHistogram: histAcc}
	result := pctAcc.Calculate(deps)
	assert.InDelta(t, truncate(99), result.Value.Value, 1e-9)
}

func TestPercentileAccumulatorIgnoresDirectAccumulate(t *testing.T) {
	stat := defaultRegistry.MustLookup("tp50")
	acc := stat.NewAccumulator()
	assert.NoError(t, acc.Accumulate(Q(42)))
	assert.NoError(t, acc.AccumulateValue(CalculatedValue{}))
}
