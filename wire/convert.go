// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"fmt"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	"github.com/flowstat/aggregator"
)

// FromPeriodicData converts a core PeriodicData into its wire shape,
// flattening each AggregatedData's supporting data into the wire Value's
// histogram fields when present.
func FromPeriodicData(d aggregator.PeriodicData) PeriodicData {
	out := PeriodicData{
		Period:      d.Period,
		PeriodStart: d.PeriodStart,
		Key:         string(d.Key),
		Data:        make([]AggregatedData, 0, len(d.Data)),
	}
	for _, ad := range d.Data {
		out.Data = append(out.Data, AggregatedData{
			MetricName: ad.MetricName,
			Statistic:  ad.Statistic,
			Value:      toWireValue(ad),
		})
	}
	return out
}

func toWireValue(ad aggregator.AggregatedData) Value {
	v := Value{Value: ad.Quantity.Value, Unit: int32(ad.Quantity.Unit)}
	hist, ok := ad.SupportingData.(aggregator.HistogramSupportingData)
	if !ok {
		return v
	}
	var cumulative uint64
	for _, b := range hist.Snapshot.Buckets() {
		cumulative += uint64(b.Count)
		v.Buckets = append(v.Buckets, Bucket{UpperBound: b.Key, CumulativeCount: cumulative})
	}
	v.SampleCount = uint64(hist.Snapshot.EntriesCount())
	return v
}

// ToMetricFamilies republishes a wire PeriodicData as Prometheus
// client_model MetricFamily messages, one family per (metric, statistic)
// pair, labeled with the record's flattened dimension key.
func ToMetricFamilies(d PeriodicData) []*dto.MetricFamily {
	families := make([]*dto.MetricFamily, 0, len(d.Data))
	for _, ad := range d.Data {
		name := fmt.Sprintf("%s_%s", ad.MetricName, ad.Statistic)
		label := &dto.LabelPair{Name: ptrStr("key"), Value: ptrStr(d.Key)}

		if len(ad.Value.Buckets) > 0 {
			h := &dto.Histogram{
				SampleCount: ptrUint64(ad.Value.SampleCount),
				SampleSum:   ptrFloat(ad.Value.Value),
			}
			for _, b := range ad.Value.Buckets {
				h.Bucket = append(h.Bucket, &dto.Bucket{
					UpperBound:      ptrFloat(b.UpperBound),
					CumulativeCount: ptrUint64(b.CumulativeCount),
				})
			}
			families = append(families, &dto.MetricFamily{
				Name: ptrStr(name),
				Type: dto.MetricType_HISTOGRAM.Enum(),
				Metric: []*dto.Metric{{
					Label:     []*dto.LabelPair{label},
					Histogram: h,
				}},
			})
			continue
		}

		families = append(families, &dto.MetricFamily{
			Name: ptrStr(name),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{
				Label: []*dto.LabelPair{label},
				Gauge: &dto.Gauge{Value: ptrFloat(ad.Value.Value)},
			}},
		})
	}
	return families
}

// Marshal proto-encodes families for wire transport, each length-prefixed
// with a varint so a stream of families can be read back with Unmarshal
// without framing of its own.
func Marshal(families []*dto.MetricFamily) ([]byte, error) {
	var out []byte
	for _, f := range families {
		b, err := proto.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("wire: marshal family %s: %w", f.GetName(), err)
		}
		out = protowire.AppendVarint(out, uint64(len(b)))
		out = append(out, b...)
	}
	return out, nil
}

// Unmarshal decodes a byte stream produced by Marshal back into
// MetricFamily messages.
func Unmarshal(data []byte) ([]*dto.MetricFamily, error) {
	var families []*dto.MetricFamily
	for len(data) > 0 {
		n, nn := protowire.ConsumeVarint(data)
		if nn < 0 {
			return nil, fmt.Errorf("wire: malformed length prefix")
		}
		data = data[nn:]
		if uint64(len(data)) < n {
			return nil, fmt.Errorf("wire: truncated family payload")
		}
		f := &dto.MetricFamily{}
		if err := proto.Unmarshal(data[:n], f); err != nil {
			return nil, fmt.Errorf("wire: unmarshal family: %w", err)
		}
		families = append(families, f)
		data = data[n:]
	}
	return families, nil
}

func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }
func ptrUint64(u uint64) *uint64  { return &u }
