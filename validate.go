// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// labelNameRE constrains Record dimension keys at ingestion. Metric names
// are not constrained here: a metric name is free-form at ingestion, and
// sinks.PrometheusSink sanitizes it for exposition on its own terms when
// republishing, rather than ingestion rejecting names a non-Prometheus
// sink would have happily accepted.
var labelNameRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

// getValidator returns the package-wide validator.Validate singleton,
// registering the "finite" tag used by quantityValidation.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
		_ = validatorInstance.RegisterValidation("finite", validateFinite)
	})
	return validatorInstance
}

func validateFinite(fl validator.FieldLevel) bool {
	return isFinite(fl.Field().Float())
}

// quantityValidation is the struct go-playground/validator actually
// validates; Record.Metrics is shaped for ergonomic construction, not for
// direct struct-tag validation, so each inbound Quantity is projected into
// this small shape at the ingestion boundary.
type quantityValidation struct {
	Value float64 `validate:"finite"`
}

// validateRecord checks record-level structural validity and filters
// individual bad samples out of r.Metrics. A nil err means the record is
// routable; metrics holds r.Metrics with every non-finite sample removed
// (and any metric left with zero samples dropped entirely), and dropped
// is how many samples were removed this way. A non-nil err means the
// record itself cannot be routed at all (missing or malformed
// dimensions) and must be rejected whole, since there is no key to file
// partial data under.
func validateRecord(r Record) (metrics map[string]Metric, dropped int, err error) {
	if r.Dimensions == nil {
		return nil, 0, ErrNilDimensions
	}
	for k := range r.Dimensions {
		if !labelNameRE.MatchString(k) {
			return nil, 0, ErrInvalidName
		}
	}

	v := getValidator()
	metrics = make(map[string]Metric, len(r.Metrics))
	for name, m := range r.Metrics {
		values := make([]Quantity, 0, len(m.Values))
		for _, q := range m.Values {
			if verr := v.Struct(quantityValidation{Value: q.Value}); verr != nil {
				dropped++
				continue
			}
			values = append(values, q)
		}
		if len(values) == 0 {
			continue
		}
		metrics[name] = Metric{Type: m.Type, Values: values}
	}
	return metrics, dropped, nil
}
