// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregator

import "fmt"

// Unit is a physical unit a Quantity may carry. Conversion between units
// outside the same family fails; within a family the value is rescaled.
type Unit int32

const (
	// UnitNone marks a dimensionless quantity.
	UnitNone Unit = iota

	// Byte-family units.
	UnitByte
	UnitKilobyte
	UnitMegabyte
	UnitGigabyte

	// Time-family units.
	UnitNanosecond
	UnitMicrosecond
	UnitMillisecond
	UnitSecond

	// Fraction-family units.
	UnitFraction
	UnitPercent
)

func (u Unit) String() string {
	switch u {
	case UnitByte:
		return "byte"
	case UnitKilobyte:
		return "kilobyte"
	case UnitMegabyte:
		return "megabyte"
	case UnitGigabyte:
		return "gigabyte"
	case UnitNanosecond:
		return "nanosecond"
	case UnitMicrosecond:
		return "microsecond"
	case UnitMillisecond:
		return "millisecond"
	case UnitSecond:
		return "second"
	case UnitFraction:
		return "fraction"
	case UnitPercent:
		return "percent"
	default:
		return "none"
	}
}

// unitFamily groups units that can be converted into one another.
func (u Unit) family() int {
	switch u {
	case UnitByte, UnitKilobyte, UnitMegabyte, UnitGigabyte:
		return 1
	case UnitNanosecond, UnitMicrosecond, UnitMillisecond, UnitSecond:
		return 2
	case UnitFraction, UnitPercent:
		return 3
	default:
		return 0
	}
}

// baseFactor returns the multiplier that converts a value in u to the
// family's base unit (bytes, nanoseconds, fraction respectively).
func (u Unit) baseFactor() float64 {
	switch u {
	case UnitByte, UnitNanosecond, UnitFraction, UnitNone:
		return 1
	case UnitKilobyte:
		return 1 << 10
	case UnitMegabyte:
		return 1 << 20
	case UnitGigabyte:
		return 1 << 30
	case UnitMicrosecond:
		return 1e3
	case UnitMillisecond:
		return 1e6
	case UnitSecond:
		return 1e9
	case UnitPercent:
		return 0.01
	default:
		return 1
	}
}

// Convert rescales value, expressed in u, into the target unit. It fails
// when the two units belong to different families.
func (u Unit) Convert(value float64, target Unit) (float64, error) {
	if u == target {
		return value, nil
	}
	if u.family() != target.family() || u.family() == 0 {
		return 0, fmt.Errorf("%w: cannot convert %s to %s", ErrIncompatibleUnit, u, target)
	}
	base := value * u.baseFactor()
	return base / target.baseFactor(), nil
}

// Quantity is a scalar measurement with an optional unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Q is a convenience constructor for a dimensionless Quantity.
func Q(value float64) Quantity {
	return Quantity{Value: value}
}

// QU constructs a Quantity with an explicit unit.
func QU(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// Equal compares two quantities by value and unit.
func (q Quantity) Equal(o Quantity) bool {
	return q.Value == o.Value && q.Unit == o.Unit
}

// ConvertTo returns q rescaled into unit, failing on incompatible families.
func (q Quantity) ConvertTo(unit Unit) (Quantity, error) {
	v, err := q.Unit.Convert(q.Value, unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: unit}, nil
}
