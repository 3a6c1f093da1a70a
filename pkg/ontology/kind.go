package ontology

import "strconv"

// Kind identifies the variant of a [SlotValue].
//
// The numeric values are the engine's slot value discriminants and the names
// are the hermes JSON "kind" strings. Both wire surfaces derive their tables
// from this single definition.
type Kind int32

const (
	KindCustom Kind = iota + 1
	KindNumber
	KindOrdinal
	KindInstantTime
	KindTimeInterval
	KindAmountOfMoney
	KindTemperature
	KindDuration
)

// KindCount is the number of known slot value kinds. Valid kinds are
// 1..KindCount inclusive.
const KindCount = int(KindDuration)

var kindNames = [KindCount + 1]string{
	KindCustom:        "Custom",
	KindNumber:        "Number",
	KindOrdinal:       "Ordinal",
	KindInstantTime:   "InstantTime",
	KindTimeInterval:  "TimeInterval",
	KindAmountOfMoney: "AmountOfMoney",
	KindTemperature:   "Temperature",
	KindDuration:      "Duration",
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k >= KindCustom && k <= KindDuration
}

// String returns the hermes name of k, or "Kind(n)" for unknown values.
func (k Kind) String() string {
	if !k.IsValid() {
		return "Kind(" + strconv.FormatInt(int64(k), 10) + ")"
	}
	return kindNames[k]
}

// ParseKind maps a hermes kind name to its Kind. The second result is false
// for unknown names.
func ParseKind(name string) (Kind, bool) {
	for k := KindCustom; k <= KindDuration; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns every known kind in discriminant order.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount)
	for k := KindCustom; k <= KindDuration; k++ {
		out = append(out, k)
	}
	return out
}

// Grain is the temporal resolution of a parsed time expression.
type Grain int32

const (
	GrainYear Grain = iota
	GrainQuarter
	GrainMonth
	GrainWeek
	GrainDay
	GrainHour
	GrainMinute
	GrainSecond
)

// GrainCount is the number of known grains. Valid grains are 0..GrainCount-1.
const GrainCount = int(GrainSecond) + 1

var grainNames = [GrainCount]string{
	GrainYear:    "Year",
	GrainQuarter: "Quarter",
	GrainMonth:   "Month",
	GrainWeek:    "Week",
	GrainDay:     "Day",
	GrainHour:    "Hour",
	GrainMinute:  "Minute",
	GrainSecond:  "Second",
}

// IsValid reports whether g is one of the known grains.
func (g Grain) IsValid() bool {
	return g >= GrainYear && g <= GrainSecond
}

func (g Grain) String() string {
	if !g.IsValid() {
		return "Grain(" + strconv.FormatInt(int64(g), 10) + ")"
	}
	return grainNames[g]
}

// ParseGrain maps a hermes grain name to its Grain.
func ParseGrain(name string) (Grain, bool) {
	for i, n := range grainNames {
		if n == name {
			return Grain(i), true
		}
	}
	return 0, false
}

// Precision tells whether a parsed value is exact or approximate.
type Precision int32

const (
	PrecisionApproximate Precision = iota
	PrecisionExact
)

// PrecisionCount is the number of known precisions.
const PrecisionCount = int(PrecisionExact) + 1

var precisionNames = [PrecisionCount]string{
	PrecisionApproximate: "Approximate",
	PrecisionExact:       "Exact",
}

// IsValid reports whether p is one of the known precisions.
func (p Precision) IsValid() bool {
	return p == PrecisionApproximate || p == PrecisionExact
}

func (p Precision) String() string {
	if !p.IsValid() {
		return "Precision(" + strconv.FormatInt(int64(p), 10) + ")"
	}
	return precisionNames[p]
}

// ParsePrecision maps a hermes precision name to its Precision.
func ParsePrecision(name string) (Precision, bool) {
	for i, n := range precisionNames {
		if n == name {
			return Precision(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler so that YAML and JSON dumps
// of the model show names instead of numbers.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (g Grain) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (p Precision) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
