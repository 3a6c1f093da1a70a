package megazord_test

import (
	"errors"
	"testing"

	"github.com/MrWong99/intentbridge/pkg/megazord"
	"github.com/MrWong99/intentbridge/pkg/megazord/megazordtest"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// wellTyped builds a payload of the type tag names, or reports false for
// unknown tags.
func wellTyped(tag int32, s string, f float64) (megazord.CSlotValue, bool) {
	switch ontology.Kind(tag) {
	case ontology.KindCustom:
		return megazordtest.Custom(s), true
	case ontology.KindNumber:
		return megazordtest.Number(f), true
	case ontology.KindOrdinal:
		return megazordtest.Ordinal(int32(f)), true
	case ontology.KindInstantTime:
		return megazordtest.InstantTime(s, megazord.GrainMinute, megazord.PrecisionApproximate), true
	case ontology.KindTimeInterval:
		return megazordtest.TimeInterval(&s, nil), true
	case ontology.KindAmountOfMoney:
		return megazordtest.AmountOfMoney(float32(f), megazord.PrecisionExact, &s), true
	case ontology.KindTemperature:
		return megazordtest.Temperature(float32(f), &s), true
	case ontology.KindDuration:
		return megazordtest.Duration(megazord.CDurationValue{Days: int64(f), Precision: megazord.PrecisionExact}), true
	}
	return megazord.CSlotValue{}, false
}

func FuzzDecodeSlotValue(f *testing.F) {
	for _, k := range ontology.Kinds() {
		f.Add(int32(k), true, "value", 1.5)
		f.Add(int32(k), false, "", 0.0)
	}
	for _, tag := range []int32{0, 9, 99, 255, -1} {
		f.Add(tag, true, "value", 1.0)
		f.Add(tag, false, "", 0.0)
	}

	f.Fuzz(func(t *testing.T, tag int32, withPayload bool, s string, n float64) {
		in, known := wellTyped(tag, s, n)
		if !known || !withPayload {
			// Unknown tags must be rejected without reading the payload, so
			// a nil payload is safe for every tag here.
			in = megazordtest.Raw(megazord.CSlotValueType(tag), nil)
		}

		got, err := megazord.DecodeSlotValue(in)
		switch {
		case !known:
			if !errors.Is(err, ontology.ErrUnknownDiscriminant) || got != nil {
				t.Fatalf("tag %d: got (%v, %v), want UnknownDiscriminant", tag, got, err)
			}
		case !withPayload:
			if !errors.Is(err, ontology.ErrNullPointer) || got != nil {
				t.Fatalf("tag %d: got (%v, %v), want NullPointer", tag, got, err)
			}
		default:
			if err != nil {
				t.Fatalf("tag %d: unexpected error %v", tag, err)
			}
			if got.Kind() != ontology.Kind(tag) {
				t.Fatalf("tag %d decoded as %v", tag, got.Kind())
			}
		}
	})
}
