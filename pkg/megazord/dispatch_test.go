package megazord_test

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/megazord"
	"github.com/MrWong99/intentbridge/pkg/megazord/megazordtest"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

func TestDecodeSlotValue_EveryKnownKind(t *testing.T) {
	t.Parallel()
	eur := "€"
	celsius := "celsius"
	from := "2021-03-01 10:00:00 +00:00"

	tests := []struct {
		name string
		in   megazord.CSlotValue
		want ontology.SlotValue
	}{
		{
			name: "custom",
			in:   megazordtest.Custom("Madagascar"),
			want: ontology.CustomValue("Madagascar"),
		},
		{
			name: "number",
			in:   megazordtest.Number(42.5),
			want: ontology.NumberValue(42.5),
		},
		{
			name: "ordinal",
			in:   megazordtest.Ordinal(-3),
			want: ontology.OrdinalValue(-3),
		},
		{
			name: "instant time",
			in:   megazordtest.InstantTime("2021-03-01 00:00:00 +00:00", megazord.GrainDay, megazord.PrecisionExact),
			want: ontology.InstantTimeValue{
				Value:     "2021-03-01 00:00:00 +00:00",
				Grain:     ontology.GrainDay,
				Precision: ontology.PrecisionExact,
			},
		},
		{
			name: "time interval open end",
			in:   megazordtest.TimeInterval(&from, nil),
			want: ontology.TimeIntervalValue{From: &from},
		},
		{
			name: "amount of money",
			in:   megazordtest.AmountOfMoney(12.5, megazord.PrecisionApproximate, &eur),
			want: ontology.AmountOfMoneyValue{Value: 12.5, Precision: ontology.PrecisionApproximate, Unit: &eur},
		},
		{
			name: "temperature without unit",
			in:   megazordtest.Temperature(-4, nil),
			want: ontology.TemperatureValue{Value: -4},
		},
		{
			name: "temperature",
			in:   megazordtest.Temperature(21.5, &celsius),
			want: ontology.TemperatureValue{Value: 21.5, Unit: &celsius},
		},
		{
			name: "duration",
			in: megazordtest.Duration(megazord.CDurationValue{
				Years: 1, Quarters: 2, Months: 3, Weeks: 4, Days: 5, Hours: 6, Minutes: 7, Seconds: 8,
				Precision: megazord.PrecisionExact,
			}),
			want: ontology.DurationValue{
				Years: 1, Quarters: 2, Months: 3, Weeks: 4, Days: 5, Hours: 6, Minutes: 7, Seconds: 8,
				Precision: ontology.PrecisionExact,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := megazord.DecodeSlotValue(tt.in)
			if err != nil {
				t.Fatalf("DecodeSlotValue: %v", err)
			}
			if got.Kind() != ontology.Kind(tt.in.ValueType) {
				t.Errorf("Kind() = %v, want %v", got.Kind(), ontology.Kind(tt.in.ValueType))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeSlotValue = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeSlotValue_TimeIntervalDecodesBothBounds(t *testing.T) {
	t.Parallel()
	from, to := "2021-03-01 10:00:00 +00:00", "2021-03-01 12:00:00 +00:00"
	got, err := megazord.DecodeSlotValue(megazordtest.TimeInterval(&from, &to))
	if err != nil {
		t.Fatalf("DecodeSlotValue: %v", err)
	}
	iv, ok := got.(ontology.TimeIntervalValue)
	if !ok {
		t.Fatalf("got %T, want TimeIntervalValue", got)
	}
	if iv.From == nil || *iv.From != from {
		t.Errorf("From = %v, want %q", iv.From, from)
	}
	if iv.To == nil || *iv.To != to {
		t.Errorf("To = %v, want %q", iv.To, to)
	}
}

func TestDecodeSlotValue_UnknownDiscriminant(t *testing.T) {
	t.Parallel()
	payload := unsafe.Pointer(megazordtest.CString("never read"))
	for _, tag := range []megazord.CSlotValueType{0, 9, 99, 255, -1, 1 << 20} {
		got, err := megazord.DecodeSlotValue(megazordtest.Raw(tag, payload))
		if got != nil {
			t.Errorf("tag %d: got value %#v, want nil", tag, got)
		}
		if !errors.Is(err, ontology.ErrUnknownDiscriminant) {
			t.Errorf("tag %d: err = %v, want ErrUnknownDiscriminant", tag, err)
		}
		var de *ontology.DecodeError
		if errors.As(err, &de) && de.Field != "slot_value.value_type" {
			t.Errorf("tag %d: field = %q, want slot_value.value_type", tag, de.Field)
		}
	}
}

func TestDecodeSlotValue_NullPayload(t *testing.T) {
	t.Parallel()
	for _, k := range ontology.Kinds() {
		got, err := megazord.DecodeSlotValue(megazordtest.Raw(megazord.CSlotValueType(k), nil))
		if got != nil {
			t.Errorf("%v: got value %#v, want nil", k, got)
		}
		if !errors.Is(err, ontology.ErrNullPointer) {
			t.Errorf("%v: err = %v, want ErrNullPointer", k, err)
		}
	}
}

func TestDecodeSlotValue_NestedEnumFailurePropagates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		in    megazord.CSlotValue
		field string
	}{
		{"instant time grain", megazordtest.InstantTime("x", 12, megazord.PrecisionExact), "instant_time.grain"},
		{"instant time precision", megazordtest.InstantTime("x", megazord.GrainDay, 7), "instant_time.precision"},
		{"amount of money precision", megazordtest.AmountOfMoney(1, 3, nil), "amount_of_money.precision"},
		{"duration precision", megazordtest.Duration(megazord.CDurationValue{Precision: -2}), "duration.precision"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := megazord.DecodeSlotValue(tt.in)
			if got != nil {
				t.Errorf("got value %#v, want nil", got)
			}
			var de *ontology.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("err = %v, want *DecodeError", err)
			}
			if de.Field != tt.field {
				t.Errorf("field = %q, want %q", de.Field, tt.field)
			}
			if !errors.Is(err, ontology.ErrUnknownDiscriminant) {
				t.Errorf("err = %v, want ErrUnknownDiscriminant", err)
			}
		})
	}
}

func TestDecodeSlotValue_InstantTimeNullValue(t *testing.T) {
	t.Parallel()
	v := megazordtest.InstantTime("x", megazord.GrainDay, megazord.PrecisionExact)
	(*megazord.CInstantTimeValue)(v.Value).Value = nil
	_, err := megazord.DecodeSlotValue(v)
	if !errors.Is(err, ontology.ErrNullPointer) {
		t.Errorf("err = %v, want ErrNullPointer", err)
	}
}
