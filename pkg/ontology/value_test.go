package ontology_test

import (
	"testing"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

func TestSlotValue_Kind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v    ontology.SlotValue
		want ontology.Kind
	}{
		{ontology.CustomValue("x"), ontology.KindCustom},
		{ontology.NumberValue(1), ontology.KindNumber},
		{ontology.OrdinalValue(2), ontology.KindOrdinal},
		{ontology.InstantTimeValue{}, ontology.KindInstantTime},
		{ontology.TimeIntervalValue{}, ontology.KindTimeInterval},
		{ontology.AmountOfMoneyValue{}, ontology.KindAmountOfMoney},
		{ontology.TemperatureValue{}, ontology.KindTemperature},
		{ontology.DurationValue{}, ontology.KindDuration},
	}
	seen := make(map[ontology.Kind]bool)
	for _, tt := range tests {
		if got := tt.v.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.v, got, tt.want)
		}
		seen[tt.v.Kind()] = true
	}
	if len(seen) != ontology.KindCount {
		t.Errorf("variants cover %d kinds, want %d", len(seen), ontology.KindCount)
	}
}

func TestSlot_Text(t *testing.T) {
	t.Parallel()
	input := "règle le chauffage à 21 degrés"
	tests := []struct {
		name   string
		r      ontology.Range
		want   string
		wantOK bool
	}{
		{"ascii span", ontology.Range{Start: 9, End: 18}, "chauffage", true},
		{"span after multibyte rune", ontology.Range{Start: 21, End: 30}, "21 degrés", true},
		{"empty", ontology.Range{Start: 3, End: 3}, "", true},
		{"past end", ontology.Range{Start: 21, End: 31}, "", false},
		{"inverted", ontology.Range{Start: 5, End: 2}, "", false},
		{"negative", ontology.Range{Start: -1, End: 2}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ontology.Slot{Range: tt.r}.Text(input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Text = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRange_Len(t *testing.T) {
	t.Parallel()
	if got := (ontology.Range{Start: 2, End: 7}).Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
	if got := (ontology.Range{Start: 7, End: 2}).Len(); got != 0 {
		t.Errorf("inverted Len = %d, want 0", got)
	}
}

func TestIntentMessage_Accessors(t *testing.T) {
	t.Parallel()
	var nilMsg *ontology.IntentMessage
	if nilMsg.IntentName() != "" {
		t.Error("nil message must have empty intent name")
	}
	if got := nilMsg.SlotsNamed("room"); got != nil {
		t.Errorf("nil message SlotsNamed = %+v, want nil", got)
	}
	m := &ontology.IntentMessage{
		Intent: &ontology.IntentClassifierResult{IntentName: "turnOn", Probability: 0.9},
		Slots: []ontology.Slot{
			{SlotName: "room", RawValue: "kitchen"},
			{SlotName: "device", RawValue: "lights"},
			{SlotName: "room", RawValue: "hall"},
		},
	}
	if m.IntentName() != "turnOn" {
		t.Errorf("IntentName = %q", m.IntentName())
	}
	rooms := m.SlotsNamed("room")
	if len(rooms) != 2 || rooms[0].RawValue != "kitchen" || rooms[1].RawValue != "hall" {
		t.Errorf("SlotsNamed(room) = %+v", rooms)
	}
	if got := m.SlotsNamed("missing"); len(got) != 0 {
		t.Errorf("SlotsNamed(missing) = %+v", got)
	}
}
