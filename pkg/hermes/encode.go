package hermes

import (
	"errors"
	"fmt"
	"math"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// ErrNonFinite is returned by [EncodeIntentMessage] for NaN or infinite numbers.
var ErrNonFinite = errors.New("non-finite number has no JSON form")

// EncodeIntentMessage renders m in the hermes JSON form. It is the inverse of
// [DecodeIntentMessage] for every message that decoder accepts.
//
// JSON has no NaN or infinity, so a message carrying a non-finite number
// (probability, number, money or temperature value) is rejected with
// [ErrNonFinite]. The ABI decoder passes such values through unchanged.
func EncodeIntentMessage(m *ontology.IntentMessage) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("hermes: encode: nil message")
	}
	w := wireMessage{
		SessionID:  &m.SessionID,
		CustomData: m.CustomData,
		SiteID:     &m.SiteID,
		Input:      &m.Input,
		Slots:      make([]wireSlot, 0, len(m.Slots)),
	}
	if m.Intent != nil {
		if !finite(float64(m.Intent.Probability)) {
			return nil, fmt.Errorf("hermes: encode intent.probability: %w", ErrNonFinite)
		}
		w.Intent = &wireIntent{IntentName: &m.Intent.IntentName, Probability: m.Intent.Probability}
	}
	for i := range m.Slots {
		s := &m.Slots[i]
		v, err := encodeValue(s.Value)
		if err != nil {
			return nil, fmt.Errorf("hermes: encode slot %q: %w", s.SlotName, err)
		}
		w.Slots = append(w.Slots, wireSlot{
			RawValue: &s.RawValue,
			Value:    v,
			Range:    &wireRange{Start: s.Range.Start, End: s.Range.End},
			Entity:   &s.Entity,
			SlotName: &s.SlotName,
		})
	}
	out, err := api.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("hermes: encode: %w", err)
	}
	return out, nil
}

func encodeValue(v ontology.SlotValue) (*wireValue, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	w := &wireValue{Kind: v.Kind().String()}
	var scalar any
	switch v := v.(type) {
	case ontology.CustomValue:
		scalar = string(v)
	case ontology.NumberValue:
		if !finite(float64(v)) {
			return nil, ErrNonFinite
		}
		scalar = float64(v)
	case ontology.OrdinalValue:
		scalar = int64(v)
	case ontology.InstantTimeValue:
		scalar = v.Value
		w.Grain = ptr(v.Grain.String())
		w.Precision = ptr(v.Precision.String())
	case ontology.TimeIntervalValue:
		w.From, w.To = v.From, v.To
	case ontology.AmountOfMoneyValue:
		if !finite(float64(v.Value)) {
			return nil, ErrNonFinite
		}
		scalar = v.Value
		w.Precision = ptr(v.Precision.String())
		w.Unit = v.Unit
	case ontology.TemperatureValue:
		if !finite(float64(v.Value)) {
			return nil, ErrNonFinite
		}
		scalar = v.Value
		w.Unit = v.Unit
	case ontology.DurationValue:
		w.Years, w.Quarters, w.Months, w.Weeks = &v.Years, &v.Quarters, &v.Months, &v.Weeks
		w.Days, w.Hours, w.Minutes, w.Seconds = &v.Days, &v.Hours, &v.Minutes, &v.Seconds
		w.Precision = ptr(v.Precision.String())
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
	if scalar != nil {
		raw, err := api.Marshal(scalar)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return w, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func ptr[T any](v T) *T { return &v }
