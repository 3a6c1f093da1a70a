// Package hermes reads and writes the JSON form of an intent message that the
// NLU engine publishes on the hermes MQTT bus ("hermes/intent/<name>").
//
// The JSON carries the same tagged union as the engine's C records, and
// decoding applies the same policy as pkg/megazord: unknown kind, grain or
// precision names fail with [ontology.ErrUnknownDiscriminant], missing
// required fields with [ontology.ErrNullPointer], and any failure discards
// the whole message.
package hermes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// api copies strings out of the input buffer, so decoded messages never
// alias the payload.
var api = sonic.ConfigStd

type wireMessage struct {
	SessionID  *string     `json:"sessionId"`
	CustomData *string     `json:"customData"`
	SiteID     *string     `json:"siteId"`
	Input      *string     `json:"input"`
	Intent     *wireIntent `json:"intent"`
	Slots      []wireSlot  `json:"slots"`
}

type wireIntent struct {
	IntentName  *string `json:"intentName"`
	Probability float32 `json:"probability"`
}

type wireSlot struct {
	RawValue *string    `json:"rawValue"`
	Value    *wireValue `json:"value"`
	Range    *wireRange `json:"range,omitempty"`
	Entity   *string    `json:"entity"`
	SlotName *string    `json:"slotName"`
}

type wireRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type wireValue struct {
	Kind      string          `json:"kind"`
	Value     json.RawMessage `json:"value,omitempty"`
	Grain     *string         `json:"grain,omitempty"`
	Precision *string         `json:"precision,omitempty"`
	Unit      *string         `json:"unit,omitempty"`
	From      *string         `json:"from,omitempty"`
	To        *string         `json:"to,omitempty"`

	Years    *int64 `json:"years,omitempty"`
	Quarters *int64 `json:"quarters,omitempty"`
	Months   *int64 `json:"months,omitempty"`
	Weeks    *int64 `json:"weeks,omitempty"`
	Days     *int64 `json:"days,omitempty"`
	Hours    *int64 `json:"hours,omitempty"`
	Minutes  *int64 `json:"minutes,omitempty"`
	Seconds  *int64 `json:"seconds,omitempty"`
}

// DecodeIntentMessage parses one hermes intent payload.
//
// Syntax errors are returned wrapped with the "hermes:" prefix; everything
// else is an [*ontology.DecodeError].
func DecodeIntentMessage(data []byte) (*ontology.IntentMessage, error) {
	var w wireMessage
	if err := api.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("hermes: parse intent message: %w", err)
	}
	return w.decode()
}

func (w *wireMessage) decode() (*ontology.IntentMessage, error) {
	if w.SessionID == nil {
		return nil, ontology.NullPointer("intent_message.session_id")
	}
	if w.SiteID == nil {
		return nil, ontology.NullPointer("intent_message.site_id")
	}
	if w.Input == nil {
		return nil, ontology.NullPointer("intent_message.input")
	}

	msg := &ontology.IntentMessage{
		SessionID:  *w.SessionID,
		CustomData: w.CustomData,
		SiteID:     *w.SiteID,
		Input:      *w.Input,
		Slots:      make([]ontology.Slot, 0, len(w.Slots)),
	}
	if w.Intent != nil {
		if w.Intent.IntentName == nil {
			return nil, ontology.NullPointer("intent.intent_name")
		}
		msg.Intent = &ontology.IntentClassifierResult{
			IntentName:  *w.Intent.IntentName,
			Probability: w.Intent.Probability,
		}
	}
	for i := range w.Slots {
		s, err := w.Slots[i].decode()
		if err != nil {
			return nil, err
		}
		msg.Slots = append(msg.Slots, s)
	}
	return msg, nil
}

func (w *wireSlot) decode() (ontology.Slot, error) {
	if w.RawValue == nil {
		return ontology.Slot{}, ontology.NullPointer("slot.raw_value")
	}
	if w.Value == nil {
		return ontology.Slot{}, ontology.NullPointer("slot.value")
	}
	value, err := w.Value.decode()
	if err != nil {
		return ontology.Slot{}, err
	}
	if w.Entity == nil {
		return ontology.Slot{}, ontology.NullPointer("slot.entity")
	}
	if w.SlotName == nil {
		return ontology.Slot{}, ontology.NullPointer("slot.slot_name")
	}
	s := ontology.Slot{
		RawValue: *w.RawValue,
		Value:    value,
		Entity:   *w.Entity,
		SlotName: *w.SlotName,
	}
	if w.Range != nil {
		s.Range = ontology.Range{Start: w.Range.Start, End: w.Range.End}
	}
	return s, nil
}

func (w *wireValue) decode() (ontology.SlotValue, error) {
	kind, ok := ontology.ParseKind(w.Kind)
	if !ok {
		return nil, ontology.UnknownDiscriminant("slot_value.kind", strconv.Quote(w.Kind))
	}
	switch kind {
	case ontology.KindCustom:
		var s string
		if err := w.scalar("custom.value", &s); err != nil {
			return nil, err
		}
		return ontology.CustomValue(s), nil

	case ontology.KindNumber:
		var f float64
		if err := w.scalar("number.value", &f); err != nil {
			return nil, err
		}
		return ontology.NumberValue(f), nil

	case ontology.KindOrdinal:
		var n int64
		if err := w.scalar("ordinal.value", &n); err != nil {
			return nil, err
		}
		return ontology.OrdinalValue(n), nil

	case ontology.KindInstantTime:
		var v ontology.InstantTimeValue
		if err := w.scalar("instant_time.value", &v.Value); err != nil {
			return nil, err
		}
		g, err := grain("instant_time.grain", w.Grain)
		if err != nil {
			return nil, err
		}
		p, err := precision("instant_time.precision", w.Precision)
		if err != nil {
			return nil, err
		}
		v.Grain, v.Precision = g, p
		return v, nil

	case ontology.KindTimeInterval:
		return ontology.TimeIntervalValue{From: w.From, To: w.To}, nil

	case ontology.KindAmountOfMoney:
		var v ontology.AmountOfMoneyValue
		if err := w.scalar("amount_of_money.value", &v.Value); err != nil {
			return nil, err
		}
		p, err := precision("amount_of_money.precision", w.Precision)
		if err != nil {
			return nil, err
		}
		v.Precision, v.Unit = p, w.Unit
		return v, nil

	case ontology.KindTemperature:
		var v ontology.TemperatureValue
		if err := w.scalar("temperature.value", &v.Value); err != nil {
			return nil, err
		}
		v.Unit = w.Unit
		return v, nil

	case ontology.KindDuration:
		p, err := precision("duration.precision", w.Precision)
		if err != nil {
			return nil, err
		}
		return ontology.DurationValue{
			Years:     deref(w.Years),
			Quarters:  deref(w.Quarters),
			Months:    deref(w.Months),
			Weeks:     deref(w.Weeks),
			Days:      deref(w.Days),
			Hours:     deref(w.Hours),
			Minutes:   deref(w.Minutes),
			Seconds:   deref(w.Seconds),
			Precision: p,
		}, nil
	}
	// ParseKind only returns known kinds.
	panic("hermes: unhandled kind " + kind.String())
}

// scalar decodes the "value" member into dst. A missing or null member is a
// null required field.
func (w *wireValue) scalar(field string, dst any) error {
	if len(w.Value) == 0 || string(w.Value) == "null" {
		return ontology.NullPointer(field)
	}
	if err := api.Unmarshal(w.Value, dst); err != nil {
		return ontology.Malformed(field, err)
	}
	return nil
}

func grain(field string, name *string) (ontology.Grain, error) {
	if name == nil {
		return 0, ontology.NullPointer(field)
	}
	g, ok := ontology.ParseGrain(*name)
	if !ok {
		return 0, ontology.UnknownDiscriminant(field, strconv.Quote(*name))
	}
	return g, nil
}

func precision(field string, name *string) (ontology.Precision, error) {
	if name == nil {
		return 0, ontology.NullPointer(field)
	}
	p, ok := ontology.ParsePrecision(*name)
	if !ok {
		return 0, ontology.UnknownDiscriminant(field, strconv.Quote(*name))
	}
	return p, nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// SubscriptionTopic returns the MQTT filter matching every intent topic under
// prefix.
func SubscriptionTopic(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/intent/#"
}

// IntentTopic returns the topic an intent named name is published on.
func IntentTopic(prefix, name string) string {
	return strings.TrimSuffix(prefix, "/") + "/intent/" + name
}

// IntentNameFromTopic extracts the intent name from an intent topic. The
// second result is false when topic is not an intent topic under prefix.
func IntentNameFromTopic(prefix, topic string) (string, bool) {
	name, ok := strings.CutPrefix(topic, strings.TrimSuffix(prefix, "/")+"/intent/")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
