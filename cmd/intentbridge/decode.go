package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/intentbridge/pkg/hermes"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// decodedMessage is the YAML rendering of an intent message printed by
// -decode. Slot values carry their kind next to the payload.
type decodedMessage struct {
	SessionID  string      `yaml:"session_id"`
	CustomData *string     `yaml:"custom_data,omitempty"`
	SiteID     string      `yaml:"site_id"`
	Input      string      `yaml:"input"`
	Intent     *intentView `yaml:"intent,omitempty"`
	Slots      []slotView  `yaml:"slots"`
}

type intentView struct {
	Name        string  `yaml:"name"`
	Probability float32 `yaml:"probability"`
}

type slotView struct {
	SlotName string        `yaml:"slot_name"`
	Entity   string        `yaml:"entity"`
	RawValue string        `yaml:"raw_value"`
	Range    [2]int        `yaml:"range,flow"`
	Text     string        `yaml:"text,omitempty"`
	Kind     ontology.Kind `yaml:"kind"`
	Value    any           `yaml:"value"`
}

func newDecodedMessage(m *ontology.IntentMessage) decodedMessage {
	out := decodedMessage{
		SessionID:  m.SessionID,
		CustomData: m.CustomData,
		SiteID:     m.SiteID,
		Input:      m.Input,
		Slots:      make([]slotView, 0, len(m.Slots)),
	}
	if m.Intent != nil {
		out.Intent = &intentView{Name: m.Intent.IntentName, Probability: m.Intent.Probability}
	}
	for _, s := range m.Slots {
		text, _ := s.Text(m.Input)
		out.Slots = append(out.Slots, slotView{
			SlotName: s.SlotName,
			Entity:   s.Entity,
			RawValue: s.RawValue,
			Range:    [2]int{s.Range.Start, s.Range.End},
			Text:     text,
			Kind:     s.Value.Kind(),
			Value:    valueView(s.Value),
		})
	}
	return out
}

// valueView lowers a slot value to something yaml.v3 renders with readable
// keys.
func valueView(v ontology.SlotValue) any {
	switch v := v.(type) {
	case ontology.CustomValue:
		return string(v)
	case ontology.NumberValue:
		return float64(v)
	case ontology.OrdinalValue:
		return int64(v)
	case ontology.InstantTimeValue:
		return map[string]any{"value": v.Value, "grain": v.Grain, "precision": v.Precision}
	case ontology.TimeIntervalValue:
		m := map[string]any{}
		if v.From != nil {
			m["from"] = *v.From
		}
		if v.To != nil {
			m["to"] = *v.To
		}
		return m
	case ontology.AmountOfMoneyValue:
		m := map[string]any{"value": v.Value, "precision": v.Precision}
		if v.Unit != nil {
			m["unit"] = *v.Unit
		}
		return m
	case ontology.TemperatureValue:
		m := map[string]any{"value": v.Value}
		if v.Unit != nil {
			m["unit"] = *v.Unit
		}
		return m
	case ontology.DurationValue:
		return map[string]any{
			"years": v.Years, "quarters": v.Quarters, "months": v.Months, "weeks": v.Weeks,
			"days": v.Days, "hours": v.Hours, "minutes": v.Minutes, "seconds": v.Seconds,
			"precision": v.Precision,
		}
	}
	return nil
}

// decodeFile implements -decode. Decode failures name the offending field
// and exit with status 1.
func decodeFile(path string, stdout, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "intentbridge: %v\n", err)
		return 1
	}
	msg, err := hermes.DecodeIntentMessage(data)
	if err != nil {
		var de *ontology.DecodeError
		if errors.As(err, &de) {
			fmt.Fprintf(stderr, "intentbridge: %s: field %s rejected (%s)\n", path, de.Field, de.Reason())
		} else {
			fmt.Fprintf(stderr, "intentbridge: %s: %v\n", path, err)
		}
		return 1
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(newDecodedMessage(msg)); err != nil {
		fmt.Fprintf(stderr, "intentbridge: encode yaml: %v\n", err)
		return 1
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "intentbridge: encode yaml: %v\n", err)
		return 1
	}
	return 0
}
