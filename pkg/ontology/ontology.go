// Package ontology defines the owned, strongly-typed domain model for one
// completed recognition turn of the NLU engine.
//
// Values in this package never reference engine memory. They are produced by
// the decoders in pkg/megazord (C ABI records) and pkg/hermes (JSON payloads)
// and are immutable by convention once returned: consumers may read and copy
// them freely, and concurrent readers need no synchronisation.
package ontology

// IntentMessage is the decoded result of one recognition turn.
type IntentMessage struct {
	// SessionID identifies the dialogue session the turn belongs to.
	SessionID string

	// CustomData is the opaque string attached when the session was started.
	// Nil when the session carried no custom data.
	CustomData *string

	// SiteID names the device or room the audio came from.
	SiteID string

	// Input is the transcript the intent was classified from.
	Input string

	// Intent is the top-ranked intent guess. Nil when no intent was recognised.
	Intent *IntentClassifierResult

	// Slots lists the matched slots in engine order. Never nil after decoding.
	Slots []Slot
}

// IntentName returns the classified intent name, or "" when no intent was
// recognised.
func (m *IntentMessage) IntentName() string {
	if m == nil || m.Intent == nil {
		return ""
	}
	return m.Intent.IntentName
}

// SlotsNamed returns the slots whose SlotName equals name, in engine order.
func (m *IntentMessage) SlotsNamed(name string) []Slot {
	if m == nil {
		return nil
	}
	var out []Slot
	for _, s := range m.Slots {
		if s.SlotName == name {
			out = append(out, s)
		}
	}
	return out
}

// IntentClassifierResult is the intent classification of a turn.
type IntentClassifierResult struct {
	IntentName string

	// Probability is copied verbatim from the engine. It is expected in
	// [0, 1] but never clamped.
	Probability float32
}

// Range is a half-open [Start, End) character interval over
// IntentMessage.Input. It is trusted verbatim from the engine.
type Range struct {
	Start int
	End   int
}

// Len returns the number of characters covered, or 0 for an inverted range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Slot is a labelled span of the input matched to a structured value.
type Slot struct {
	// RawValue is the text of the input the slot was extracted from.
	RawValue string

	// Value is the resolved value. Exactly one variant is set.
	Value SlotValue

	// Range locates RawValue inside IntentMessage.Input.
	Range Range

	// Entity is the entity type, e.g. "snips/datetime" or "locality".
	Entity string

	// SlotName is the slot label defined by the assistant.
	SlotName string
}

// Text returns the characters of input covered by the slot's range. The
// second result is false when the range does not fit the input; decoding
// never validates ranges, so callers that need the span must check it here.
func (s Slot) Text(input string) (string, bool) {
	r := s.Range
	if r.Start < 0 || r.End < r.Start {
		return "", false
	}
	runes := []rune(input)
	if r.End > len(runes) {
		return "", false
	}
	return string(runes[r.Start:r.End]), true
}
