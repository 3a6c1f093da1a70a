package megazord

import "github.com/MrWong99/intentbridge/pkg/ontology"

// DecodeSlot decodes one slot. The range is copied verbatim; it is not
// checked against the input.
func DecodeSlot(s *CSlot) (ontology.Slot, error) {
	if s == nil {
		return ontology.Slot{}, ontology.NullPointer("slot")
	}
	raw, err := requiredString("slot.raw_value", s.RawValue)
	if err != nil {
		return ontology.Slot{}, err
	}
	value, err := DecodeSlotValue(s.Value)
	if err != nil {
		return ontology.Slot{}, err
	}
	entity, err := requiredString("slot.entity", s.Entity)
	if err != nil {
		return ontology.Slot{}, err
	}
	name, err := requiredString("slot.slot_name", s.SlotName)
	if err != nil {
		return ontology.Slot{}, err
	}
	return ontology.Slot{
		RawValue: raw,
		Value:    value,
		Range:    ontology.Range{Start: int(s.RangeStart), End: int(s.RangeEnd)},
		Entity:   entity,
		SlotName: name,
	}, nil
}

// DecodeIntentClassifierResult decodes the intent classification. The
// probability is copied verbatim.
func DecodeIntentClassifierResult(r *CIntentClassifierResult) (ontology.IntentClassifierResult, error) {
	if r == nil {
		return ontology.IntentClassifierResult{}, ontology.NullPointer("intent")
	}
	name, err := requiredString("intent.intent_name", r.IntentName)
	if err != nil {
		return ontology.IntentClassifierResult{}, err
	}
	return ontology.IntentClassifierResult{IntentName: name, Probability: r.Probability}, nil
}
