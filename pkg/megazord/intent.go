package megazord

import (
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// DecodeIntentMessage decodes the record delivered to the engine's intent
// callback into an owned [ontology.IntentMessage].
//
// session_id, site_id and input are required; a null pointer in any of them
// is an [ontology.ErrNullPointer] failure. custom_data is optional. The
// classifier result is decoded only when its pointer is non-null, and a null
// slot list decodes to an empty slice.
//
// Decoding is atomic: if any slot or the classifier result fails, no message
// is returned. The returned value shares no memory with m.
func DecodeIntentMessage(m *CIntentMessage) (*ontology.IntentMessage, error) {
	if m == nil {
		return nil, ontology.NullPointer("intent_message")
	}
	sessionID, err := requiredString("intent_message.session_id", m.SessionID)
	if err != nil {
		return nil, err
	}
	siteID, err := requiredString("intent_message.site_id", m.SiteID)
	if err != nil {
		return nil, err
	}
	input, err := requiredString("intent_message.input", m.Input)
	if err != nil {
		return nil, err
	}

	var intent *ontology.IntentClassifierResult
	if m.Intent != nil {
		r, err := DecodeIntentClassifierResult(m.Intent)
		if err != nil {
			return nil, err
		}
		intent = &r
	}

	slots, err := DecodeSlotList(m.Slots)
	if err != nil {
		return nil, err
	}

	return &ontology.IntentMessage{
		SessionID:  sessionID,
		CustomData: optionalString(m.CustomData),
		SiteID:     siteID,
		Input:      input,
		Intent:     intent,
		Slots:      slots,
	}, nil
}

// DecodeSlotList decodes every element of l in order. A nil list yields an
// empty, non-nil slice.
func DecodeSlotList(l *CSlotList) ([]ontology.Slot, error) {
	if l == nil || l.Size == 0 {
		return []ontology.Slot{}, nil
	}
	if l.Size < 0 {
		return nil, ontology.InvalidLength("slot_list.size", l.Size)
	}
	if l.Slots == nil {
		return nil, ontology.NullPointer("slot_list.slots")
	}
	cslots := unsafe.Slice(l.Slots, int(l.Size))
	slots := make([]ontology.Slot, len(cslots))
	for i := range cslots {
		s, err := DecodeSlot(&cslots[i])
		if err != nil {
			return nil, err
		}
		slots[i] = s
	}
	return slots, nil
}

// IntentHandler adapts fn to the raw callback shape an engine binding
// invokes with a borrowed const CIntentMessage*. Records that fail to decode
// are passed to onErr instead; onErr may be nil.
func IntentHandler(fn func(*ontology.IntentMessage), onErr func(error)) func(unsafe.Pointer) {
	return func(p unsafe.Pointer) {
		msg, err := DecodeIntentMessage((*CIntentMessage)(p))
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(msg)
	}
}
