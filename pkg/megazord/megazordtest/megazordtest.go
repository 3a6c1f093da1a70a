// Package megazordtest builds engine ontology records in Go memory for tests.
//
// The records have exactly the layout of the engine's C structs, so they can
// be fed to the decoders in pkg/megazord as if they came from the engine
// callback. All exported fields of the returned records may be modified to
// produce malformed input (null required strings, unknown discriminants).
package megazordtest

import (
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/megazord"
)

// CString returns a NUL-terminated copy of s.
func CString(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// OptCString returns nil for a nil s, otherwise CString(*s).
func OptCString(s *string) *byte {
	if s == nil {
		return nil
	}
	return CString(*s)
}

// Ptr returns a pointer to s.
func Ptr(s string) *string { return &s }

// Raw builds a slot value with an arbitrary discriminant and payload.
func Raw(t megazord.CSlotValueType, payload unsafe.Pointer) megazord.CSlotValue {
	return megazord.CSlotValue{Value: payload, ValueType: t}
}

// Custom builds a CUSTOM slot value.
func Custom(s string) megazord.CSlotValue {
	return Raw(megazord.SlotValueTypeCustom, unsafe.Pointer(CString(s)))
}

// Number builds a NUMBER slot value.
func Number(f float64) megazord.CSlotValue {
	return Raw(megazord.SlotValueTypeNumber, unsafe.Pointer(&f))
}

// Ordinal builds an ORDINAL slot value.
func Ordinal(n int32) megazord.CSlotValue {
	return Raw(megazord.SlotValueTypeOrdinal, unsafe.Pointer(&n))
}

// InstantTime builds an INSTANTTIME slot value.
func InstantTime(value string, g megazord.CGrain, p megazord.CPrecision) megazord.CSlotValue {
	v := &megazord.CInstantTimeValue{Value: CString(value), Grain: g, Precision: p}
	return Raw(megazord.SlotValueTypeInstantTime, unsafe.Pointer(v))
}

// TimeInterval builds a TIMEINTERVAL slot value. Nil bounds stay null.
func TimeInterval(from, to *string) megazord.CSlotValue {
	v := &megazord.CTimeIntervalValue{From: OptCString(from), To: OptCString(to)}
	return Raw(megazord.SlotValueTypeTimeInterval, unsafe.Pointer(v))
}

// AmountOfMoney builds an AMOUNTOFMONEY slot value.
func AmountOfMoney(value float32, p megazord.CPrecision, unit *string) megazord.CSlotValue {
	v := &megazord.CAmountOfMoneyValue{Unit: OptCString(unit), Value: value, Precision: p}
	return Raw(megazord.SlotValueTypeAmountOfMoney, unsafe.Pointer(v))
}

// Temperature builds a TEMPERATURE slot value.
func Temperature(value float32, unit *string) megazord.CSlotValue {
	v := &megazord.CTemperatureValue{Unit: OptCString(unit), Value: value}
	return Raw(megazord.SlotValueTypeTemperature, unsafe.Pointer(v))
}

// Duration builds a DURATION slot value from a copy of d.
func Duration(d megazord.CDurationValue) megazord.CSlotValue {
	return Raw(megazord.SlotValueTypeDuration, unsafe.Pointer(&d))
}

// Slot builds a slot record.
func Slot(slotName, entity, rawValue string, start, end int32, v megazord.CSlotValue) megazord.CSlot {
	return megazord.CSlot{
		Value:      v,
		RawValue:   CString(rawValue),
		Entity:     CString(entity),
		SlotName:   CString(slotName),
		RangeStart: start,
		RangeEnd:   end,
	}
}

// Intent builds a classifier result record.
func Intent(name string, probability float32) *megazord.CIntentClassifierResult {
	return &megazord.CIntentClassifierResult{IntentName: CString(name), Probability: probability}
}

// Message describes an intent message record to build.
type Message struct {
	SessionID  string
	CustomData *string
	SiteID     string
	Input      string
	Intent     *megazord.CIntentClassifierResult

	// Slots becomes the slot list. A nil slice produces a null list pointer,
	// an empty one a list of size 0.
	Slots []megazord.CSlot
}

// Build lays m out as an engine record.
func (m Message) Build() *megazord.CIntentMessage {
	rec := &megazord.CIntentMessage{
		SessionID:  CString(m.SessionID),
		CustomData: OptCString(m.CustomData),
		SiteID:     CString(m.SiteID),
		Input:      CString(m.Input),
		Intent:     m.Intent,
	}
	if m.Slots != nil {
		list := &megazord.CSlotList{Size: int32(len(m.Slots))}
		if len(m.Slots) > 0 {
			slots := make([]megazord.CSlot, len(m.Slots))
			copy(slots, m.Slots)
			list.Slots = &slots[0]
		}
		rec.Slots = list
	}
	return rec
}
