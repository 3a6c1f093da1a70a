// Package megazord decodes the ontology records the embedded NLU engine
// (libsnips_megazord) hands to its intent callback into owned
// [ontology.IntentMessage] values.
//
// The C* types in this file mirror the engine's C header field by field, so a
// pointer received from the engine can be converted with
//
//	msg := (*megazord.CIntentMessage)(ptr)
//
// and passed to [DecodeIntentMessage]. All memory reachable from such a record
// belongs to the engine and is only valid for the duration of the callback;
// every decoder here copies what it needs and keeps no reference to it.
//
// Layout (LP64):
//
//	CIntentMessage           48 bytes   6 pointers
//	CIntentClassifierResult  16 bytes   char*, float
//	CSlotList                16 bytes   CSlot*, int32
//	CSlot                    48 bytes   CSlotValue, 3 x char*, 2 x int32
//	CSlotValue               16 bytes   void*, int32
//	CInstantTimeValue        16 bytes   char*, int32, int32
//	CTimeIntervalValue       16 bytes   2 x char*
//	CAmountOfMoneyValue      16 bytes   char*, float, int32
//	CTemperatureValue        16 bytes   char*, float
//	CDurationValue           72 bytes   8 x int64, int32
package megazord

import (
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// CSlotValueType is the discriminant of a CSlotValue.
type CSlotValueType int32

// Slot value discriminants. They share their numbering with ontology.Kind.
const (
	SlotValueTypeCustom        = CSlotValueType(ontology.KindCustom)
	SlotValueTypeNumber        = CSlotValueType(ontology.KindNumber)
	SlotValueTypeOrdinal       = CSlotValueType(ontology.KindOrdinal)
	SlotValueTypeInstantTime   = CSlotValueType(ontology.KindInstantTime)
	SlotValueTypeTimeInterval  = CSlotValueType(ontology.KindTimeInterval)
	SlotValueTypeAmountOfMoney = CSlotValueType(ontology.KindAmountOfMoney)
	SlotValueTypeTemperature   = CSlotValueType(ontology.KindTemperature)
	SlotValueTypeDuration      = CSlotValueType(ontology.KindDuration)
)

// CGrain is SNIPS_GRAIN.
type CGrain int32

const (
	GrainYear CGrain = iota
	GrainQuarter
	GrainMonth
	GrainWeek
	GrainDay
	GrainHour
	GrainMinute
	GrainSecond
)

// CPrecision is SNIPS_PRECISION.
type CPrecision int32

const (
	PrecisionApproximate CPrecision = iota
	PrecisionExact
)

// CIntentMessage is the record delivered to the intent callback.
type CIntentMessage struct {
	SessionID  *byte // required
	CustomData *byte // optional
	SiteID     *byte // required
	Input      *byte // required
	Intent     *CIntentClassifierResult
	Slots      *CSlotList
}

// CIntentClassifierResult is the intent classification.
type CIntentClassifierResult struct {
	IntentName  *byte
	Probability float32
}

// CSlotList is a (pointer, count) array of slots.
type CSlotList struct {
	Slots *CSlot
	Size  int32
}

// CSlot is one matched slot.
type CSlot struct {
	Value      CSlotValue
	RawValue   *byte
	Entity     *byte
	SlotName   *byte
	RangeStart int32
	RangeEnd   int32
}

// CSlotValue is a tagged union: ValueType names the type Value points to.
//
//	CUSTOM         const char*
//	NUMBER         double*
//	ORDINAL        int32_t*
//	INSTANTTIME    CInstantTimeValue*
//	TIMEINTERVAL   CTimeIntervalValue*
//	AMOUNTOFMONEY  CAmountOfMoneyValue*
//	TEMPERATURE    CTemperatureValue*
//	DURATION       CDurationValue*
type CSlotValue struct {
	Value     unsafe.Pointer
	ValueType CSlotValueType
}

// CInstantTimeValue is the payload of an INSTANTTIME slot value.
type CInstantTimeValue struct {
	Value     *byte
	Grain     CGrain
	Precision CPrecision
}

// CTimeIntervalValue is the payload of a TIMEINTERVAL slot value.
type CTimeIntervalValue struct {
	From *byte
	To   *byte
}

// CAmountOfMoneyValue is the payload of an AMOUNTOFMONEY slot value.
type CAmountOfMoneyValue struct {
	Unit      *byte
	Value     float32
	Precision CPrecision
}

// CTemperatureValue is the payload of a TEMPERATURE slot value.
type CTemperatureValue struct {
	Unit  *byte
	Value float32
}

// CDurationValue is the payload of a DURATION slot value.
type CDurationValue struct {
	Years     int64
	Quarters  int64
	Months    int64
	Weeks     int64
	Days      int64
	Hours     int64
	Minutes   int64
	Seconds   int64
	Precision CPrecision
}
