package ontology

// SlotValue is the resolved value of a slot. It is a closed sum type: the
// only implementations are the eight variant types in this file, and a value
// always reports the Kind matching its concrete type.
//
// Use a type switch to consume it:
//
//	switch v := slot.Value.(type) {
//	case ontology.CustomValue:
//	case ontology.InstantTimeValue:
//	    _ = v.Grain
//	}
type SlotValue interface {
	// Kind returns the variant tag.
	Kind() Kind

	slotValue()
}

// CustomValue is the value of a slot bound to a custom (assistant-defined)
// entity.
type CustomValue string

// NumberValue is a cardinal number.
type NumberValue float64

// OrdinalValue is an ordinal position ("the third one" -> 3).
type OrdinalValue int64

// InstantTimeValue is a point in time.
type InstantTimeValue struct {
	// Value is an ISO-8601-like timestamp, e.g. "2021-03-01 00:00:00 +00:00".
	Value     string
	Grain     Grain
	Precision Precision
}

// TimeIntervalValue is a time span. Either bound may be absent for
// open-ended intervals.
type TimeIntervalValue struct {
	From *string
	To   *string
}

// AmountOfMoneyValue is a monetary amount.
type AmountOfMoneyValue struct {
	Value     float32
	Precision Precision
	// Unit is the currency, e.g. "€" or "USD". Nil when unspecified.
	Unit *string
}

// TemperatureValue is a temperature reading.
type TemperatureValue struct {
	Value float32
	// Unit is e.g. "celsius" or "fahrenheit". Nil when unspecified.
	Unit *string
}

// DurationValue is a calendar duration broken down per unit.
type DurationValue struct {
	Years     int64
	Quarters  int64
	Months    int64
	Weeks     int64
	Days      int64
	Hours     int64
	Minutes   int64
	Seconds   int64
	Precision Precision
}

func (CustomValue) Kind() Kind        { return KindCustom }
func (NumberValue) Kind() Kind        { return KindNumber }
func (OrdinalValue) Kind() Kind       { return KindOrdinal }
func (InstantTimeValue) Kind() Kind   { return KindInstantTime }
func (TimeIntervalValue) Kind() Kind  { return KindTimeInterval }
func (AmountOfMoneyValue) Kind() Kind { return KindAmountOfMoney }
func (TemperatureValue) Kind() Kind   { return KindTemperature }
func (DurationValue) Kind() Kind      { return KindDuration }

func (CustomValue) slotValue()        {}
func (NumberValue) slotValue()        {}
func (OrdinalValue) slotValue()       {}
func (InstantTimeValue) slotValue()   {}
func (TimeIntervalValue) slotValue()  {}
func (AmountOfMoneyValue) slotValue() {}
func (TemperatureValue) slotValue()   {}
func (DurationValue) slotValue()      {}
