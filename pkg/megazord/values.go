package megazord

import "github.com/MrWong99/intentbridge/pkg/ontology"

// DecodeInstantTime decodes an INSTANTTIME payload.
func DecodeInstantTime(v *CInstantTimeValue) (ontology.InstantTimeValue, error) {
	if v == nil {
		return ontology.InstantTimeValue{}, ontology.NullPointer("instant_time")
	}
	value, err := requiredString("instant_time.value", v.Value)
	if err != nil {
		return ontology.InstantTimeValue{}, err
	}
	grain, err := decodeGrain("instant_time.grain", v.Grain)
	if err != nil {
		return ontology.InstantTimeValue{}, err
	}
	precision, err := decodePrecision("instant_time.precision", v.Precision)
	if err != nil {
		return ontology.InstantTimeValue{}, err
	}
	return ontology.InstantTimeValue{Value: value, Grain: grain, Precision: precision}, nil
}

// DecodeTimeInterval decodes a TIMEINTERVAL payload. Both bounds are optional,
// so only a null payload can fail.
func DecodeTimeInterval(v *CTimeIntervalValue) (ontology.TimeIntervalValue, error) {
	if v == nil {
		return ontology.TimeIntervalValue{}, ontology.NullPointer("time_interval")
	}
	return ontology.TimeIntervalValue{
		From: optionalString(v.From),
		To:   optionalString(v.To),
	}, nil
}

// DecodeAmountOfMoney decodes an AMOUNTOFMONEY payload.
func DecodeAmountOfMoney(v *CAmountOfMoneyValue) (ontology.AmountOfMoneyValue, error) {
	if v == nil {
		return ontology.AmountOfMoneyValue{}, ontology.NullPointer("amount_of_money")
	}
	precision, err := decodePrecision("amount_of_money.precision", v.Precision)
	if err != nil {
		return ontology.AmountOfMoneyValue{}, err
	}
	return ontology.AmountOfMoneyValue{
		Value:     v.Value,
		Precision: precision,
		Unit:      optionalString(v.Unit),
	}, nil
}

// DecodeTemperature decodes a TEMPERATURE payload.
func DecodeTemperature(v *CTemperatureValue) (ontology.TemperatureValue, error) {
	if v == nil {
		return ontology.TemperatureValue{}, ontology.NullPointer("temperature")
	}
	return ontology.TemperatureValue{
		Value: v.Value,
		Unit:  optionalString(v.Unit),
	}, nil
}

// DecodeDuration decodes a DURATION payload.
func DecodeDuration(v *CDurationValue) (ontology.DurationValue, error) {
	if v == nil {
		return ontology.DurationValue{}, ontology.NullPointer("duration")
	}
	precision, err := decodePrecision("duration.precision", v.Precision)
	if err != nil {
		return ontology.DurationValue{}, err
	}
	return ontology.DurationValue{
		Years:     v.Years,
		Quarters:  v.Quarters,
		Months:    v.Months,
		Weeks:     v.Weeks,
		Days:      v.Days,
		Hours:     v.Hours,
		Minutes:   v.Minutes,
		Seconds:   v.Seconds,
		Precision: precision,
	}, nil
}
