package megazord

import (
	"fmt"
	"unsafe"

	"github.com/MrWong99/intentbridge/pkg/ontology"
)

// slotValueDecoder reinterprets a CSlotValue payload and decodes it.
type slotValueDecoder func(payload unsafe.Pointer) (ontology.SlotValue, error)

// slotValueDecoders is the dispatch table, indexed by discriminant. The payload
// type each entry reinterprets is the parameter type of the decoder passed to
// lift, so the tag -> layout mapping lives in exactly one place.
var slotValueDecoders = [...]slotValueDecoder{
	ontology.KindCustom:        lift(decodeCustom),
	ontology.KindNumber:        lift(decodeNumber),
	ontology.KindOrdinal:       lift(decodeOrdinal),
	ontology.KindInstantTime:   lift(DecodeInstantTime),
	ontology.KindTimeInterval:  lift(DecodeTimeInterval),
	ontology.KindAmountOfMoney: lift(DecodeAmountOfMoney),
	ontology.KindTemperature:   lift(DecodeTemperature),
	ontology.KindDuration:      lift(DecodeDuration),
}

// One entry per kind plus the unused zero slot; adding a kind without a
// decoder fails to compile.
var _ = [1]struct{}{}[len(slotValueDecoders)-ontology.KindCount-1]

// lift adapts a typed payload decoder to the table signature.
func lift[C any, V ontology.SlotValue](decode func(*C) (V, error)) slotValueDecoder {
	return func(payload unsafe.Pointer) (ontology.SlotValue, error) {
		v, err := decode((*C)(payload))
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// DecodeSlotValue reads the discriminant of v and decodes its payload as the
// matching variant. Unknown discriminants fail with
// [ontology.ErrUnknownDiscriminant]; a null payload for a known one fails
// with [ontology.ErrNullPointer]. The payload is never touched in either case.
func DecodeSlotValue(v CSlotValue) (ontology.SlotValue, error) {
	kind := ontology.Kind(v.ValueType)
	if !kind.IsValid() || slotValueDecoders[kind] == nil {
		return nil, ontology.UnknownDiscriminant("slot_value.value_type", int32(v.ValueType))
	}
	if v.Value == nil {
		return nil, ontology.NullPointer("slot_value.value")
	}
	out, err := slotValueDecoders[kind](v.Value)
	if err != nil {
		return nil, err
	}
	if out.Kind() != kind {
		panic(fmt.Sprintf("megazord: dispatch table decoded %v as %v", kind, out.Kind()))
	}
	return out, nil
}

func decodeCustom(p *byte) (ontology.CustomValue, error) {
	return ontology.CustomValue(copyCString(p)), nil
}

func decodeNumber(p *float64) (ontology.NumberValue, error) {
	return ontology.NumberValue(*p), nil
}

func decodeOrdinal(p *int32) (ontology.OrdinalValue, error) {
	return ontology.OrdinalValue(*p), nil
}
