package megazord

import "github.com/MrWong99/intentbridge/pkg/ontology"

var grains = [...]ontology.Grain{
	GrainYear:    ontology.GrainYear,
	GrainQuarter: ontology.GrainQuarter,
	GrainMonth:   ontology.GrainMonth,
	GrainWeek:    ontology.GrainWeek,
	GrainDay:     ontology.GrainDay,
	GrainHour:    ontology.GrainHour,
	GrainMinute:  ontology.GrainMinute,
	GrainSecond:  ontology.GrainSecond,
}

var precisions = [...]ontology.Precision{
	PrecisionApproximate: ontology.PrecisionApproximate,
	PrecisionExact:       ontology.PrecisionExact,
}

// Both tables must cover every domain value; these fail to compile otherwise.
var (
	_ = [1]struct{}{}[len(grains)-ontology.GrainCount]
	_ = [1]struct{}{}[len(precisions)-ontology.PrecisionCount]
)

// DecodeGrain maps SNIPS_GRAIN to [ontology.Grain].
func DecodeGrain(g CGrain) (ontology.Grain, error) {
	return decodeGrain("grain", g)
}

// DecodePrecision maps SNIPS_PRECISION to [ontology.Precision].
func DecodePrecision(p CPrecision) (ontology.Precision, error) {
	return decodePrecision("precision", p)
}

func decodeGrain(field string, g CGrain) (ontology.Grain, error) {
	if g < 0 || int(g) >= len(grains) {
		return 0, ontology.UnknownDiscriminant(field, int32(g))
	}
	return grains[g], nil
}

func decodePrecision(field string, p CPrecision) (ontology.Precision, error) {
	if p < 0 || int(p) >= len(precisions) {
		return 0, ontology.UnknownDiscriminant(field, int32(p))
	}
	return precisions[p], nil
}
