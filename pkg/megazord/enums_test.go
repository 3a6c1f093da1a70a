package megazord_test

import (
	"errors"
	"testing"

	"github.com/MrWong99/intentbridge/pkg/megazord"
	"github.com/MrWong99/intentbridge/pkg/ontology"
)

func TestDecodeGrain_AllKnownCodes(t *testing.T) {
	t.Parallel()
	want := map[megazord.CGrain]ontology.Grain{
		megazord.GrainYear:    ontology.GrainYear,
		megazord.GrainQuarter: ontology.GrainQuarter,
		megazord.GrainMonth:   ontology.GrainMonth,
		megazord.GrainWeek:    ontology.GrainWeek,
		megazord.GrainDay:     ontology.GrainDay,
		megazord.GrainHour:    ontology.GrainHour,
		megazord.GrainMinute:  ontology.GrainMinute,
		megazord.GrainSecond:  ontology.GrainSecond,
	}
	seen := make(map[ontology.Grain]bool)
	for code, w := range want {
		got, err := megazord.DecodeGrain(code)
		if err != nil {
			t.Fatalf("DecodeGrain(%d): %v", code, err)
		}
		if got != w {
			t.Errorf("DecodeGrain(%d) = %v, want %v", code, got, w)
		}
		if seen[got] {
			t.Errorf("DecodeGrain(%d) = %v, already produced by another code", code, got)
		}
		seen[got] = true
	}
	if len(seen) != ontology.GrainCount {
		t.Errorf("decoded %d distinct grains, want %d", len(seen), ontology.GrainCount)
	}
}

func TestDecodeGrain_Unknown(t *testing.T) {
	t.Parallel()
	for _, code := range []megazord.CGrain{8, 9, 42, -1, 1 << 30} {
		_, err := megazord.DecodeGrain(code)
		if !errors.Is(err, ontology.ErrUnknownDiscriminant) {
			t.Errorf("DecodeGrain(%d) err = %v, want ErrUnknownDiscriminant", code, err)
		}
	}
}

func TestDecodePrecision(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code    megazord.CPrecision
		want    ontology.Precision
		wantErr bool
	}{
		{megazord.PrecisionApproximate, ontology.PrecisionApproximate, false},
		{megazord.PrecisionExact, ontology.PrecisionExact, false},
		{2, 0, true},
		{-1, 0, true},
		{255, 0, true},
	}
	for _, tt := range tests {
		got, err := megazord.DecodePrecision(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ontology.ErrUnknownDiscriminant) {
				t.Errorf("DecodePrecision(%d) err = %v, want ErrUnknownDiscriminant", tt.code, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("DecodePrecision(%d): %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DecodePrecision(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
