package condition

import (
	"errors"
	"testing"
)

func TestRank_Ordering(t *testing.T) {
	codes := []string{"P", "F", "G", "G+", "VG", "VG+", "NM", "M"}

	prev := -1
	for _, code := range codes {
		r, err := Rank(code)
		if err != nil {
			t.Fatalf("Rank(%q) returned error: %v", code, err)
		}
		if r <= prev {
			t.Errorf("Rank(%q) = %d, expected greater than %d", code, r, prev)
		}
		prev = r
	}
}

func TestRank_LongFormMatchesShortCode(t *testing.T) {
	pairs := map[string]string{
		"Poor (P)":             "P",
		"Fair (F)":             "F",
		"Good (G)":             "G",
		"Good Plus (G+)":       "G+",
		"Very Good (VG)":       "VG",
		"Very Good Plus (VG+)": "VG+",
		"Near Mint (NM or M-)": "NM",
		"Mint (M)":             "M",
	}

	for long, short := range pairs {
		longRank, err := Rank(long)
		if err != nil {
			t.Fatalf("Rank(%q) returned error: %v", long, err)
		}
		shortRank, err := Rank(short)
		if err != nil {
			t.Fatalf("Rank(%q) returned error: %v", short, err)
		}
		if longRank != shortRank {
			t.Errorf("Rank(%q) = %d, Rank(%q) = %d, expected same ordinal", long, longRank, short, shortRank)
		}
	}
}

func TestRank_UnknownGrade(t *testing.T) {
	for _, grade := range []string{"", "VG++", "Mint", "Generic"} {
		_, err := Rank(grade)
		if err == nil {
			t.Errorf("Rank(%q) should fail", grade)
			continue
		}
		var unknownErr *UnknownConditionError
		if !errors.As(err, &unknownErr) {
			t.Errorf("Rank(%q) error should be UnknownConditionError, got %T", grade, err)
		}
	}
}

func TestCode_RoundTrip(t *testing.T) {
	// code -> ordinal -> code must be stable
	for _, code := range []string{"P", "F", "G", "G+", "VG", "VG+", "NM", "M"} {
		got, err := Code(code)
		if err != nil {
			t.Fatalf("Code(%q) returned error: %v", code, err)
		}
		if got != code {
			t.Errorf("Code(%q) = %q, round trip should be stable", code, got)
		}
	}

	// long forms normalize to their short code
	got, err := Code("Very Good Plus (VG+)")
	if err != nil {
		t.Fatalf("Code returned error: %v", err)
	}
	if got != "VG+" {
		t.Errorf("Code(long form) = %q, want VG+", got)
	}
}

func TestGraded(t *testing.T) {
	for _, sleeve := range []string{SleeveGeneric, SleeveNoCover, SleeveNotGraded, ""} {
		if Graded(sleeve) {
			t.Errorf("Graded(%q) should be false", sleeve)
		}
	}
	for _, sleeve := range []string{"VG+", "Mint (M)", "P"} {
		if !Graded(sleeve) {
			t.Errorf("Graded(%q) should be true", sleeve)
		}
	}
}
