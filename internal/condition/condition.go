// Package condition models the graded-condition scale used by the
// marketplace: a fixed total order over eight grades, addressable by short
// code ("VG+") or the long display form the site renders ("Very Good Plus
// (VG+)"). Both forms resolve to the same ordinal.
package condition

import "fmt"

// Short grade codes, worst to best. The index in this slice is the ordinal.
var scale = []string{"P", "F", "G", "G+", "VG", "VG+", "NM", "M"}

// Long display forms as they appear on listing pages.
var longForms = map[string]string{
	"Poor (P)":             "P",
	"Fair (F)":             "F",
	"Good (G)":             "G",
	"Good Plus (G+)":       "G+",
	"Very Good (VG)":       "VG",
	"Very Good Plus (VG+)": "VG+",
	"Near Mint (NM or M-)": "NM",
	"Mint (M)":             "M",
}

// Sleeve categories that carry no grade and bypass ordinal comparison.
const (
	SleeveGeneric   = "Generic"
	SleeveNoCover   = "No Cover"
	SleeveNotGraded = "Not Graded"
)

var ranks map[string]int

func init() {
	ranks = make(map[string]int, len(scale)+len(longForms))
	for i, code := range scale {
		ranks[code] = i
	}
	for long, code := range longForms {
		ranks[long] = ranks[code]
	}
}

// UnknownConditionError reports a grade not in the fixed scale. It is never
// coerced to a lowest or highest grade: a silent guess would flip accept and
// reject decisions downstream.
type UnknownConditionError struct {
	Grade string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("unknown condition grade %q", e.Grade)
}

// Rank returns the ordinal of a grade, accepting short codes and long
// display forms. Higher is better.
func Rank(grade string) (int, error) {
	r, ok := ranks[grade]
	if !ok {
		return 0, &UnknownConditionError{Grade: grade}
	}
	return r, nil
}

// Code normalizes a grade to its short code.
func Code(grade string) (string, error) {
	r, err := Rank(grade)
	if err != nil {
		return "", err
	}
	return scale[r], nil
}

// Graded reports whether a sleeve condition carries an ordinal grade.
// The generic/no-cover/not-graded categories and an absent sleeve don't.
func Graded(sleeve string) bool {
	switch sleeve {
	case SleeveGeneric, SleeveNoCover, SleeveNotGraded, "":
		return false
	}
	_, ok := ranks[sleeve]
	return ok
}
