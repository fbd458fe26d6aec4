package transcript

import (
	"regexp"
	"strings"
)

const (
	// DefaultGraduationCredits is the credit total required to
	// graduate unless the caller overrides it.
	DefaultGraduationCredits = 128.0

	// DefaultPassingFloor is the lowest GPA value that still counts
	// as a pass (C-).
	DefaultPassingFloor = 1.7

	// MaxCreditValue is the sanity ceiling for a single course's
	// credit-hours. Larger numbers are almost always course codes
	// misread as credits.
	MaxCreditValue = 10.0
)

// gradeTokenRe matches a single letter grade with an optional sign.
var gradeTokenRe = regexp.MustCompile(`^[A-F][+-]?$`)

// passMarkers are the locale-specific tokens for courses that pass
// without a letter grade: credit transfer (抵免) and pass/fail courses
// graded 通過.
var passMarkers = map[string]struct{}{
	"通過":     {},
	"抵免":     {},
	"pass":   {},
	"exempt": {},
}

// IsGradeToken reports whether the string is a letter grade token such
// as "A", "B+" or "C-".
func IsGradeToken(s string) bool {
	return gradeTokenRe.MatchString(s)
}

// IsPassMarker reports whether the string is a pass/exempt marker.
func IsPassMarker(s string) bool {
	_, ok := passMarkers[strings.ToLower(s)]
	return ok
}

// GradeMapping maps grade tokens to numeric GPA values. Tokens absent
// from the mapping are treated as failing (value 0).
type GradeMapping map[string]float64

// DefaultGradeMapping returns the standard 4.3-scale mapping used by
// the targeted transcripts.
func DefaultGradeMapping() GradeMapping {
	return GradeMapping{
		"A+": 4.3, "A": 4.0, "A-": 3.7,
		"B+": 3.3, "B": 3.0, "B-": 2.7,
		"C+": 2.3, "C": 2.0, "C-": 1.7,
		"D+": 1.3, "D": 1.0, "D-": 0.7,
		"E": 0.0, "F": 0.0,
	}
}

// Value resolves a grade token to its numeric GPA value. Unknown
// tokens resolve to 0.
func (m GradeMapping) Value(token string) float64 {
	return m[strings.TrimSpace(token)]
}

// Merge returns a copy of the mapping with the given overrides
// applied. The receiver is never mutated.
func (m GradeMapping) Merge(overrides map[string]float64) GradeMapping {
	merged := make(GradeMapping, len(m)+len(overrides))
	for token, value := range m {
		merged[token] = value
	}
	for token, value := range overrides {
		merged[strings.TrimSpace(token)] = value
	}
	return merged
}
