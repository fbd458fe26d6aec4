package transcript

// Composite cells conflate credit-hours and letter grade in either
// order ("A 3" or "3 A-"). The patterns below are tried in sequence;
// the first match wins.
import "regexp"

var (
	gradeThenNumberRe = regexp.MustCompile(`^([A-F][+-]?)\s+(\d+(?:\.\d+)?)$`)
	numberThenGradeRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+([A-F][+-]?)$`)
	numberOnlyRe      = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// SplitCell splits a normalized cell into a credit value and a grade
// token. Either side may be absent. Credits outside (0, MaxCreditValue]
// are discarded back to 0 to guard against course codes misread as
// credit-hours.
func SplitCell(cell string) (float64, string) {
	cell = NormalizeCell(cell)
	if cell == "" {
		return 0, ""
	}

	if IsPassMarker(cell) {
		return 0, cell
	}

	if m := gradeThenNumberRe.FindStringSubmatch(cell); m != nil {
		return clampCredit(ParseNumber(m[2])), m[1]
	}

	if m := numberThenGradeRe.FindStringSubmatch(cell); m != nil {
		return clampCredit(ParseNumber(m[1])), m[2]
	}

	if numberOnlyRe.MatchString(cell) {
		return clampCredit(ParseNumber(cell)), ""
	}

	if IsGradeToken(cell) {
		return 0, cell
	}

	return 0, ""
}

func clampCredit(v float64) float64 {
	if v <= 0 || v > MaxCreditValue {
		return 0
	}
	return v
}
