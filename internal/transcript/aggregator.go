package transcript

// Summary is the aggregate outcome over all reconstructed course
// records.
type Summary struct {
	TotalCredits      float64        `json:"total_credits"`
	RemainingCredits  float64        `json:"remaining_credits"`
	GraduationCredits float64        `json:"graduation_credits"`
	GPA               float64        `json:"gpa"`
	Passed            []CourseRecord `json:"passed"`
	Failed            []CourseRecord `json:"failed"`
}

// Aggregate classifies each record as passed or failed and sums
// credit-hours for the passing ones. Pass/exempt markers always pass
// and their credits count toward the total, but they never contribute
// to the GPA. Letter grades resolve through the mapping; values below
// the passing floor, and tokens the mapping does not know, fail and
// their credits are excluded. Records carrying no grade token fail
// without entering the GPA weighting. Input records are never mutated
// and the passed/failed partitions preserve input order.
func Aggregate(records []CourseRecord, mapping GradeMapping, graduationCredits, passingFloor float64) Summary {
	summary := Summary{
		GraduationCredits: graduationCredits,
		Passed:            []CourseRecord{},
		Failed:            []CourseRecord{},
	}

	gradedCredits := 0.0
	gradedPoints := 0.0

	for _, rec := range records {
		if IsPassMarker(rec.Grade) {
			summary.TotalCredits += rec.Credits
			summary.Passed = append(summary.Passed, rec)
			continue
		}

		value := mapping.Value(rec.Grade)
		// Records with no grade token at all are extraction gaps, not
		// earned failures; they stay out of the GPA weighting.
		if rec.Grade != "" && rec.Credits > 0 {
			gradedCredits += rec.Credits
			gradedPoints += value * rec.Credits
		}

		if value < passingFloor {
			summary.Failed = append(summary.Failed, rec)
			continue
		}

		summary.TotalCredits += rec.Credits
		summary.Passed = append(summary.Passed, rec)
	}

	if gradedCredits > 0 {
		summary.GPA = gradedPoints / gradedCredits
	}

	summary.RemainingCredits = graduationCredits - summary.TotalCredits
	if summary.RemainingCredits < 0 {
		summary.RemainingCredits = 0
	}
	return summary
}
