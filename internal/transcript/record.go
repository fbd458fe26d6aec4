package transcript

// UnknownSubject is the sentinel course name used when no cell of a
// record holds a plausible subject name.
const UnknownSubject = "未知科目"

// CourseRecord is one logical course entry reconstructed from one or
// more physical table rows. Records are immutable once built.
type CourseRecord struct {
	AcademicYear string  `json:"academic_year,omitempty"`
	Semester     string  `json:"semester,omitempty"`
	CourseName   string  `json:"course_name"`
	Credits      float64 `json:"credits"`
	Grade        string  `json:"grade"`
	SourceTable  int     `json:"source_table"`
}

// HasUsableValue reports whether the record carries anything the
// aggregator can work with.
func (r CourseRecord) HasUsableValue() bool {
	return r.Credits > 0 || r.Grade != ""
}
