package transcript

import (
	"strings"
	"unicode"
)

// Reconstruct walks the data rows of a classified table and merges
// physical rows into logical course records. A row bearing an academic
// year numeral starts a new record; rows whose year and identifier
// cells are empty but whose course-name cell is not are continuations
// of the previous record (PDF line wrapping splits long course titles
// and sometimes the grade/credit text across rows). Anything else is
// treated as noise (footers, administrative text) and closes the
// record being built.
func Reconstruct(table RawTable, roles RoleMap) []CourseRecord {
	if len(table) < 2 {
		return nil
	}

	width := tableWidth(table)
	nameIdx := roles[RoleCourseName]
	yearIdx, hasYear := roles[RoleAcademicYear]
	idIdx := identifierColumn(roles, width)

	var records []CourseRecord
	var cur *recordBuilder

	emit := func() {
		if cur == nil {
			return
		}
		if rec, ok := cur.finalize(); ok {
			records = append(records, rec)
		}
		cur = nil
	}

	for _, raw := range table[1:] {
		cells := NormalizeRow(raw, width)
		name := cellAt(cells, nameIdx)
		year := ""
		if hasYear {
			year = cellAt(cells, yearIdx)
		}
		identifier := cellAt(cells, idIdx)

		switch {
		case startsRecord(cells, roles, hasYear, year, identifier, name):
			emit()
			cur = seedRecord(cells, roles, nameIdx)

		case cur != nil && year == "" && identifier == "" && name != "":
			cur.appendContinuation(name, cells, roles)

		case cur != nil && rowEmpty(cells):
			emit()

		default:
			emit()
		}
	}
	emit()

	return records
}

// startsRecord decides whether a row opens a new course record. With a
// resolved year column the signal is a 3-4 digit numeral plus a
// non-empty identifier or course name. Without one, a row needs both a
// course name and some value cell content to count as a new record.
func startsRecord(cells []string, roles RoleMap, hasYear bool, year, identifier, name string) bool {
	if hasYear {
		return academicYearRe.MatchString(year) && (identifier != "" || name != "")
	}
	if name == "" {
		return false
	}
	for _, role := range []ColumnRole{RoleCredits, RoleGrade} {
		if idx, ok := roles[role]; ok && cellAt(cells, idx) != "" {
			return true
		}
	}
	return false
}

// identifierColumn infers the course-code column: the unassigned
// column immediately left of the course name, when one exists.
func identifierColumn(roles RoleMap, width int) int {
	nameIdx := roles[RoleCourseName]
	candidate := nameIdx - 1
	if candidate < 0 || candidate >= width {
		return -1
	}
	for _, idx := range roles {
		if idx == candidate {
			return -1
		}
	}
	return candidate
}

// recordBuilder accumulates one course record across its physical
// rows. altNames holds adjacent-column text from the seed row, used to
// repair an implausible course name at finalize time.
type recordBuilder struct {
	rec      CourseRecord
	altNames []string
}

func seedRecord(cells []string, roles RoleMap, nameIdx int) *recordBuilder {
	b := &recordBuilder{}

	if idx, ok := roles[RoleAcademicYear]; ok {
		b.rec.AcademicYear = cellAt(cells, idx)
	}
	if idx, ok := roles[RoleSemester]; ok {
		b.rec.Semester = cellAt(cells, idx)
	}
	b.rec.CourseName = cellAt(cells, nameIdx)
	b.altNames = adjacentCells(cells, nameIdx)

	if idx, ok := roles[RoleCredits]; ok {
		credits, grade := SplitCell(cellAt(cells, idx))
		b.rec.Credits = credits
		if grade != "" {
			b.rec.Grade = grade
		}
	}
	if idx, ok := roles[RoleGrade]; ok {
		credits, grade := SplitCell(cellAt(cells, idx))
		if grade != "" {
			b.rec.Grade = grade
		}
		if b.rec.Credits == 0 && credits > 0 {
			b.rec.Credits = credits
		}
	}
	return b
}

// appendContinuation merges a wrapped row into the building record:
// the course-name fragment joins with a single space, and value cells
// fill credits or grade if the seed row left them empty.
func (b *recordBuilder) appendContinuation(name string, cells []string, roles RoleMap) {
	if b.rec.CourseName == "" {
		b.rec.CourseName = name
	} else {
		b.rec.CourseName += " " + name
	}

	for _, role := range []ColumnRole{RoleCredits, RoleGrade} {
		idx, ok := roles[role]
		if !ok {
			continue
		}
		credits, grade := SplitCell(cellAt(cells, idx))
		if b.rec.Credits == 0 && credits > 0 {
			b.rec.Credits = credits
		}
		if b.rec.Grade == "" && grade != "" {
			b.rec.Grade = grade
		}
	}
}

// finalize repairs the course name and decides whether the record is
// worth emitting. A record with no recognizable name, zero credits and
// no grade is discarded as noise.
func (b *recordBuilder) finalize() (CourseRecord, bool) {
	rec := b.rec
	rec.CourseName = strings.TrimSpace(rec.CourseName)

	if !plausibleSubjectName(rec.CourseName) {
		rec.CourseName = ""
		for _, alt := range b.altNames {
			if plausibleSubjectName(alt) {
				rec.CourseName = alt
				break
			}
		}
		if rec.CourseName == "" {
			rec.CourseName = UnknownSubject
		}
	}

	if rec.CourseName == UnknownSubject && !rec.HasUsableValue() {
		return CourseRecord{}, false
	}
	return rec, true
}

// plausibleSubjectName applies the course-name predicate loosened for
// reconstruction: the classifier insists on CJK ideographs to pick the
// column, but an individual record may carry a fully latin title, so
// here any name with real letters passes as long as it is not itself a
// grade token, marker or bare number.
func plausibleSubjectName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	if IsGradeToken(name) || IsPassMarker(name) || IsNumeric(name) {
		return false
	}
	if ContainsCJK(name) {
		return true
	}
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

func adjacentCells(cells []string, idx int) []string {
	var alts []string
	if idx-1 >= 0 {
		alts = append(alts, cells[idx-1])
	}
	if idx+1 < len(cells) {
		alts = append(alts, cells[idx+1])
	}
	return alts
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
