package transcript

import (
	"regexp"
	"strings"
)

// ClassifierConfig tunes the two-phase column-role classification.
type ClassifierConfig struct {
	// MinRows is the minimum row count a table needs before the
	// content-based fallback has enough samples to judge columns
	// statistically. Header matching is attempted regardless.
	MinRows int

	// SampleRows caps how many data rows the content fallback
	// inspects per column.
	SampleRows int

	// Per-role acceptance thresholds for the content fallback: the
	// fraction of sampled cells that must satisfy the role
	// predicate. Course name and credits are noisier, so their
	// thresholds sit lower.
	CourseNameThreshold float64
	CreditsThreshold    float64
	GradeThreshold      float64
	YearThreshold       float64
	SemesterThreshold   float64
}

// DefaultClassifierConfig returns the thresholds tuned against the
// targeted transcript layouts.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinRows:             5,
		SampleRows:          20,
		CourseNameThreshold: 0.30,
		CreditsThreshold:    0.35,
		GradeThreshold:      0.50,
		YearThreshold:       0.60,
		SemesterThreshold:   0.60,
	}
}

// headerKeywords are matched against normalized, lowercased header
// cells. First match wins per role.
var headerKeywords = map[ColumnRole][]string{
	RoleAcademicYear: {"學年度", "學年", "academic year", "year"},
	RoleSemester:     {"學期", "semester", "term"},
	RoleCourseName:   {"科目名稱", "課程名稱", "course name", "subject name", "course title"},
	RoleCredits:      {"學分", "credit"},
	RoleGrade:        {"gpa", "成績", "等第", "grade"},
}

// headerClaimOrder fixes the order roles claim header columns so a
// cell like "學年度" is taken by the year role before the looser
// keyword sets get a chance at it.
var headerClaimOrder = []ColumnRole{
	RoleAcademicYear,
	RoleSemester,
	RoleCourseName,
	RoleCredits,
	RoleGrade,
}

var academicYearRe = regexp.MustCompile(`^\d{3,4}$`)

// semesterTokens is the closed set of values a semester cell may hold.
var semesterTokens = map[string]struct{}{
	"上": {}, "下": {},
	"春": {}, "夏": {}, "秋": {}, "冬": {},
	"1": {}, "2": {}, "3": {},
	"spring": {}, "summer": {}, "fall": {}, "autumn": {}, "winter": {},
}

// Classifier decides whether an extracted table is a grades table and
// which column plays each semantic role.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(DefaultClassifierConfig())
}

// NewClassifierWithConfig creates a classifier with custom thresholds.
func NewClassifierWithConfig(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify maps semantic roles to column indexes for the given table.
// It returns ok=false when the table is not a grades table: a table is
// accepted only if a course-name column resolved and at least one of
// the credits or grade columns resolved.
func (c *Classifier) Classify(table RawTable) (RoleMap, bool) {
	if len(table) == 0 || len(table[0]) == 0 {
		return nil, false
	}

	width := tableWidth(table)
	roles := c.matchHeader(table[0], width)

	if !resolved(roles) && len(table) >= c.cfg.MinRows {
		c.classifyByContent(table, width, roles)
	}

	if _, ok := roles[RoleCourseName]; !ok {
		return nil, false
	}
	if !roles.HasValueColumn() {
		return nil, false
	}
	return roles, true
}

// resolved reports whether the mandatory roles are all assigned.
func resolved(roles RoleMap) bool {
	_, hasName := roles[RoleCourseName]
	return hasName && roles.HasValueColumn()
}

func tableWidth(table RawTable) int {
	w := 0
	for _, row := range table {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// matchHeader resolves roles by direct header-text matching on row 0.
func (c *Classifier) matchHeader(header []string, width int) RoleMap {
	cells := NormalizeRow(header, width)
	for i, cell := range cells {
		cells[i] = strings.ToLower(cell)
	}

	roles := RoleMap{}
	claimed := make(map[int]bool)
	for _, role := range headerClaimOrder {
		for col, cell := range cells {
			if cell == "" || claimed[col] {
				continue
			}
			if headerCellMatches(cell, headerKeywords[role]) {
				roles[role] = col
				claimed[col] = true
				break
			}
		}
	}
	return roles
}

// headerCellMatches also compares with spaces removed: PDF extractors
// wrap header text mid-word, so "科目名稱" arrives as "科目 名稱".
func headerCellMatches(cell string, keywords []string) bool {
	compact := strings.ReplaceAll(cell, " ", "")
	for _, kw := range keywords {
		if strings.Contains(cell, kw) || strings.Contains(compact, kw) {
			return true
		}
	}
	return false
}

// columnStats holds per-column predicate match counts over the sampled
// data rows.
type columnStats struct {
	sampled  int
	name     int // course-name predicate
	numeric  int // credit-like number in (0, MaxCreditValue]
	grade    int // grade token or pass/exempt marker
	year     int
	semester int
}

func (s columnStats) frac(n int) float64 {
	if s.sampled == 0 {
		return 0
	}
	return float64(n) / float64(s.sampled)
}

// value is the combined credits/grade predicate fraction.
func (s columnStats) value() float64 {
	return s.frac(s.numeric + s.grade)
}

// classifyByContent fills unresolved roles by scoring column content
// over a sample of data rows, then resolving ties by the typical
// left-to-right transcript ordering: year, semester, course name,
// credits, grade.
func (c *Classifier) classifyByContent(table RawTable, width int, roles RoleMap) {
	stats := c.sampleColumns(table, width)
	claimed := make(map[int]bool)
	for _, col := range roles {
		claimed[col] = true
	}

	if _, ok := roles[RoleAcademicYear]; !ok {
		if col := leftmost(stats, claimed, -1, func(s columnStats) bool {
			return s.frac(s.year) >= c.cfg.YearThreshold
		}); col >= 0 {
			roles[RoleAcademicYear] = col
			claimed[col] = true
		}
	}

	if _, ok := roles[RoleSemester]; !ok {
		after := roleIndexOr(roles, RoleAcademicYear, -1)
		if col := leftmost(stats, claimed, after, func(s columnStats) bool {
			return s.frac(s.semester) >= c.cfg.SemesterThreshold
		}); col >= 0 {
			roles[RoleSemester] = col
			claimed[col] = true
		}
	}

	if _, ok := roles[RoleCourseName]; !ok {
		after := roleIndexOr(roles, RoleSemester, -1)
		col := rightmost(stats, claimed, after, func(s columnStats) bool {
			return s.frac(s.name) >= c.cfg.CourseNameThreshold
		})
		if col < 0 && after >= 0 {
			// No qualifying column after the semester; fall back
			// to the whole table.
			col = rightmost(stats, claimed, -1, func(s columnStats) bool {
				return s.frac(s.name) >= c.cfg.CourseNameThreshold
			})
		}
		if col >= 0 {
			roles[RoleCourseName] = col
			claimed[col] = true
		}
	}

	nameIdx, hasName := roles[RoleCourseName]
	if !hasName {
		return
	}

	if _, ok := roles[RoleCredits]; !ok {
		if col := leftmost(stats, claimed, nameIdx, func(s columnStats) bool {
			return s.value() >= c.cfg.CreditsThreshold && s.numeric >= s.grade
		}); col >= 0 {
			roles[RoleCredits] = col
			claimed[col] = true
		}
	}

	if _, ok := roles[RoleGrade]; !ok {
		after := roleIndexOr(roles, RoleCredits, nameIdx)
		if col := rightmost(stats, claimed, after, func(s columnStats) bool {
			return s.value() >= c.cfg.GradeThreshold && s.grade >= s.numeric
		}); col >= 0 {
			roles[RoleGrade] = col
			claimed[col] = true
		}
	}
}

func (c *Classifier) sampleColumns(table RawTable, width int) []columnStats {
	stats := make([]columnStats, width)

	sampled := 0
	for _, row := range table[1:] {
		if sampled >= c.cfg.SampleRows {
			break
		}
		cells := NormalizeRow(row, width)
		for col, cell := range cells {
			stats[col].sampled++
			if cell == "" {
				continue
			}
			if isCourseNameCell(cell) {
				stats[col].name++
			}
			if n := ParseNumber(cell); n > 0 && n <= MaxCreditValue {
				stats[col].numeric++
			}
			if IsGradeToken(cell) || IsPassMarker(cell) {
				stats[col].grade++
			}
			if academicYearRe.MatchString(cell) {
				stats[col].year++
			}
			if _, ok := semesterTokens[strings.ToLower(cell)]; ok {
				stats[col].semester++
			}
		}
		sampled++
	}
	return stats
}

// isCourseNameCell is the course-name content predicate: at least one
// CJK ideograph, length >= 2, not purely numeric, and not itself a
// grade token or pass/exempt marker.
func isCourseNameCell(cell string) bool {
	if len([]rune(cell)) < 2 {
		return false
	}
	if IsNumeric(cell) || IsGradeToken(cell) || IsPassMarker(cell) {
		return false
	}
	return ContainsCJK(cell)
}

func leftmost(stats []columnStats, claimed map[int]bool, after int, match func(columnStats) bool) int {
	for col := after + 1; col < len(stats); col++ {
		if !claimed[col] && match(stats[col]) {
			return col
		}
	}
	return -1
}

func rightmost(stats []columnStats, claimed map[int]bool, after int, match func(columnStats) bool) int {
	for col := len(stats) - 1; col > after; col-- {
		if !claimed[col] && match(stats[col]) {
			return col
		}
	}
	return -1
}

func roleIndexOr(roles RoleMap, role ColumnRole, fallback int) int {
	if idx, ok := roles[role]; ok {
		return idx
	}
	return fallback
}
