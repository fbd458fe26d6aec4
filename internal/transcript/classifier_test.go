package transcript

import "testing"

func gradesHeader() []string {
	return []string{"學年度", "學期", "選課代號", "科目名稱", "學分", "GPA"}
}

func TestClassifyByHeader(t *testing.T) {
	table := RawTable{
		gradesHeader(),
		{"111", "1", "CS101", "微積分", "3", "A"},
	}

	roles, ok := NewClassifier().Classify(table)
	if !ok {
		t.Fatal("expected header-labeled table to classify")
	}

	want := RoleMap{
		RoleAcademicYear: 0,
		RoleSemester:     1,
		RoleCourseName:   3,
		RoleCredits:      4,
		RoleGrade:        5,
	}
	for role, idx := range want {
		if got, ok := roles.Column(role); !ok || got != idx {
			t.Errorf("role %s = %d (ok=%v), want %d", role, got, ok, idx)
		}
	}
	if _, ok := roles[ColumnRole("課號")]; ok {
		t.Error("identifier column must not receive a role")
	}
}

func TestClassifyByContent(t *testing.T) {
	// No header keywords anywhere; only content statistics can
	// resolve the roles.
	table := RawTable{
		{"成績總表", "", "", "", "", ""},
		{"111", "上", "CS101", "微積分", "3", "A"},
		{"111", "上", "CS102", "資訊概論", "2", "B+"},
		{"111", "下", "CS103", "線性代數", "3", "C-"},
		{"112", "上", "CS104", "機率論", "3", "A-"},
		{"112", "下", "CS105", "資料結構", "3", "通過"},
	}

	roles, ok := NewClassifier().Classify(table)
	if !ok {
		t.Fatal("expected content-based classification to succeed")
	}

	want := RoleMap{
		RoleAcademicYear: 0,
		RoleSemester:     1,
		RoleCourseName:   3,
		RoleCredits:      4,
		RoleGrade:        5,
	}
	for role, idx := range want {
		if got, ok := roles.Column(role); !ok || got != idx {
			t.Errorf("role %s = %d (ok=%v), want %d", role, got, ok, idx)
		}
	}
}

func TestClassifyRejectsWithoutCourseName(t *testing.T) {
	// Numeric-only table: no column qualifies for the course name.
	table := RawTable{
		{"a", "b", "c"},
		{"111", "3", "4"},
		{"111", "2", "4"},
		{"112", "3", "3"},
		{"112", "1", "4"},
		{"112", "3", "2"},
	}

	if _, ok := NewClassifier().Classify(table); ok {
		t.Error("table without a course-name column must be rejected")
	}
}

func TestClassifyRejectsShortTableWithoutHeader(t *testing.T) {
	table := RawTable{
		{"x", "y", "z"},
		{"111", "微積分", "A"},
	}

	if _, ok := NewClassifier().Classify(table); ok {
		t.Error("short unlabeled table must be rejected for lack of samples")
	}
}

func TestClassifyRejectsEmptyTable(t *testing.T) {
	if _, ok := NewClassifier().Classify(RawTable{}); ok {
		t.Error("empty table must be rejected")
	}
	if _, ok := NewClassifier().Classify(RawTable{{}}); ok {
		t.Error("table with empty rows must be rejected")
	}
}

func TestClassifyAcceptsGradeOnlyTable(t *testing.T) {
	// A grades table may lack an explicit credits column; the grade
	// column alone satisfies the value requirement.
	table := RawTable{
		{"科目名稱", "等第"},
		{"微積分", "A"},
	}

	roles, ok := NewClassifier().Classify(table)
	if !ok {
		t.Fatal("expected name+grade table to classify")
	}
	if idx, ok := roles.Column(RoleGrade); !ok || idx != 1 {
		t.Errorf("grade column = %d (ok=%v), want 1", idx, ok)
	}
	if _, ok := roles.Column(RoleCredits); ok {
		t.Error("credits role must stay unresolved, not defaulted")
	}
}

func TestClassifyHeaderWithWrappedCells(t *testing.T) {
	// Extractors return header text with embedded newlines.
	table := RawTable{
		{"學\n年度", "學期", "科目\n名稱", "學分", "GPA"},
		{"111", "1", "微積分", "3", "A"},
	}

	roles, ok := NewClassifier().Classify(table)
	if !ok {
		t.Fatal("expected wrapped header cells to match")
	}
	if idx, _ := roles.Column(RoleCourseName); idx != 2 {
		t.Errorf("course name column = %d, want 2", idx)
	}
}
