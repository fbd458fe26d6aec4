package transcript

// ColumnRole identifies the semantic meaning of a positional column in
// an extracted grades table.
type ColumnRole string

const (
	RoleAcademicYear ColumnRole = "academic_year"
	RoleSemester     ColumnRole = "semester"
	RoleCourseName   ColumnRole = "course_name"
	RoleCredits      ColumnRole = "credits"
	RoleGrade        ColumnRole = "grade"
)

// AllColumnRoles returns every recognized column role.
func AllColumnRoles() []ColumnRole {
	return []ColumnRole{
		RoleAcademicYear,
		RoleSemester,
		RoleCourseName,
		RoleCredits,
		RoleGrade,
	}
}

// IsValid checks if the column role is one of the recognized roles.
func (r ColumnRole) IsValid() bool {
	switch r {
	case RoleAcademicYear, RoleSemester, RoleCourseName, RoleCredits, RoleGrade:
		return true
	default:
		return false
	}
}

// DisplayName returns a human-readable name for the role.
func (r ColumnRole) DisplayName() string {
	switch r {
	case RoleAcademicYear:
		return "Academic Year"
	case RoleSemester:
		return "Semester"
	case RoleCourseName:
		return "Course Name"
	case RoleCredits:
		return "Credits"
	case RoleGrade:
		return "Grade"
	default:
		return "Unknown"
	}
}

// RoleMap maps a column role to its column index in a RawTable.
// Unresolved roles are simply absent; they are never defaulted to a
// guess.
type RoleMap map[ColumnRole]int

// Column returns the column index assigned to a role.
func (m RoleMap) Column(role ColumnRole) (int, bool) {
	idx, ok := m[role]
	return idx, ok
}

// HasValueColumn reports whether at least one of the credits or grade
// columns is resolved. A table without either cannot be aggregated.
func (m RoleMap) HasValueColumn() bool {
	_, hasCredits := m[RoleCredits]
	_, hasGrade := m[RoleGrade]
	return hasCredits || hasGrade
}

// RawTable is a rectangular grid of cell text as produced by the table
// extractor. Rows may be ragged; missing cells are treated as empty.
type RawTable [][]string
