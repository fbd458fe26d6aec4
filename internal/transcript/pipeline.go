package transcript

import (
	"strings"

	"github.com/rs/zerolog"
)

// DefaultExcludedSubjects lists course-name substrings whose rows are
// administrative scores rather than credit-bearing courses. 勞作成績
// (labor score) shows up as a graded row on the targeted transcripts
// but carries no academic credit.
var DefaultExcludedSubjects = []string{"勞作成績"}

// Options configures an Analyzer's defaults. Zero values fall back to
// the package defaults.
type Options struct {
	GraduationCredits float64
	PassingFloor      float64
	ExcludedSubjects  []string
	Classifier        ClassifierConfig
}

// AnalyzeOptions are per-request overrides, matching the user-editable
// knobs of the upload form (graduation target and grade mapping).
type AnalyzeOptions struct {
	GraduationCredits float64
	GradeOverrides    map[string]float64
}

// Result is the outcome of analyzing one document's tables.
type Result struct {
	Records    []CourseRecord `json:"records"`
	Summary    Summary        `json:"summary"`
	TablesSeen int            `json:"tables_seen"`
	TablesUsed int            `json:"tables_used"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// Analyzer chains the pipeline stages over extracted tables:
// classification, row reconstruction (with cell splitting) and
// aggregation. Each stage emits structured log records; per-table
// failures are demoted to debug logs and the table is skipped.
type Analyzer struct {
	classifier        *Classifier
	mapping           GradeMapping
	graduationCredits float64
	passingFloor      float64
	excludedSubjects  []string
	log               zerolog.Logger
}

// NewAnalyzer creates an analyzer with the given defaults.
func NewAnalyzer(log zerolog.Logger, opts Options) *Analyzer {
	if opts.GraduationCredits <= 0 {
		opts.GraduationCredits = DefaultGraduationCredits
	}
	if opts.PassingFloor <= 0 {
		opts.PassingFloor = DefaultPassingFloor
	}
	cfg := opts.Classifier
	if cfg.MinRows == 0 {
		cfg = DefaultClassifierConfig()
	}
	excluded := opts.ExcludedSubjects
	if excluded == nil {
		excluded = DefaultExcludedSubjects
	}
	return &Analyzer{
		classifier:        NewClassifierWithConfig(cfg),
		mapping:           DefaultGradeMapping(),
		graduationCredits: opts.GraduationCredits,
		passingFloor:      opts.PassingFloor,
		excludedSubjects:  excluded,
		log:               log,
	}
}

// Analyze runs the full pipeline over the extracted tables. Tables
// that do not classify as grades tables are skipped; if nothing
// classifies the result carries a warning instead of an error.
func (a *Analyzer) Analyze(tables []RawTable, opts AnalyzeOptions) *Result {
	result := &Result{
		Records:    []CourseRecord{},
		TablesSeen: len(tables),
	}

	for i, table := range tables {
		roles, ok := a.classifier.Classify(table)
		if !ok {
			a.log.Debug().Int("table", i).Int("rows", len(table)).
				Msg("table rejected by column classifier")
			continue
		}
		a.log.Debug().Int("table", i).Interface("roles", roles).
			Msg("table classified as grades table")

		records := Reconstruct(table, roles)
		a.log.Debug().Int("table", i).Int("records", len(records)).
			Msg("rows reconstructed")

		for _, rec := range records {
			if a.isExcludedSubject(rec.CourseName) {
				a.log.Debug().Int("table", i).Str("course", rec.CourseName).
					Msg("administrative score row excluded")
				continue
			}
			rec.SourceTable = i
			result.Records = append(result.Records, rec)
		}
		result.TablesUsed++
	}

	if result.TablesUsed == 0 {
		result.Warnings = append(result.Warnings,
			"no grades tables recognized in document")
	}

	mapping := a.mapping
	if len(opts.GradeOverrides) > 0 {
		mapping = mapping.Merge(opts.GradeOverrides)
	}
	graduation := a.graduationCredits
	if opts.GraduationCredits > 0 {
		graduation = opts.GraduationCredits
	}

	result.Summary = Aggregate(result.Records, mapping, graduation, a.passingFloor)

	a.log.Info().
		Int("tables_seen", result.TablesSeen).
		Int("tables_used", result.TablesUsed).
		Int("records", len(result.Records)).
		Float64("total_credits", result.Summary.TotalCredits).
		Float64("remaining_credits", result.Summary.RemainingCredits).
		Msg("transcript analysis complete")

	return result
}

// isExcludedSubject reports whether a course name marks an
// administrative score row that must not count toward credits.
func (a *Analyzer) isExcludedSubject(name string) bool {
	for _, sub := range a.excludedSubjects {
		if sub != "" && strings.Contains(name, sub) {
			return true
		}
	}
	return false
}
