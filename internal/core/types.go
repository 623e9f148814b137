package core

// Business rule constants for row classification and age-range explosion.
//
// The first DependentRowsPerOption processed rows within each option's
// block are invoiced as "Member Dependent"; everything after that is
// "Member Premium". Dependent rows whose lower age bound falls inside
// the independent window are priced per individual age rather than as a
// grouped range. The values come straight from the rating team's
// worksheet conventions.
const (
	// DependentRowsPerOption is how many processed rows per option block
	// are classified as Member Dependent before switching to Member Premium.
	DependentRowsPerOption = 7

	// IndependentAgeMin and IndependentAgeMax bound the age window
	// (inclusive, tested against AgeFrom) in which dependents must be
	// individually priced.
	IndependentAgeMin = 18
	IndependentAgeMax = 23
)

// Invoice component values for non-divider output rows.
const (
	ComponentDependent = "Member Dependent"
	ComponentPremium   = "Member Premium"
)

// Well-known input column names. AgeColumn must be the first column of
// the input sheet; the metadata columns are optional and, when present,
// are expected at the end of the column list.
const (
	AgeColumn      = "Age"
	PlanCodeColumn = "PlanCode"
	RateZoneColumn = "RateZone"
	DateFromColumn = "DateFrom"
	DateToColumn   = "DateTo"
)

// OutputColumns is the fixed header of the normalized table, in the
// order downstream rating systems expect.
var OutputColumns = []string{
	"PlanCode", "RateZone", "AgeFrom", "AgeTo", "InvoiceComponent",
	"Annual", "Renewal", "Transfer", "OptionName", "DateFrom", "DateTo",
}

// Table is an in-memory worksheet: a header and string cell rows.
// Rows may be ragged; Cell treats out-of-range columns as blank.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" when the row is shorter
// than the header. Decoded xlsx rows drop trailing empty cells, so this
// happens on real input.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the position of the named column, matched
// case-insensitively after trimming, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if equalColumn(c, name) {
			return i
		}
	}
	return -1
}

// Row is one line of the normalized output table. Divider rows are the
// zero value: every string field empty and every numeric field nil, so
// serialization handles them like any other row.
type Row struct {
	PlanCode         string
	RateZone         string
	AgeFrom          *int
	AgeTo            *int
	InvoiceComponent string
	Annual           *int
	Renewal          *int
	Transfer         *int
	OptionName       string
	DateFrom         string
	DateTo           string
}

// IsDivider reports whether the row is a blank block separator.
func (r Row) IsDivider() bool {
	return r.AgeFrom == nil
}

// Summary describes one completed transformation, for logging and the
// shell's status reporting.
type Summary struct {
	Options    int // deductible option columns processed
	SourceRows int // input rows (excluding the header)
	OutputRows int // emitted rows, dividers included
	Skipped    int // (row, option) pairs skipped for missing premiums
}
