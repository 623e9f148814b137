package core

// transform.go is the column-to-row pivot that normalizes a wide
// pricing worksheet into the long-format rating table. The iteration is
// deliberately a plain nested loop - options outer, source rows inner -
// with one local counter per option block; there is no state shared
// across invocations.

import "strings"

// metadataColumns are the optional carry-forward columns, expected at
// the tail of the input header when present.
var metadataColumns = []string{PlanCodeColumn, RateZoneColumn, DateFromColumn, DateToColumn}

// layout describes where everything lives in the input table.
type layout struct {
	meta    map[string]int // metadata column name -> index, present columns only
	options []int          // deductible option column indexes, in source order
}

// resolveLayout validates the input shape: Age first, at least one
// deductible option column. Every column that is neither Age nor one of
// the four metadata names is an option.
func resolveLayout(t *Table) (*layout, error) {
	if len(t.Columns) == 0 {
		return nil, &SchemaError{Msg: "table has no columns"}
	}
	if !equalColumn(t.Columns[0], AgeColumn) {
		if t.ColumnIndex(AgeColumn) < 0 {
			return nil, &SchemaError{Msg: "required column Age is missing"}
		}
		return nil, &SchemaError{Msg: "column Age must be the first column"}
	}

	l := &layout{meta: make(map[string]int, len(metadataColumns))}
	for i, col := range t.Columns[1:] {
		idx := i + 1
		if name, ok := metadataName(col); ok {
			l.meta[name] = idx
			continue
		}
		l.options = append(l.options, idx)
	}

	if len(l.options) == 0 {
		return nil, &SchemaError{Msg: "no deductible option columns found"}
	}
	return l, nil
}

// metadataName maps a header to its canonical metadata column name.
func metadataName(col string) (string, bool) {
	for _, name := range metadataColumns {
		if equalColumn(col, name) {
			return name, true
		}
	}
	return "", false
}

// Transform reshapes the input table into the normalized output rows.
// The input is never mutated: the carry-forward pass runs on a private
// copy. Any malformed Age or premium cell aborts the whole run.
func Transform(input *Table) ([]Row, Summary, error) {
	l, err := resolveLayout(input)
	if err != nil {
		return nil, Summary{}, err
	}

	// Private copy so forward-fill never leaks into the caller's table.
	work := &Table{Columns: input.Columns, Rows: copyRows(input.Rows)}
	for _, idx := range l.meta {
		forwardFill(work.Rows, idx)
	}

	summary := Summary{Options: len(l.options), SourceRows: len(work.Rows)}
	var out []Row

	for _, optCol := range l.options {
		option := strings.TrimSpace(work.Columns[optCol])

		// Counts processed (non-skipped) source rows within this
		// option's block, before explosion. Resets per option.
		processed := 0

		for i := range work.Rows {
			ageFrom, ageTo, ok := parseAgeRange(work.Cell(i, 0))
			if !ok {
				return nil, Summary{}, &ParseError{
					Row:   i + 1,
					Value: work.Cell(i, 0),
					Msg:   "want a single integer or an A-B range with A <= B",
				}
			}

			premium, missing, ok := parsePremium(work.Cell(i, optCol))
			if !ok {
				return nil, Summary{}, &TypeError{Row: i + 1, Option: option, Value: work.Cell(i, optCol)}
			}
			if missing {
				summary.Skipped++
				continue
			}

			amount := roundPremium(premium)

			component := ComponentPremium
			if processed < DependentRowsPerOption {
				component = ComponentDependent
			}
			processed++

			meta := rowMetadata(work, l, i)

			// Member Premium rows are always priced per individual age.
			// Member Dependent rows are too when the range starts inside
			// the independent window; otherwise the grouped range stands.
			explode := component == ComponentPremium ||
				(IndependentAgeMin <= ageFrom && ageFrom <= IndependentAgeMax)

			if explode {
				for age := ageFrom; age <= ageTo; age++ {
					out = append(out, newRow(meta, age, age, component, amount, option))
				}
			} else {
				out = append(out, newRow(meta, ageFrom, ageTo, component, amount, option))
			}
		}

		// Blank divider closes every option block, the last included.
		out = append(out, Row{})
	}

	finalize(out, l)

	summary.OutputRows = len(out)
	return out, summary, nil
}

// metadata holds the carry-forward values attached to one source row.
type metadata struct {
	planCode, rateZone, dateFrom, dateTo string
}

// rowMetadata reads the forward-filled metadata cells for a source row.
// Absent columns yield empty strings.
func rowMetadata(t *Table, l *layout, row int) metadata {
	get := func(name string) string {
		idx, ok := l.meta[name]
		if !ok {
			return ""
		}
		return t.Cell(row, idx)
	}
	return metadata{
		planCode: get(PlanCodeColumn),
		rateZone: get(RateZoneColumn),
		dateFrom: get(DateFromColumn),
		dateTo:   get(DateToColumn),
	}
}

// newRow builds one output row with the premium replicated into the
// Annual, Renewal and Transfer components.
func newRow(m metadata, ageFrom, ageTo int, component string, amount int, option string) Row {
	return Row{
		PlanCode:         m.planCode,
		RateZone:         m.rateZone,
		AgeFrom:          intPtr(ageFrom),
		AgeTo:            intPtr(ageTo),
		InvoiceComponent: component,
		Annual:           intPtr(amount),
		Renewal:          intPtr(amount),
		Transfer:         intPtr(amount),
		OptionName:       option,
		DateFrom:         m.dateFrom,
		DateTo:           m.dateTo,
	}
}

// finalize is the post-processing pass: rows without an age (the
// dividers, however they were built) lose their invoice component, and
// date metadata is normalized to month/day/year without leading zeros.
func finalize(rows []Row, l *layout) {
	_, hasDateFrom := l.meta[DateFromColumn]
	_, hasDateTo := l.meta[DateToColumn]

	for i := range rows {
		if rows[i].AgeFrom == nil {
			rows[i].InvoiceComponent = ""
			continue
		}
		if hasDateFrom {
			rows[i].DateFrom = normalizeDate(rows[i].DateFrom)
		}
		if hasDateTo {
			rows[i].DateTo = normalizeDate(rows[i].DateTo)
		}
	}
}

// copyRows deep-copies the cell grid.
func copyRows(rows [][]string) [][]string {
	dup := make([][]string, len(rows))
	for i, r := range rows {
		dup[i] = append([]string(nil), r...)
	}
	return dup
}

func intPtr(v int) *int {
	return &v
}
