// Package core implements the pricing-table normalization that turns a
// wide worksheet (one row per age bucket, one column per deductible
// option) into the long-format table consumed by downstream rating
// systems: one row per (age range, deductible option, invoice component).
//
// The package has no UI or transport dependencies. The HTTP shell in
// internal/web decodes the uploaded workbook into a Table, calls
// Transform (via Service), and serializes the result back to xlsx.
//
// # Transformation outline
//
//  1. Forward-fill the sparse metadata columns (PlanCode, RateZone,
//     DateFrom, DateTo) so every row carries a value.
//  2. Treat every non-Age, non-metadata column as a deductible option,
//     in source column order.
//  3. For each option, walk the source rows: parse the age range, skip
//     rows with a missing premium, round the premium, classify the row
//     as Member Dependent or Member Premium by its position within the
//     option's block, and explode age ranges into per-age rows where
//     the classification demands it.
//  4. Separate option blocks with fully-blank divider rows.
//
// All failures are fatal to the whole transformation: there is no
// partial output. See ParseError, TypeError and SchemaError.
package core
