package validate

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Table is a small in-memory CSV frame used by the dataset cleaning
// pipelines. Rows hold raw string cells; numeric columns are parsed on
// demand.
type Table struct {
	Columns []string
	Rows    [][]string
}

func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (t *Table) columnIndex(name string) (int, error) {
	for i, col := range t.Columns {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found", name)
}

func (t *Table) columnValues(name string) ([]float64, error) {
	idx, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q has non-numeric value %q: %w", name, row[idx], err)
		}
		values = append(values, v)
	}
	return values, nil
}

func (t *Table) filterRows(keep func(row []string) bool) {
	filtered := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			filtered = append(filtered, row)
		}
	}
	t.Rows = filtered
}

// Dedupe removes rows that are exact duplicates of an earlier row.
func (t *Table) Dedupe() {
	seen := make(map[string]bool, len(t.Rows))
	t.filterRows(func(row []string) bool {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// DropMissing removes rows with an empty cell in any of the given columns.
func (t *Table) DropMissing(columns ...string) error {
	indices := make([]int, 0, len(columns))
	for _, col := range columns {
		idx, err := t.columnIndex(col)
		if err != nil {
			return err
		}
		indices = append(indices, idx)
	}
	t.filterRows(func(row []string) bool {
		for _, idx := range indices {
			if strings.TrimSpace(row[idx]) == "" {
				return false
			}
		}
		return true
	})
	return nil
}

// TitleCase trims and title-cases every cell in the given columns so
// that label variants like "rice" and " RICE " collapse to "Rice".
func (t *Table) TitleCase(columns ...string) error {
	for _, col := range columns {
		idx, err := t.columnIndex(col)
		if err != nil {
			return err
		}
		for _, row := range t.Rows {
			row[idx] = titleCase(strings.TrimSpace(row[idx]))
		}
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// quantile returns the linearly interpolated p-quantile of values,
// matching the interpolation pandas uses by default.
func quantile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// FilterIQROutliers drops rows whose value in any given column falls
// outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. Bounds are computed per column
// against the rows remaining after the previous column's filter.
func (t *Table) FilterIQROutliers(columns ...string) error {
	for _, col := range columns {
		if err := t.filterRange(col, func(values []float64) (float64, float64) {
			q1 := quantile(values, 0.25)
			q3 := quantile(values, 0.75)
			iqr := q3 - q1
			return q1 - 1.5*iqr, q3 + 1.5*iqr
		}); err != nil {
			return err
		}
	}
	return nil
}

// FilterPercentileOutliers keeps only rows whose value in each given
// column lies within the [low, high] percentile band. This is the
// lenient mode used for heavy-tailed agricultural measurements.
func (t *Table) FilterPercentileOutliers(low, high float64, columns ...string) error {
	for _, col := range columns {
		if err := t.filterRange(col, func(values []float64) (float64, float64) {
			return quantile(values, low), quantile(values, high)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) filterRange(column string, bounds func(values []float64) (float64, float64)) error {
	values, err := t.columnValues(column)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	lower, upper := bounds(values)
	idx, _ := t.columnIndex(column)
	t.filterRows(func(row []string) bool {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		return err == nil && v >= lower && v <= upper
	})
	return nil
}

// MinSupport drops all rows whose value in column occurs fewer than
// min times across the table.
func (t *Table) MinSupport(column string, min int) error {
	idx, err := t.columnIndex(column)
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, row := range t.Rows {
		counts[row[idx]]++
	}
	t.filterRows(func(row []string) bool {
		return counts[row[idx]] >= min
	})
	return nil
}

// UniqueValues returns the sorted distinct values of column.
func (t *Table) UniqueValues(column string) ([]string, error) {
	idx, err := t.columnIndex(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		seen[row[idx]] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}
