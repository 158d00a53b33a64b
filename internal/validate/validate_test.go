package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleColumn(name string, values ...string) *Table {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return &Table{Columns: []string{name}, Rows: rows}
}

func columnValues(t *testing.T, table *Table, name string) []string {
	idx, err := table.columnIndex(name)
	require.NoError(t, err)
	values := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		values[i] = row[idx]
	}
	return values
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Len(t, table.Rows, 2)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"1", "x"},
			{"1", "x"},
			{"1", "y"},
			{"1", "x"},
		},
	}
	table.Dedupe()
	assert.Equal(t, [][]string{{"1", "x"}, {"1", "y"}}, table.Rows)
}

func TestDropMissing(t *testing.T) {
	table := &Table{
		Columns: []string{"crop", "yield"},
		Rows: [][]string{
			{"Rice", "2.5"},
			{"", "3.0"},
			{"Wheat", "  "},
		},
	}
	require.NoError(t, table.DropMissing("crop", "yield"))
	assert.Equal(t, [][]string{{"Rice", "2.5"}}, table.Rows)

	assert.Error(t, table.DropMissing("missing"))
}

func TestTitleCase(t *testing.T) {
	table := singleColumn("crop", "  rice ", "RICE", "arhar/tur", "finger millet")
	require.NoError(t, table.TitleCase("crop"))
	assert.Equal(t, []string{"Rice", "Rice", "Arhar/tur", "Finger Millet"}, columnValues(t, table, "crop"))
}

func TestFilterIQROutliers(t *testing.T) {
	values := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		values = append(values, "10")
	}
	values = append(values, "1000")
	table := singleColumn("rainfall", values...)

	require.NoError(t, table.FilterIQROutliers("rainfall"))
	assert.Len(t, table.Rows, 20)
	assert.NotContains(t, columnValues(t, table, "rainfall"), "1000")
}

func TestFilterPercentileOutliers(t *testing.T) {
	values := make([]string, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, fmt.Sprintf("%d", i))
	}
	table := singleColumn("area", values...)

	require.NoError(t, table.FilterPercentileOutliers(0.05, 0.95, "area"))

	kept := columnValues(t, table, "area")
	assert.NotContains(t, kept, "1")
	assert.NotContains(t, kept, "100")
	assert.Contains(t, kept, "50")
}

func TestMinSupport(t *testing.T) {
	table := singleColumn("crop", "Rice", "Rice", "Rice", "Maize")
	require.NoError(t, table.MinSupport("crop", 3))
	assert.Equal(t, []string{"Rice", "Rice", "Rice"}, columnValues(t, table, "crop"))
}

func cropCSV() string {
	var b strings.Builder
	b.WriteString("N,P,K,temperature,humidity,ph,rainfall,label\n")
	row := func(i int, label, rainfall string) {
		fmt.Fprintf(&b, "%d,%d,%d,%d,%d,%.2f,%s,%s\n",
			80+i%10, 40+i%5, 40+i%5, 20+i%6, 80+i%5, 6.0+0.01*float64(i), rainfall, label)
	}
	for i := 0; i < 60; i++ {
		row(i, "rice", fmt.Sprintf("%d", 200+i%10))
	}
	// duplicate of the first row, an outlier, and an undersampled crop
	row(0, "rice", "200")
	row(61, "rice", "10000")
	for i := 0; i < 10; i++ {
		row(i, "maize", fmt.Sprintf("%d", 200+i%10))
	}
	return b.String()
}

func TestCleanCropRecommendation(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(cropCSV()))
	require.NoError(t, err)

	summary, err := CleanCropRecommendation(table)
	require.NoError(t, err)

	assert.Equal(t, 72, summary.OriginalRows)
	assert.Equal(t, 60, summary.CleanedRows)
	assert.Equal(t, 1, summary.UniqueLabels)
	assert.Equal(t, []string{"Rice"}, summary.Labels)
}

func TestCleanYieldDropsMissingAndTrims(t *testing.T) {
	var b strings.Builder
	b.WriteString("Crop,State,Season,Area,Production,Annual_Rainfall,Fertilizer,Pesticide,Yield\n")
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "rice,punjab,kharif,%d,300,1100,50,10,2.5\n", 100+i)
	}
	b.WriteString("rice,punjab,kharif,,300,1100,50,10,2.5\n")

	table, err := ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, err)

	summary, err := CleanYield(table)
	require.NoError(t, err)

	assert.Equal(t, 121, summary.OriginalRows)
	// only the Area column varies, so only its percentile trim bites
	assert.Less(t, summary.CleanedRows, 115)
	assert.Greater(t, summary.CleanedRows, 100)
	assert.Equal(t, []string{"Rice"}, summary.Labels)
}
