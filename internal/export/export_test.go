package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/tars-systems/leadscout/internal/model"
)

func sampleLeads() []model.Candidate {
	return []model.Candidate{
		{
			Name:              "FullMatch Technologies",
			Website:           "https://fullmatch.example",
			Phone:             "+91 20 1234 5678",
			Address:           "Baner, Pune",
			Rating:            4.6,
			Description:       "ERP, automation, and software for manufacturers",
			Email:             "sales@fullmatch.example",
			CEO:               &model.Person{Name: "Priya Sharma", ProfileURL: "https://www.linkedin.com/in/priya"},
			CompanyProfileURL: "https://www.linkedin.com/company/fullmatch",
			FitScore:          8,
		},
		{
			Name:        "OneTerm Systems",
			Description: "We sell software",
			FitScore:    2,
		},
	}
}

func TestRow_FullLead(t *testing.T) {
	row := Row(sampleLeads()[0])

	require.Len(t, row, len(Columns))
	assert.Equal(t, []string{
		"FullMatch Technologies",
		"https://fullmatch.example",
		"+91 20 1234 5678",
		"Baner, Pune",
		"4.6",
		"ERP, automation, and software for manufacturers",
		"sales@fullmatch.example",
		"Priya Sharma",
		"https://www.linkedin.com/company/fullmatch",
		"https://www.linkedin.com/in/priya",
	}, row)
}

func TestRow_AbsentFields(t *testing.T) {
	row := Row(sampleLeads()[1])

	require.Len(t, row, len(Columns))
	assert.Equal(t, "", row[4], "zero rating renders empty, not 0")
	assert.Equal(t, "Not Available", row[7])
	assert.Equal(t, "", row[9], "absent CEO has no profile link")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleLeads()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "FullMatch Technologies", records[1][0])
	assert.Equal(t, "Priya Sharma", records[1][7])
	assert.Equal(t, "Not Available", records[2][7])
}

func TestWriteCSV_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleLeads()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	for i, col := range Columns {
		assert.Equal(t, col, sheet.Rows[0].Cells[i].String())
	}
	assert.Equal(t, "FullMatch Technologies", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Not Available", sheet.Rows[2].Cells[7].String())
}
