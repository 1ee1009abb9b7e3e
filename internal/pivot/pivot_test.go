package pivot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockstrip/pkg/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fact(name, end, accn string, v float64) models.Fact {
	return models.Fact{Name: name, PeriodEnd: day(end), AccessionNumber: accn, Value: v}
}

func annualSelection() *models.Selection {
	return &models.Selection{
		Requested: models.Form10K,
		Form:      models.Form10K,
		Filings: []models.SelectedFiling{
			{ReportDate: day("2023-12-31"), AccessionNumber: "k-2023"},
			{ReportDate: day("2022-12-31"), AccessionNumber: "k-2022"},
		},
	}
}

func TestBuildRestrictsToSelection(t *testing.T) {
	table := &models.FactTable{
		Labels: map[string]string{"Assets": "Assets", "Liabilities": "Liabilities"},
		Facts: []models.Fact{
			fact("Assets", "2021-12-31", "k-2022", 50), // prior-year comparative
			fact("Assets", "2022-12-31", "k-2022", 80),
			fact("Assets", "2022-12-31", "q-2023", 81), // accession not selected
			fact("Assets", "2023-06-30", "k-2023", 90), // not a report date
			fact("Assets", "2023-12-31", "k-2023", 100),
			fact("Liabilities", "2023-12-31", "k-2023", 40),
		},
	}

	m, err := Build("ACME", table, annualSelection())
	require.NoError(t, err)

	assert.Equal(t, "ACME", m.Stock)
	assert.Equal(t, models.Form10K, m.Form)
	require.Len(t, m.Columns, 2)
	assert.True(t, m.Columns[0].Equal(day("2023-12-31")), "columns newest first")

	v, ok := m.Value("Assets", day("2022-12-31"))
	require.True(t, ok)
	assert.Equal(t, 80.0, v)
	_, ok = m.Value("Assets", day("2021-12-31"))
	assert.False(t, ok)
	_, ok = m.Value("Liabilities", day("2022-12-31"))
	assert.False(t, ok, "holes stay holes")
}

func TestBuildAnnualCollisionsAverage(t *testing.T) {
	table := &models.FactTable{
		Labels: map[string]string{"Revenues": "Revenues"},
		Facts: []models.Fact{
			fact("Revenues", "2023-12-31", "k-2023", 100),
			fact("Revenues", "2023-12-31", "k-2023", 110),
		},
	}

	m, err := Build("ACME", table, annualSelection())
	require.NoError(t, err)
	v, _ := m.Value("Revenues", day("2023-12-31"))
	assert.Equal(t, 105.0, v)
}

func TestBuildQuarterlyKeepsLast(t *testing.T) {
	sel := &models.Selection{
		Requested: models.Form10Q,
		Form:      models.Form10Q,
		Filings: []models.SelectedFiling{
			{ReportDate: day("2023-09-30"), AccessionNumber: "q3"},
			{ReportDate: day("2023-06-30"), AccessionNumber: "q2"},
		},
	}
	table := &models.FactTable{
		Labels: map[string]string{"Revenues": "Revenues"},
		Facts: []models.Fact{
			fact("Revenues", "2023-06-30", "q2", 10), // three-month value
			fact("Revenues", "2023-06-30", "q2", 25), // six-month value, later in table
			fact("Revenues", "2023-09-30", "q3", 12),
		},
	}

	m, err := Build("ACME", table, sel)
	require.NoError(t, err)
	v, _ := m.Value("Revenues", day("2023-06-30"))
	assert.Equal(t, 25.0, v)
	assert.Equal(t, sel.Filings, m.Selection.Filings)
}

func TestBuildLabelCollisionFirstSortedNameWins(t *testing.T) {
	table := &models.FactTable{
		Labels: map[string]string{
			"RevenueFromContractWithCustomerExcludingAssessedTax": "Revenue",
			"Revenues": "Revenue",
		},
		Facts: []models.Fact{
			fact("Revenues", "2023-12-31", "k-2023", 999),
			fact("RevenueFromContractWithCustomerExcludingAssessedTax", "2023-12-31", "k-2023", 500),
		},
	}

	m, err := Build("ACME", table, annualSelection())
	require.NoError(t, err)
	v, _ := m.Value("Revenue", day("2023-12-31"))
	assert.Equal(t, 500.0, v)
	assert.Equal(t, []string{"Revenue"}, m.Labels())
}

func TestBuildNoMatchingFacts(t *testing.T) {
	table := &models.FactTable{Facts: []models.Fact{fact("Assets", "2020-12-31", "old", 1)}}

	_, err := Build("ACME", table, annualSelection())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	_, err = Build("ACME", nil, annualSelection())
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}
