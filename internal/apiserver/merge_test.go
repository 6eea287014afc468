package apiserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionovax/bionova/internal/types"
)

func item(title string, year int) types.ReportItem {
	return types.ReportItem{Title: title, Year: year}
}

func TestMergeReportsKeepsExistingOrder(t *testing.T) {
	existing := []types.ReportItem{item("A", 2010), item("B", 2015)}
	fresh := []types.ReportItem{item("C", 2020), item("A", 2010)}

	merged := mergeReports(existing, fresh)

	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].Title)
	assert.Equal(t, "B", merged[1].Title)
	assert.Equal(t, "C", merged[2].Title)
}

func TestMergeReportsIdentityIsCaseInsensitive(t *testing.T) {
	existing := []types.ReportItem{item("Rodent Research-1", 2014)}
	fresh := []types.ReportItem{item("  rodent research-1 ", 2014)}

	merged := mergeReports(existing, fresh)
	assert.Len(t, merged, 1)
}

func TestMergeReportsSameTitleDifferentYear(t *testing.T) {
	existing := []types.ReportItem{item("Survey", 2010)}
	fresh := []types.ReportItem{item("Survey", 2015)}

	merged := mergeReports(existing, fresh)
	assert.Len(t, merged, 2)
}

func TestMergeReportsEmptyFresh(t *testing.T) {
	existing := []types.ReportItem{item("A", 2010)}

	merged := mergeReports(existing, nil)
	assert.Equal(t, existing, merged)
}

func TestSanitizeSourceURLs(t *testing.T) {
	good := "https://genelab.nasa.gov/study/42"
	subdomain := "https://api.data.nasa.gov/resource"
	bad := "https://example.com/fake"
	lookalike := "https://evilgenelab.nasa.gov.attacker.io/x"
	scheme := "ftp://genelab.nasa.gov/file"

	report := []types.ReportItem{
		{Title: "A", SourceURL: &good},
		{Title: "B", SourceURL: &subdomain},
		{Title: "C", SourceURL: &bad},
		{Title: "D", SourceURL: &lookalike},
		{Title: "E", SourceURL: &scheme},
		{Title: "F", SourceURL: nil},
	}

	sanitizeSourceURLs(report)

	assert.NotNil(t, report[0].SourceURL)
	assert.NotNil(t, report[1].SourceURL)
	assert.Nil(t, report[2].SourceURL)
	assert.Nil(t, report[3].SourceURL)
	assert.Nil(t, report[4].SourceURL)
	assert.Nil(t, report[5].SourceURL)
}
