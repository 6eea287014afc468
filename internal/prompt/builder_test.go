package prompt

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionovax/bionova/internal/types"
)

var testNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func defaultFilters() types.SearchFilters {
	return types.SearchFilters{
		YearRange: [2]int{types.DefaultMinYear, testNow.Year()},
	}
}

func TestFiltersActiveDefaults(t *testing.T) {
	assert.False(t, FiltersActive(defaultFilters(), testNow))
}

func TestFiltersActiveYearDeviation(t *testing.T) {
	f := defaultFilters()
	f.YearRange = [2]int{1990, testNow.Year()}
	assert.True(t, FiltersActive(f, testNow))

	// A default range against a different "current year" is a deviation too.
	assert.True(t, FiltersActive(defaultFilters(), testNow.AddDate(1, 0, 0)))
}

func TestFiltersActiveListDimensions(t *testing.T) {
	for name, mutate := range map[string]func(*types.SearchFilters){
		"organisms":        func(f *types.SearchFilters) { f.Organisms = []string{"Mus musculus"} },
		"missions":         func(f *types.SearchFilters) { f.Missions = []string{"ISS"} },
		"researchAreas":    func(f *types.SearchFilters) { f.ResearchAreas = []string{"Radiation Biology"} },
		"publicationTypes": func(f *types.SearchFilters) { f.PublicationTypes = []string{"Journal Article"} },
	} {
		t.Run(name, func(t *testing.T) {
			f := defaultFilters()
			mutate(&f)
			assert.True(t, FiltersActive(f, testNow))
		})
	}
}

func TestSystemInstructionGeneral(t *testing.T) {
	instr := SystemInstruction(defaultFilters(), testNow)

	assert.NotContains(t, instr, "CRITICAL SEARCH CRITERIA")
	assert.NotContains(t, instr, "NON-NEGOTIABLE")
	assert.Contains(t, instr, "Comprehensive Summaries")
	assert.Contains(t, instr, "CRITICAL DATA SOURCE CONSTRAINT")
}

func TestSystemInstructionStrictSingleDimension(t *testing.T) {
	f := defaultFilters()
	f.Organisms = []string{"Mus musculus", "Arabidopsis thaliana"}

	instr := SystemInstruction(f, testNow)

	assert.Contains(t, instr, "ABSOLUTE and NON-NEGOTIABLE")
	assert.Contains(t, instr, "**CRITICAL SEARCH CRITERIA FOR THIS REQUEST:**")
	assert.Contains(t, instr, "- The research MUST involve one or more of the following organism(s): Mus musculus, Arabidopsis thaliana.")

	// Only the organisms clause is present.
	assert.Equal(t, 1, strings.Count(instr, "MUST involve"))
	assert.NotContains(t, instr, "publication year MUST")
	assert.NotContains(t, instr, "mission(s) or platform(s)")
}

func TestSystemInstructionClauseOrder(t *testing.T) {
	f := types.SearchFilters{
		YearRange:        [2]int{2000, 2020},
		Organisms:        []string{"Mus musculus"},
		Missions:         []string{"ISS"},
		ResearchAreas:    []string{"Bone Density"},
		PublicationTypes: []string{"Journal Article"},
	}

	instr := SystemInstruction(f, testNow)

	yearIdx := strings.Index(instr, "publication year MUST be between 2000 and 2020")
	orgIdx := strings.Index(instr, "organism(s): Mus musculus")
	missionIdx := strings.Index(instr, "mission(s) or platform(s): ISS")
	areaIdx := strings.Index(instr, "area(s): Bone Density")
	typeIdx := strings.Index(instr, "publication type(s): Journal Article")

	require.True(t, yearIdx >= 0 && orgIdx >= 0 && missionIdx >= 0 && areaIdx >= 0 && typeIdx >= 0)
	assert.True(t, yearIdx < orgIdx && orgIdx < missionIdx && missionIdx < areaIdx && areaIdx < typeIdx)
}

func TestSearchUserPromptFallback(t *testing.T) {
	assert.Equal(t, "general space biology research", SearchUserPrompt(""))
	assert.Equal(t, "general space biology research", SearchUserPrompt("   "))
	assert.Equal(t, "bone loss in microgravity", SearchUserPrompt("bone loss in microgravity"))
}

func TestExtendUserPromptEmbedsReport(t *testing.T) {
	report := json.RawMessage(`[{"title":"Study A","year":2019}]`)

	out := ExtendUserPrompt("plant growth", report)

	assert.Contains(t, out, `"plant growth"`)
	assert.Contains(t, out, `"title": "Study A"`)
	assert.Contains(t, out, "*new* and *distinct*")
	assert.Contains(t, out, "without duplicates")
}

func TestAnalysisPromptsEmbedPayload(t *testing.T) {
	payload := json.RawMessage(`{"summary":{"overview":"test overview"}}`)

	sysT, userT := TimelinePrompt(payload)
	assert.Contains(t, sysT, "impact analysis")
	assert.Contains(t, userT, "test overview")

	sysH, userH := HypothesisPrompt(payload)
	assert.Contains(t, sysH, "hypothesis")
	assert.Contains(t, userH, "test overview")

	sysC, userC := ComparisonPrompt(json.RawMessage(`[{"title":"A"},{"title":"B"}]`))
	assert.Contains(t, sysC, "comparative analysis")
	assert.Contains(t, userC, `"title": "A"`)

	sysG, userG := GlossaryPrompt("microgravity")
	assert.Contains(t, sysG, "science communicator")
	assert.Contains(t, userG, `"microgravity"`)
}

func TestChatSystemInstruction(t *testing.T) {
	url := "https://genelab.nasa.gov/study/1"
	context := types.AiSearchResult{
		Summary: types.Summary{
			Overview: "Mice lose bone density in orbit.",
			HighlightPoints: []types.HighlightPoint{
				{Point: "Bone loss", Explanation: "Up to 1.5% per month."},
			},
		},
		DetailedReport: []types.ReportItem{
			{Title: "Rodent Research-1", Year: 2014, SourceURL: &url},
		},
	}

	instr := ChatSystemInstruction("bone density", context)

	assert.Contains(t, instr, `"bone density"`)
	assert.Contains(t, instr, "Overview: Mice lose bone density in orbit.")
	assert.Contains(t, instr, "- Bone loss: Up to 1.5% per month.")
	assert.Contains(t, instr, `"title": "Rodent Research-1"`)
	assert.Contains(t, instr, "That information is not available in the current search results.")
}
