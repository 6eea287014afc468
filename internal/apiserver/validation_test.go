package apiserver

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bionovax/bionova/internal/types"
)

func strPtr(s string) *string { return &s }

func validSearchRequest() searchRequest {
	years := []int{1960, 2026}
	empty := []string{}
	return searchRequest{
		Query: strPtr("bone density"),
		Filters: &searchFilterPayload{
			YearRange:        &years,
			Organisms:        &empty,
			Missions:         &empty,
			ResearchAreas:    &empty,
			PublicationTypes: &empty,
		},
	}
}

func TestValidateSearchValid(t *testing.T) {
	query, filters, err := validateSearch(validSearchRequest())
	require.NoError(t, err)
	assert.Equal(t, "bone density", query)
	assert.Equal(t, [2]int{1960, 2026}, filters.YearRange)
	assert.Empty(t, filters.Organisms)
}

func TestValidateSearchAllowsEmptyQuery(t *testing.T) {
	req := validSearchRequest()
	req.Query = strPtr("")
	_, _, err := validateSearch(req)
	assert.NoError(t, err)

	req.Query = nil
	_, _, err = validateSearch(req)
	assert.NoError(t, err)
}

func TestValidateSearchTrimsQuery(t *testing.T) {
	req := validSearchRequest()
	req.Query = strPtr("  microgravity  ")
	query, _, err := validateSearch(req)
	require.NoError(t, err)
	assert.Equal(t, "microgravity", query)
}

func TestValidateSearchQueryTooLong(t *testing.T) {
	req := validSearchRequest()
	req.Query = strPtr(strings.Repeat("x", maxQueryLength+1))
	_, _, err := validateSearch(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestValidateSearchMissingFilters(t *testing.T) {
	req := validSearchRequest()
	req.Filters = nil
	_, _, err := validateSearch(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filters is required")
}

func TestValidateSearchMissingYearRange(t *testing.T) {
	req := validSearchRequest()
	req.Filters.YearRange = nil
	_, _, err := validateSearch(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yearRange")
}

func TestValidateSearchBadYearRange(t *testing.T) {
	req := validSearchRequest()
	three := []int{1960, 2000, 2026}
	req.Filters.YearRange = &three

	_, _, err := validateSearch(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2")

	inverted := []int{2026, 1960}
	req.Filters.YearRange = &inverted
	_, _, err = validateSearch(req)
	require.Error(t, err)
}

func TestValidateSearchAggregatesAllViolations(t *testing.T) {
	req := searchRequest{
		Query:   strPtr(strings.Repeat("x", maxQueryLength+1)),
		Filters: &searchFilterPayload{},
	}

	_, _, err := validateSearch(req)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// Query violation plus all five missing filter keys, comma-joined.
	assert.Len(t, verr.Details, 6)
	assert.Contains(t, err.Error(), ", ")
}

func TestValidateExtendSearch(t *testing.T) {
	valid := extendSearchRequest{
		Query:          strPtr("plant growth"),
		ExistingResult: json.RawMessage(`{"detailed_report":[]}`),
		Filters:        json.RawMessage(`{}`),
	}
	query, err := validateExtendSearch(valid)
	require.NoError(t, err)
	assert.Equal(t, "plant growth", query)

	missing := valid
	missing.Query = nil
	_, err = validateExtendSearch(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")

	badResult := valid
	badResult.ExistingResult = json.RawMessage(`[]`)
	_, err = validateExtendSearch(badResult)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existingResult")
}

func TestValidateComparison(t *testing.T) {
	obj := json.RawMessage(`{"title":"A"}`)

	assert.NoError(t, validateComparison(comparisonRequest{Items: []json.RawMessage{obj, obj}}))

	err := validateComparison(comparisonRequest{Items: []json.RawMessage{obj}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")

	err = validateComparison(comparisonRequest{Items: []json.RawMessage{obj, json.RawMessage(`"text"`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[1]")
}

func TestValidateGlossary(t *testing.T) {
	term, err := validateGlossary(glossaryRequest{Term: strPtr("  microgravity ")})
	require.NoError(t, err)
	assert.Equal(t, "microgravity", term)

	_, err = validateGlossary(glossaryRequest{})
	require.Error(t, err)

	_, err = validateGlossary(glossaryRequest{Term: strPtr(strings.Repeat("x", maxTermLength+1))})
	require.Error(t, err)
}

func TestValidateChat(t *testing.T) {
	valid := chatRequest{
		Query:               strPtr("what about mice?"),
		InitialSearchQuery:  strPtr("bone density"),
		SearchResultContext: json.RawMessage(`{"summary":{}}`),
		History:             []types.ChatTurn{},
	}
	assert.NoError(t, validateChat(valid))

	withHistory := valid
	withHistory.History = []types.ChatTurn{
		{Role: types.ChatRoleUser, Parts: []types.ChatPart{{Text: "hi"}}},
		{Role: types.ChatRoleModel, Parts: []types.ChatPart{{Text: "hello"}}},
	}
	assert.NoError(t, validateChat(withHistory))

	badRole := valid
	badRole.History = []types.ChatTurn{{Role: "assistant", Parts: []types.ChatPart{{Text: "hi"}}}}
	err := validateChat(badRole)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history[0].role")

	emptyPart := valid
	emptyPart.History = []types.ChatTurn{
		{Role: types.ChatRoleUser, Parts: []types.ChatPart{{Text: "hi"}, {Text: ""}}},
	}
	err = validateChat(emptyPart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history[0].parts[1].text")

	noHistory := valid
	noHistory.History = nil
	err = validateChat(noHistory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is required")

	noContext := valid
	noContext.SearchResultContext = nil
	err = validateChat(noContext)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "searchResultContext")
}
