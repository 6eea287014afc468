package apiserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bionovax/bionova/internal/types"
)

// Request size caps, matching the public API contract.
const (
	maxQueryLength     = 500
	maxChatQueryLength = 2000
	maxTermLength      = 100
)

// ValidationError aggregates every violated field of a request body, not
// just the first one.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Details, ", ")
}

func (e *ValidationError) add(format string, args ...any) {
	e.Details = append(e.Details, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Details) == 0 {
		return nil
	}
	return e
}

// searchRequest is the strict /search body. Pointer fields distinguish
// missing keys from present-but-empty values.
type searchRequest struct {
	Query   *string              `json:"query"`
	Filters *searchFilterPayload `json:"filters"`
}

type searchFilterPayload struct {
	YearRange        *[]int    `json:"yearRange"`
	Organisms        *[]string `json:"organisms"`
	Missions         *[]string `json:"missions"`
	ResearchAreas    *[]string `json:"researchAreas"`
	PublicationTypes *[]string `json:"publicationTypes"`
}

// validateSearch checks a /search body and returns the normalized query and
// filters. The query may be empty but is trimmed and length-capped; every
// filter key must be present, possibly empty.
func validateSearch(req searchRequest) (string, types.SearchFilters, error) {
	verr := &ValidationError{}
	var filters types.SearchFilters

	query := ""
	if req.Query != nil {
		query = strings.TrimSpace(*req.Query)
		if len(query) > maxQueryLength {
			verr.add("query must be at most %d characters", maxQueryLength)
		}
	}

	if req.Filters == nil {
		verr.add("filters is required")
		return query, filters, verr
	}

	f := req.Filters
	switch {
	case f.YearRange == nil:
		verr.add("filters.yearRange is required")
	case len(*f.YearRange) != 2:
		verr.add("filters.yearRange must contain exactly 2 years")
	case (*f.YearRange)[0] > (*f.YearRange)[1]:
		verr.add("filters.yearRange start must not exceed end")
	default:
		filters.YearRange = [2]int{(*f.YearRange)[0], (*f.YearRange)[1]}
	}

	if f.Organisms == nil {
		verr.add("filters.organisms is required")
	} else {
		filters.Organisms = *f.Organisms
	}
	if f.Missions == nil {
		verr.add("filters.missions is required")
	} else {
		filters.Missions = *f.Missions
	}
	if f.ResearchAreas == nil {
		verr.add("filters.researchAreas is required")
	} else {
		filters.ResearchAreas = *f.ResearchAreas
	}
	if f.PublicationTypes == nil {
		verr.add("filters.publicationTypes is required")
	} else {
		filters.PublicationTypes = *f.PublicationTypes
	}

	return query, filters, verr.orNil()
}

// extendSearchRequest is the /extend-search body. Filters and the prior
// result are loosely validated: they only have to be JSON objects.
type extendSearchRequest struct {
	Query          *string         `json:"query"`
	ExistingResult json.RawMessage `json:"existingResult"`
	Filters        json.RawMessage `json:"filters"`
}

// looseFilters mirrors types.SearchFilters with optional keys; absent
// dimensions stay at their unfiltered defaults.
type looseFilters struct {
	YearRange        *[2]int  `json:"yearRange"`
	Organisms        []string `json:"organisms"`
	Missions         []string `json:"missions"`
	ResearchAreas    []string `json:"researchAreas"`
	PublicationTypes []string `json:"publicationTypes"`
}

func validateExtendSearch(req extendSearchRequest) (string, error) {
	verr := &ValidationError{}

	query := ""
	if req.Query == nil || strings.TrimSpace(*req.Query) == "" {
		verr.add("query is required")
	} else {
		query = strings.TrimSpace(*req.Query)
		if len(query) > maxQueryLength {
			verr.add("query must be at most %d characters", maxQueryLength)
		}
	}

	if !isJSONObject(req.ExistingResult) {
		verr.add("existingResult must be an object")
	}
	if !isJSONObject(req.Filters) {
		verr.add("filters must be an object")
	}

	return query, verr.orNil()
}

type searchResultRequest struct {
	SearchResult json.RawMessage `json:"searchResult"`
}

func validateSearchResultBody(req searchResultRequest) error {
	verr := &ValidationError{}
	if !isJSONObject(req.SearchResult) {
		verr.add("searchResult must be an object")
	}
	return verr.orNil()
}

type comparisonRequest struct {
	Items []json.RawMessage `json:"items"`
}

func validateComparison(req comparisonRequest) error {
	verr := &ValidationError{}
	if len(req.Items) < 2 {
		verr.add("items must contain at least 2 reports")
	}
	for i, item := range req.Items {
		if !isJSONObject(item) {
			verr.add("items[%d] must be an object", i)
		}
	}
	return verr.orNil()
}

type glossaryRequest struct {
	Term *string `json:"term"`
}

func validateGlossary(req glossaryRequest) (string, error) {
	verr := &ValidationError{}

	term := ""
	if req.Term == nil || strings.TrimSpace(*req.Term) == "" {
		verr.add("term is required")
	} else {
		term = strings.TrimSpace(*req.Term)
		if len(term) > maxTermLength {
			verr.add("term must be at most %d characters", maxTermLength)
		}
	}

	return term, verr.orNil()
}

type chatRequest struct {
	Query               *string          `json:"query"`
	InitialSearchQuery  *string          `json:"initialSearchQuery"`
	SearchResultContext json.RawMessage  `json:"searchResultContext"`
	History             []types.ChatTurn `json:"history"`
}

func validateChat(req chatRequest) error {
	verr := &ValidationError{}

	if req.Query == nil || *req.Query == "" {
		verr.add("query is required")
	} else if len(*req.Query) > maxChatQueryLength {
		verr.add("query must be at most %d characters", maxChatQueryLength)
	}

	if req.InitialSearchQuery == nil || *req.InitialSearchQuery == "" {
		verr.add("initialSearchQuery is required")
	}

	if !isJSONObject(req.SearchResultContext) {
		verr.add("searchResultContext must be an object")
	}

	if req.History == nil {
		verr.add("history is required")
	}
	for i, turn := range req.History {
		if turn.Role != types.ChatRoleUser && turn.Role != types.ChatRoleModel {
			verr.add("history[%d].role must be %q or %q", i, types.ChatRoleUser, types.ChatRoleModel)
		}
		if turn.Parts == nil {
			verr.add("history[%d].parts is required", i)
		}
		for j, part := range turn.Parts {
			if part.Text == "" {
				verr.add("history[%d].parts[%d].text is required", i, j)
			}
		}
	}

	return verr.orNil()
}

// isJSONObject reports whether raw is a JSON object (not an array, scalar,
// null, or absent field).
func isJSONObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}
