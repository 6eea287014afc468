package cache

import (
	"encoding/json"

	"github.com/bionovax/bionova/internal/types"
)

// keyPayload fixes the serialization order of the cache key fields. Struct
// marshaling emits fields in declaration order, so semantically identical
// requests always produce byte-identical keys regardless of the field order
// in the incoming JSON.
type keyPayload struct {
	Query   string              `json:"query"`
	Filters types.SearchFilters `json:"filters"`
}

// Key derives the canonical cache key for a search request. It is a pure
// function of the query and filter values.
func Key(query string, filters types.SearchFilters) string {
	// Normalize nil slices so {"organisms":null} and {"organisms":[]} hash
	// identically.
	if filters.Organisms == nil {
		filters.Organisms = []string{}
	}
	if filters.Missions == nil {
		filters.Missions = []string{}
	}
	if filters.ResearchAreas == nil {
		filters.ResearchAreas = []string{}
	}
	if filters.PublicationTypes == nil {
		filters.PublicationTypes = []string{}
	}

	data, err := json.Marshal(keyPayload{Query: query, Filters: filters})
	if err != nil {
		// Marshaling a struct of strings and ints cannot fail.
		panic(err)
	}
	return string(data)
}
