package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestValidateResponseSearch(t *testing.T) {
	payload := decode(t, `{
		"summary": {"overview": "o", "years_range": "2010-2020", "highlight_points": [
			{"point": "p", "explanation": "e"}
		]},
		"detailed_report": [
			{"title": "A", "year": 2015, "organism": "Mus musculus",
			 "mission_or_experiment": "ISS", "main_findings": "f",
			 "source_url": "https://genelab.nasa.gov/study/1",
			 "publication_type": "Journal Article"}
		],
		"graph": {"nodes": [{"id": "n1", "type": "organism"}],
		          "links": [{"source": "n1", "target": "n1", "label": "self"}]}
	}`)

	assert.NoError(t, ValidateResponse(SchemaSearch, payload))
}

func TestValidateResponseSearchAllowsNullSourceURL(t *testing.T) {
	payload := decode(t, `{
		"summary": {"overview": "o", "years_range": "", "highlight_points": []},
		"detailed_report": [
			{"title": "A", "year": 2015, "organism": "", "mission_or_experiment": "",
			 "main_findings": "", "source_url": null, "publication_type": ""}
		],
		"graph": {"nodes": [], "links": []}
	}`)

	assert.NoError(t, ValidateResponse(SchemaSearch, payload))
}

func TestValidateResponseSearchMissingSection(t *testing.T) {
	payload := decode(t, `{"summary": {"overview": "o", "years_range": "", "highlight_points": []}}`)
	assert.Error(t, ValidateResponse(SchemaSearch, payload))
}

func TestValidateResponseSearchWrongType(t *testing.T) {
	payload := decode(t, `{
		"summary": {"overview": "o", "years_range": "", "highlight_points": []},
		"detailed_report": [
			{"title": "A", "year": "2015", "organism": "", "mission_or_experiment": "",
			 "main_findings": "", "source_url": null, "publication_type": ""}
		],
		"graph": {"nodes": [], "links": []}
	}`)

	assert.Error(t, ValidateResponse(SchemaSearch, payload))
}

func TestValidateResponseTimeline(t *testing.T) {
	valid := decode(t, `{"mission_effectiveness": "a", "future_potential": "b", "real_world_impact": "c"}`)
	assert.NoError(t, ValidateResponse(SchemaTimeline, valid))

	missing := decode(t, `{"mission_effectiveness": "a"}`)
	assert.Error(t, ValidateResponse(SchemaTimeline, missing))
}

func TestValidateResponseComparison(t *testing.T) {
	valid := decode(t, `{
		"comparison_summary": "s",
		"key_comparison_points": [
			{"aspect": "Organism",
			 "details": [{"report_title": "A", "value": "mice"}],
			 "synthesis": "x"}
		]
	}`)
	assert.NoError(t, ValidateResponse(SchemaComparison, valid))
}

func TestValidateResponseHypothesis(t *testing.T) {
	valid := decode(t, `{"hypothesis_statement": "h", "rationale": "r", "suggested_next_steps": "n"}`)
	assert.NoError(t, ValidateResponse(SchemaHypothesis, valid))
}

func TestValidateResponseGlossary(t *testing.T) {
	valid := decode(t, `{"term": "microgravity", "definition": "d", "relevance": "r"}`)
	assert.NoError(t, ValidateResponse(SchemaGlossary, valid))

	missing := decode(t, `{"term": "microgravity"}`)
	assert.Error(t, ValidateResponse(SchemaGlossary, missing))
}

func TestSchemaKindString(t *testing.T) {
	assert.Equal(t, "search", SchemaSearch.String())
	assert.Equal(t, "glossary", SchemaGlossary.String())
}
