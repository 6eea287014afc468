package gemini

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// SchemaKind selects the response schema constraining a structured call.
// Search and extend-search share one schema; the other operations each have
// their own.
type SchemaKind int

const (
	SchemaSearch SchemaKind = iota
	SchemaTimeline
	SchemaComparison
	SchemaHypothesis
	SchemaGlossary
)

func (k SchemaKind) String() string {
	switch k {
	case SchemaSearch:
		return "search"
	case SchemaTimeline:
		return "timeline"
	case SchemaComparison:
		return "comparison"
	case SchemaHypothesis:
		return "hypothesis"
	case SchemaGlossary:
		return "glossary"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// searchResponseSchema constrains search and extend-search output:
// summary + detailed report + knowledge graph.
var searchResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overview":    {Type: genai.TypeString},
				"years_range": {Type: genai.TypeString},
				"highlight_points": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"point":       {Type: genai.TypeString},
							"explanation": {Type: genai.TypeString},
						},
						Required: []string{"point", "explanation"},
					},
				},
			},
			Required: []string{"overview", "years_range", "highlight_points"},
		},
		"detailed_report": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":                 {Type: genai.TypeString},
					"year":                  {Type: genai.TypeInteger},
					"organism":              {Type: genai.TypeString},
					"mission_or_experiment": {Type: genai.TypeString},
					"main_findings":         {Type: genai.TypeString},
					"source_url":            {Type: genai.TypeString, Nullable: genai.Ptr(true)},
					"publication_type":      {Type: genai.TypeString},
				},
				Required: []string{"title", "year", "organism", "mission_or_experiment", "main_findings", "source_url", "publication_type"},
			},
		},
		"graph": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"nodes": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":   {Type: genai.TypeString},
							"type": {Type: genai.TypeString},
						},
						Required: []string{"id", "type"},
					},
				},
				"links": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"source": {Type: genai.TypeString},
							"target": {Type: genai.TypeString},
							"label":  {Type: genai.TypeString},
						},
						Required: []string{"source", "target", "label"},
					},
				},
			},
			Required: []string{"nodes", "links"},
		},
	},
	Required: []string{"summary", "detailed_report", "graph"},
}

var timelineResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mission_effectiveness": {Type: genai.TypeString},
		"future_potential":      {Type: genai.TypeString},
		"real_world_impact":     {Type: genai.TypeString},
	},
	Required: []string{"mission_effectiveness", "future_potential", "real_world_impact"},
}

var comparisonResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"comparison_summary": {Type: genai.TypeString},
		"key_comparison_points": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"aspect": {Type: genai.TypeString},
					"details": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"report_title": {Type: genai.TypeString},
								"value":        {Type: genai.TypeString},
							},
							Required: []string{"report_title", "value"},
						},
					},
					"synthesis": {Type: genai.TypeString},
				},
				Required: []string{"aspect", "details", "synthesis"},
			},
		},
	},
	Required: []string{"comparison_summary", "key_comparison_points"},
}

var hypothesisResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"hypothesis_statement": {Type: genai.TypeString},
		"rationale":            {Type: genai.TypeString},
		"suggested_next_steps": {Type: genai.TypeString},
	},
	Required: []string{"hypothesis_statement", "rationale", "suggested_next_steps"},
}

var glossaryResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"term":       {Type: genai.TypeString},
		"definition": {Type: genai.TypeString},
		"relevance":  {Type: genai.TypeString},
	},
	Required: []string{"term", "definition", "relevance"},
}

func genaiSchemaFor(kind SchemaKind) (*genai.Schema, error) {
	switch kind {
	case SchemaSearch:
		return searchResponseSchema, nil
	case SchemaTimeline:
		return timelineResponseSchema, nil
	case SchemaComparison:
		return comparisonResponseSchema, nil
	case SchemaHypothesis:
		return hypothesisResponseSchema, nil
	case SchemaGlossary:
		return glossaryResponseSchema, nil
	default:
		return nil, fmt.Errorf("no response schema for kind %s", kind)
	}
}

// JSON Schema counterparts of the genai schemas, used to re-check provider
// output server-side. The provider already enforces the schema, but a
// violation slipping through would otherwise reach the browser unnoticed.

var searchCheckSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"summary": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"overview":    {Type: "string"},
				"years_range": {Type: "string"},
				"highlight_points": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"point":       {Type: "string"},
							"explanation": {Type: "string"},
						},
						Required: []string{"point", "explanation"},
					},
				},
			},
			Required: []string{"overview", "years_range", "highlight_points"},
		},
		"detailed_report": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"title":                 {Type: "string"},
					"year":                  {Type: "integer"},
					"organism":              {Type: "string"},
					"mission_or_experiment": {Type: "string"},
					"main_findings":         {Type: "string"},
					"source_url":            {Types: []string{"string", "null"}},
					"publication_type":      {Type: "string"},
				},
				Required: []string{"title", "year", "organism", "mission_or_experiment", "main_findings", "source_url", "publication_type"},
			},
		},
		"graph": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"nodes": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"id":   {Type: "string"},
							"type": {Type: "string"},
						},
						Required: []string{"id", "type"},
					},
				},
				"links": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"source": {Type: "string"},
							"target": {Type: "string"},
							"label":  {Type: "string"},
						},
						Required: []string{"source", "target", "label"},
					},
				},
			},
			Required: []string{"nodes", "links"},
		},
	},
	Required: []string{"summary", "detailed_report", "graph"},
}

var timelineCheckSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"mission_effectiveness": {Type: "string"},
		"future_potential":      {Type: "string"},
		"real_world_impact":     {Type: "string"},
	},
	Required: []string{"mission_effectiveness", "future_potential", "real_world_impact"},
}

var comparisonCheckSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"comparison_summary": {Type: "string"},
		"key_comparison_points": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"aspect": {Type: "string"},
					"details": {
						Type: "array",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"report_title": {Type: "string"},
								"value":        {Type: "string"},
							},
							Required: []string{"report_title", "value"},
						},
					},
					"synthesis": {Type: "string"},
				},
				Required: []string{"aspect", "details", "synthesis"},
			},
		},
	},
	Required: []string{"comparison_summary", "key_comparison_points"},
}

var hypothesisCheckSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"hypothesis_statement": {Type: "string"},
		"rationale":            {Type: "string"},
		"suggested_next_steps": {Type: "string"},
	},
	Required: []string{"hypothesis_statement", "rationale", "suggested_next_steps"},
}

var glossaryCheckSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"term":       {Type: "string"},
		"definition": {Type: "string"},
		"relevance":  {Type: "string"},
	},
	Required: []string{"term", "definition", "relevance"},
}

func checkSchemaFor(kind SchemaKind) (*jsonschema.Schema, error) {
	switch kind {
	case SchemaSearch:
		return searchCheckSchema, nil
	case SchemaTimeline:
		return timelineCheckSchema, nil
	case SchemaComparison:
		return comparisonCheckSchema, nil
	case SchemaHypothesis:
		return hypothesisCheckSchema, nil
	case SchemaGlossary:
		return glossaryCheckSchema, nil
	default:
		return nil, fmt.Errorf("no check schema for kind %s", kind)
	}
}

// ValidateResponse checks a decoded provider payload against the JSON Schema
// for the given kind. A violation is fatal for the request.
func ValidateResponse(kind SchemaKind, payload any) error {
	schema, err := checkSchemaFor(kind)
	if err != nil {
		return err
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve %s schema: %w", kind, err)
	}

	if err := resolved.Validate(payload); err != nil {
		return fmt.Errorf("response violates %s schema: %w", kind, err)
	}

	return nil
}
