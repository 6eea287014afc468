// Package prompt deterministically derives Gemini system instructions and
// user prompts from request state. Filter constraints are rendered from a
// declarative ordered rule table so the clause order and the conjunctive
// strictness of filtered searches stay explicit.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bionovax/bionova/internal/types"
)

// filterRule maps one filter dimension to its MUST-match clause. Rules are
// evaluated in a fixed order: year, organisms, missions, researchAreas,
// publicationTypes.
type filterRule struct {
	active func(f types.SearchFilters, now time.Time) bool
	render func(f types.SearchFilters) string
}

var filterRules = []filterRule{
	{
		active: func(f types.SearchFilters, now time.Time) bool {
			return f.YearRange[0] != types.DefaultMinYear || f.YearRange[1] != now.Year()
		},
		render: func(f types.SearchFilters) string {
			return fmt.Sprintf("- The publication year MUST be between %d and %d (inclusive).", f.YearRange[0], f.YearRange[1])
		},
	},
	{
		active: func(f types.SearchFilters, _ time.Time) bool { return len(f.Organisms) > 0 },
		render: func(f types.SearchFilters) string {
			return fmt.Sprintf("- The research MUST involve one or more of the following organism(s): %s.", strings.Join(f.Organisms, ", "))
		},
	},
	{
		active: func(f types.SearchFilters, _ time.Time) bool { return len(f.Missions) > 0 },
		render: func(f types.SearchFilters) string {
			return fmt.Sprintf("- The research MUST be related to one of the following mission(s) or platform(s): %s.", strings.Join(f.Missions, ", "))
		},
	},
	{
		active: func(f types.SearchFilters, _ time.Time) bool { return len(f.ResearchAreas) > 0 },
		render: func(f types.SearchFilters) string {
			return fmt.Sprintf("- The research MUST fall under one of the following area(s): %s.", strings.Join(f.ResearchAreas, ", "))
		},
	},
	{
		active: func(f types.SearchFilters, _ time.Time) bool { return len(f.PublicationTypes) > 0 },
		render: func(f types.SearchFilters) string {
			return fmt.Sprintf("- The result MUST be one of the following publication type(s): %s.", strings.Join(f.PublicationTypes, ", "))
		},
	},
}

// FiltersActive reports whether any filter dimension deviates from the
// unfiltered default. The default year range ends at the current calendar
// year, so the test must be recomputed against now on every call.
func FiltersActive(filters types.SearchFilters, now time.Time) bool {
	for _, rule := range filterRules {
		if rule.active(filters, now) {
			return true
		}
	}
	return false
}

// SystemInstruction builds the search system instruction for the given
// filter state. Inactive filters select the general instruction; any active
// filter switches to the strict instruction with one MUST-clause per active
// dimension, conjunctive over active dimensions only.
func SystemInstruction(filters types.SearchFilters, now time.Time) string {
	if !FiltersActive(filters, now) {
		return generalSystemInstruction
	}

	clauses := make([]string, 0, len(filterRules))
	for _, rule := range filterRules {
		if rule.active(filters, now) {
			clauses = append(clauses, rule.render(filters))
		}
	}

	return strictSystemInstructionBase +
		"\n**CRITICAL SEARCH CRITERIA FOR THIS REQUEST:**\n" +
		strings.Join(clauses, "\n")
}

// SearchUserPrompt returns the user content for a plain search. An empty
// query falls back to a broad default topic.
func SearchUserPrompt(query string) string {
	if strings.TrimSpace(query) == "" {
		return "general space biology research"
	}
	return query
}

// ExtendUserPrompt builds the user content for an extend-search request. The
// prior detailed report is serialized into the prompt and the model is
// instructed to return the deduplicated union of old and new items with the
// summary and graph recomputed over the combined set.
func ExtendUserPrompt(query string, existingReport json.RawMessage) string {
	report := prettyJSON(existingReport)
	return fmt.Sprintf(`The user is searching for %q. They previously received the report below. Your task is to find *new* and *distinct* research items that were not in the original report, while still strictly adhering to all filter criteria defined in the system instruction. Then, generate a new, comprehensive response that integrates both the old and new findings. The final 'detailed_report' should contain all original items plus the new ones, without duplicates. The 'summary' and 'graph' should be updated to reflect the combined knowledge.

Here is the original report to avoid duplicating:
---
%s
---

Generate the complete, updated JSON response based on the combined data.`, query, report)
}

// TimelinePrompt returns the instruction pair for a timeline impact analysis.
func TimelinePrompt(searchResult json.RawMessage) (system, user string) {
	user = fmt.Sprintf("Based on the following search result data, please generate the impact analysis.\n\n**Search Result Data:**\n---\n%s\n---", prettyJSON(searchResult))
	return timelineSystemInstruction, user
}

// ComparisonPrompt returns the instruction pair for a multi-item comparison.
func ComparisonPrompt(items json.RawMessage) (system, user string) {
	user = fmt.Sprintf("Please perform a comparative analysis of the following research reports:\n\n**Reports to Compare:**\n---\n%s\n---", prettyJSON(items))
	return comparisonSystemInstruction, user
}

// HypothesisPrompt returns the instruction pair for hypothesis generation.
func HypothesisPrompt(searchResult json.RawMessage) (system, user string) {
	user = fmt.Sprintf("Based on the following search result data, please generate a scientific hypothesis.\n\n**Search Result Data:**\n---\n%s\n---", prettyJSON(searchResult))
	return hypothesisSystemInstruction, user
}

// GlossaryPrompt returns the instruction pair for a single-term lookup.
func GlossaryPrompt(term string) (system, user string) {
	user = fmt.Sprintf("Please provide a simple definition and the space biology relevance for the following term: %q", term)
	return glossarySystemInstruction, user
}

// ChatSystemInstruction builds the fixed system instruction for a chat
// session. It interpolates the initial search query, a natural-language
// digest of the summary, and the serialized detailed report, and binds the
// assistant strictly to that context.
func ChatSystemInstruction(initialSearchQuery string, context types.AiSearchResult) string {
	points := make([]string, 0, len(context.Summary.HighlightPoints))
	for _, p := range context.Summary.HighlightPoints {
		points = append(points, fmt.Sprintf("- %s: %s", p.Point, p.Explanation))
	}
	summaryContext := fmt.Sprintf("Overview: %s. Highlight Points: %s",
		context.Summary.Overview, strings.Join(points, "\n"))

	reportJSON, err := json.MarshalIndent(context.DetailedReport, "", "  ")
	if err != nil {
		reportJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are an expert AI research assistant for the BioNova-X application, specializing in NASA's Space Biology data. The user has just searched for: %q.

Your task is to answer follow-up questions based *strictly* on the provided search result data below. You are a highly capable assistant that can analyze, compare, and provide deep insights from the given context.

**Core Capabilities & Rules:**
1.  **Comprehensive Analysis:** Answer questions about specific details, summarize findings, and explain complex topics in simple terms.
2.  **Comparative Analysis:** You can compare and contrast findings between different experiments, missions, or organisms mentioned in the report. For example, "Compare the effects of microgravity on plants vs. mice."
3.  **Strictly Data-Driven:** Base your answers *only* on the provided 'Summary' and 'Detailed Report'. Reference specific studies by title if relevant.
4.  **Acknowledge Limits:** If the user's question cannot be answered from the provided data, you *must* state that clearly. For example, say "That information is not available in the current search results." Do not guess, infer, or use external knowledge.

---
**Provided Search Data Context:**

**Summary:**
%s

**Detailed Report:**
%s
---
`, initialSearchQuery, summaryContext, string(reportJSON))
}

// prettyJSON re-indents raw JSON for prompt readability. Invalid input is
// passed through untouched; the model still sees the caller's payload.
func prettyJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
