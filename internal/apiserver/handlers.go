package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bionovax/bionova/internal/cache"
	"github.com/bionovax/bionova/internal/gemini"
	"github.com/bionovax/bionova/internal/metrics"
	"github.com/bionovax/bionova/internal/prompt"
	"github.com/bionovax/bionova/internal/types"
)

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeRawJSON sends a payload that is already serialized, such as a cached
// result or a schema-validated provider response.
func writeRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:   "Invalid request data provided.",
		Details: err.Error(),
	})
}

// decodeBody parses the request body into dst. A malformed body is reported
// through the same envelope as a failed validation.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Invalid request data provided.",
			Details: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "BioNova-X Backend is running!")
}

// handleSearch serves POST /api/search: cache lookup first, then one
// provider call shared across concurrent identical requests.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointSearch)
	logger := zerolog.Ctx(r.Context())

	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	query, filters, err := validateSearch(req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	key := cache.Key(query, filters)

	if entry := s.cacheLookup(r.Context(), key); entry != nil && entry.Fresh(s.now(), s.config.CacheTTL) {
		logger.Info().Str("cache_key", key).Msg("cache hit")
		writeRawJSON(w, http.StatusOK, entry.Result)
		return
	}

	logger.Info().Str("cache_key", key).Msg("cache miss, calling AI provider")

	// The flight may outlive the request that started it: other requests for
	// the same key wait on the same call, so it must not die with the
	// leader's connection.
	flightCtx := context.WithoutCancel(r.Context())
	result, err, _ := s.flight.Do(key, func() (any, error) {
		return s.runSearch(flightCtx, query, filters, key)
	})
	if err != nil {
		logger.Error().Err(err).Str("cache_key", key).Msg("search failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch data from AI provider.",
			Details: err.Error(),
		})
		return
	}

	writeRawJSON(w, http.StatusOK, result.([]byte))
}

// runSearch performs the provider call for a cache miss, sanitizes source
// URLs and stores the result. Cache write failures are logged, not surfaced.
func (s *Server) runSearch(ctx context.Context, query string, filters types.SearchFilters, key string) ([]byte, error) {
	system := prompt.SystemInstruction(filters, s.now())
	user := prompt.SearchUserPrompt(query)

	raw, err := s.provider.GenerateJSON(ctx, system, user, gemini.SchemaSearch)
	if err != nil {
		return nil, err
	}

	sanitized, err := s.sanitizeResult(raw)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, key, sanitized); err != nil {
			s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to cache search result")
		}
	}

	return sanitized, nil
}

// handleExtendSearch serves POST /api/extend-search. The provider is asked
// for new items; the union with the prior report is enforced server-side so
// the response always contains every original item.
func (s *Server) handleExtendSearch(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointExtendSearch)
	logger := zerolog.Ctx(r.Context())

	var req extendSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	query, err := validateExtendSearch(req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	filters := s.extendFilters(req.Filters)

	var existing types.AiSearchResult
	_ = json.Unmarshal(req.ExistingResult, &existing)
	if existing.DetailedReport == nil {
		existing.DetailedReport = []types.ReportItem{}
	}

	existingReport, _ := json.Marshal(existing.DetailedReport)

	system := prompt.SystemInstruction(filters, s.now())
	user := prompt.ExtendUserPrompt(query, existingReport)

	raw, err := s.provider.GenerateJSON(r.Context(), system, user, gemini.SchemaSearch)
	if err != nil {
		logger.Error().Err(err).Msg("extend-search failed")
		writeProviderError(w, err)
		return
	}

	var fresh types.AiSearchResult
	if err := json.Unmarshal(raw, &fresh); err != nil {
		logger.Error().Err(err).Msg("extend-search returned unparseable result")
		writeProviderError(w, err)
		return
	}

	fresh.DetailedReport = mergeReports(existing.DetailedReport, fresh.DetailedReport)
	sanitizeSourceURLs(fresh.DetailedReport)

	merged, err := json.Marshal(fresh)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	writeRawJSON(w, http.StatusOK, merged)
}

// extendFilters parses loosely-structured filters; absent dimensions stay at
// their unfiltered defaults so they place no constraint on the model.
func (s *Server) extendFilters(raw json.RawMessage) types.SearchFilters {
	var loose looseFilters
	_ = json.Unmarshal(raw, &loose)

	filters := types.SearchFilters{
		YearRange:        [2]int{types.DefaultMinYear, s.now().Year()},
		Organisms:        loose.Organisms,
		Missions:         loose.Missions,
		ResearchAreas:    loose.ResearchAreas,
		PublicationTypes: loose.PublicationTypes,
	}
	if loose.YearRange != nil {
		filters.YearRange = *loose.YearRange
	}
	return filters
}

func writeProviderError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:   "Failed to process request with AI provider.",
		Details: err.Error(),
	})
}

// structuredCall runs one schema-bound generation and relays the validated
// payload verbatim.
func (s *Server) structuredCall(w http.ResponseWriter, r *http.Request, system, user string, kind gemini.SchemaKind) {
	raw, err := s.provider.GenerateJSON(r.Context(), system, user, kind)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("schema", kind.String()).Msg("structured generation failed")
		writeProviderError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, raw)
}

func (s *Server) handleTimelineAnalysis(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointTimeline)

	var req searchResultRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateSearchResultBody(req); err != nil {
		writeValidationError(w, err)
		return
	}

	system, user := prompt.TimelinePrompt(req.SearchResult)
	s.structuredCall(w, r, system, user, gemini.SchemaTimeline)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointComparison)

	var req comparisonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateComparison(req); err != nil {
		writeValidationError(w, err)
		return
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	system, user := prompt.ComparisonPrompt(items)
	s.structuredCall(w, r, system, user, gemini.SchemaComparison)
}

func (s *Server) handleHypothesis(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointHypothesis)

	var req searchResultRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateSearchResultBody(req); err != nil {
		writeValidationError(w, err)
		return
	}

	system, user := prompt.HypothesisPrompt(req.SearchResult)
	s.structuredCall(w, r, system, user, gemini.SchemaHypothesis)
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointGlossary)

	var req glossaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	term, err := validateGlossary(req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	system, user := prompt.GlossaryPrompt(term)
	s.structuredCall(w, r, system, user, gemini.SchemaGlossary)
}

// handleChat serves POST /api/chat as a chunked text/plain stream. Each
// model fragment is written and flushed as it arrives. Once streaming has
// begun, a mid-stream provider error silently truncates the response; the
// status line is already on the wire.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRequest(metrics.EndpointChat)
	logger := zerolog.Ctx(r.Context())

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateChat(req); err != nil {
		writeValidationError(w, err)
		return
	}

	var searchContext types.AiSearchResult
	_ = json.Unmarshal(req.SearchResultContext, &searchContext)

	system := prompt.ChatSystemInstruction(*req.InitialSearchQuery, searchContext)

	stream, err := s.provider.StreamChat(r.Context(), system, req.History, *req.Query)
	if err != nil {
		logger.Error().Err(err).Msg("chat stream failed to open")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Failed to process chat request with AI provider.")
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for {
		fragment, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error().Err(err).Msg("chat stream truncated")
			}
			return
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			logger.Debug().Err(err).Msg("chat client disconnected")
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// sanitizeResult nulls out report source URLs pointing outside the approved
// NASA domains, then re-serializes the result.
func (s *Server) sanitizeResult(raw json.RawMessage) ([]byte, error) {
	var result types.AiSearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	sanitizeSourceURLs(result.DetailedReport)
	return json.Marshal(result)
}

// cacheLookup treats any read failure as a miss so the cache can never take
// the search endpoint down.
func (s *Server) cacheLookup(ctx context.Context, key string) *cache.Entry {
	if s.store == nil {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	entry, err := s.store.Lookup(lookupCtx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("cache lookup failed, treating as miss")
		return nil
	}
	return entry
}
