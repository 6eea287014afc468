package types

import "time"

// DefaultMinYear is the lower bound of the unfiltered publication year range.
// The upper bound is always the current calendar year.
const DefaultMinYear = 1960

// SearchFilters narrows a search to specific years, organisms, missions,
// research areas and publication types. The zero filter set (full historical
// year range, all lists empty) imposes no constraints.
type SearchFilters struct {
	YearRange        [2]int   `json:"yearRange"`
	Organisms        []string `json:"organisms"`
	Missions         []string `json:"missions"`
	ResearchAreas    []string `json:"researchAreas"`
	PublicationTypes []string `json:"publicationTypes"`
}

// HighlightPoint is a single notable finding in a search summary.
type HighlightPoint struct {
	Point       string `json:"point"`
	Explanation string `json:"explanation"`
}

// Summary is the overview section of a search result.
type Summary struct {
	Overview        string           `json:"overview"`
	YearsRange      string           `json:"years_range"`
	HighlightPoints []HighlightPoint `json:"highlight_points"`
}

// ReportItem is one research item in the detailed report. SourceURL is nil
// when no link within the allowed data portals could be found; it is never
// a fabricated URL.
type ReportItem struct {
	Title               string  `json:"title"`
	Year                int     `json:"year"`
	Organism            string  `json:"organism"`
	MissionOrExperiment string  `json:"mission_or_experiment"`
	MainFindings        string  `json:"main_findings"`
	SourceURL           *string `json:"source_url"`
	PublicationType     string  `json:"publication_type"`
}

// GraphNode is a node in the knowledge graph.
type GraphNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// GraphLink is a labelled edge between two graph nodes.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Graph is the knowledge graph derived from a search result.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// AiSearchResult is the structured response for search and extend-search.
type AiSearchResult struct {
	Summary        Summary      `json:"summary"`
	DetailedReport []ReportItem `json:"detailed_report"`
	Graph          Graph        `json:"graph"`
}

// TimelineAnalysis is the impact analysis generated for a result set.
type TimelineAnalysis struct {
	MissionEffectiveness string `json:"mission_effectiveness"`
	FuturePotential      string `json:"future_potential"`
	RealWorldImpact      string `json:"real_world_impact"`
}

// ComparisonDetail is one report's value for a comparison aspect.
type ComparisonDetail struct {
	ReportTitle string `json:"report_title"`
	Value       string `json:"value"`
}

// ComparisonPoint compares all selected reports along a single aspect.
type ComparisonPoint struct {
	Aspect    string             `json:"aspect"`
	Details   []ComparisonDetail `json:"details"`
	Synthesis string             `json:"synthesis"`
}

// ComparisonResult is the side-by-side analysis of two or more reports.
type ComparisonResult struct {
	ComparisonSummary   string            `json:"comparison_summary"`
	KeyComparisonPoints []ComparisonPoint `json:"key_comparison_points"`
}

// Hypothesis is a generated, falsifiable scientific hypothesis.
type Hypothesis struct {
	HypothesisStatement string `json:"hypothesis_statement"`
	Rationale           string `json:"rationale"`
	SuggestedNextSteps  string `json:"suggested_next_steps"`
}

// GlossaryEntry is a definition of a space biology term.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Relevance  string `json:"relevance"`
}

// Chat roles accepted in conversation history.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatPart is one text fragment of a chat turn.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatTurn is one turn in a chat conversation. The full conversation is
// reconstructed from client-submitted history on every request; the server
// keeps no session state.
type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// Config represents the backend configuration, loaded from the environment.
type Config struct {
	// Gemini configuration
	GeminiAPIKey string `json:"-" env:"GEMINI_API_KEY,required=true"`
	GeminiModel  string `json:"gemini_model" env:"GEMINI_MODEL,default=gemini-2.5-flash"`

	// HTTP server configuration
	ServerHost            string        `json:"server_host" env:"SERVER_HOST,default="`
	ServerPort            int           `json:"server_port" env:"SERVER_PORT,default=3001"`
	ServerReadTimeout     time.Duration `json:"server_read_timeout" env:"SERVER_READ_TIMEOUT,default=30s"`
	ServerWriteTimeout    time.Duration `json:"server_write_timeout" env:"SERVER_WRITE_TIMEOUT,default=0s"`
	ServerIdleTimeout     time.Duration `json:"server_idle_timeout" env:"SERVER_IDLE_TIMEOUT,default=120s"`
	ServerShutdownTimeout time.Duration `json:"server_shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT,default=30s"`

	// CORS configuration
	CORSAllowedOriginsStr string   `json:"-" env:"CORS_ALLOWED_ORIGINS,default=*"`
	CORSAllowedOrigins    []string `json:"cors_allowed_origins"`

	// Rate limiting (per client IP, all endpoints)
	RateLimitWindow   time.Duration `json:"rate_limit_window" env:"RATE_LIMIT_WINDOW,default=15m"`
	RateLimitRequests int           `json:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS,default=100"`

	// Search result cache
	CacheDBPath string        `json:"cache_db_path" env:"CACHE_DB_PATH,default="`
	CacheTTL    time.Duration `json:"cache_ttl" env:"CACHE_TTL,default=24h"`

	// Logging
	LogLevel string `json:"log_level" env:"LOG_LEVEL,default=info"`

	// OpenTelemetry configuration
	OTelEnabled              bool          `json:"otel_enabled" env:"OTEL_ENABLED,default=false"`
	OTelServiceName          string        `json:"otel_service_name" env:"OTEL_SERVICE_NAME,default=bionova"`
	OTelExporterOTLPEndpoint string        `json:"otel_exporter_otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT,default="`
	OTelMetricExportInterval time.Duration `json:"otel_metric_export_interval" env:"OTEL_METRIC_EXPORT_INTERVAL,default=60s"`
}
