package faq

// MatchPolicy identifies the lookup strategy.
type MatchPolicy string

const (
	// PolicySubstring is case-insensitive containment, first row wins.
	PolicySubstring MatchPolicy = "substring"
	// PolicySimilarity ranks rows by TF-IDF cosine similarity.
	PolicySimilarity MatchPolicy = "similarity"
	// PolicyHybrid tries substring before falling back to similarity.
	PolicyHybrid MatchPolicy = "hybrid"
)

// Outcome labels how a request was resolved.
type Outcome string

const (
	OutcomeMatched Outcome = "matched"
	OutcomeNoMatch Outcome = "no_match"
	OutcomeNoData  Outcome = "no_data"
)

// LocalizedEntry is the per-language part of a row.
type LocalizedEntry struct {
	Query          string `json:"query"`
	ShortAnswer    string `json:"shortAnswer"`
	DetailedAnswer string `json:"detailedAnswer"`
}

// AnswerRecord is one FAQ row. Row is its 0-based position in the loaded
// table; blank source rows are dropped before positions are assigned.
type AnswerRecord struct {
	Row      int                         `json:"row"`
	Category string                      `json:"category,omitempty"`
	Entries  map[Language]LocalizedEntry `json:"entries"`
}

// Entry returns the localized fields for lang.
func (r AnswerRecord) Entry(lang Language) LocalizedEntry {
	return r.Entries[lang]
}

// MatchResult is the record judged closest to a query.
type MatchResult struct {
	Record AnswerRecord
	Found  bool
	Score  float64
	Policy MatchPolicy
}

// Request encapsulates an answer lookup.
type Request struct {
	Question string      `json:"question"`
	Language string      `json:"language"`
	Category string      `json:"category,omitempty"`
	Policy   MatchPolicy `json:"policy,omitempty"`
	Steps    int         `json:"steps,omitempty"`
}

// Response is returned to the HTTP transport and the CLI.
type Response struct {
	Question         string          `json:"question"`
	Language         Language        `json:"language"`
	Category         string          `json:"category,omitempty"`
	Found            bool            `json:"found"`
	Outcome          Outcome         `json:"outcome"`
	Policy           MatchPolicy     `json:"policy,omitempty"`
	Score            float64         `json:"score"`
	Row              int             `json:"row"`
	MatchedQuestion  string          `json:"matchedQuestion,omitempty"`
	ShortAnswer      string          `json:"shortAnswer"`
	DetailedAnswer   string          `json:"detailedAnswer"`
	Steps            []string        `json:"steps"`
	StepsRequested   int             `json:"stepsRequested"`
	StepsUnavailable int             `json:"stepsUnavailable"`
	Recommendations  []TrendingQuery `json:"recommendations"`
	DurationMs       int64           `json:"durationMs,omitempty"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Example is a sample question offered to users.
type Example struct {
	Row      int    `json:"row"`
	Question string `json:"question"`
	Category string `json:"category,omitempty"`
}
