package faq

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Policy              MatchPolicy
	SimilarityThreshold float64
	DefaultSteps        int
	AllowedSteps        []int
	FallbackMessage     string
	TopRecommendations  int
	ExampleCount        int
}

const defaultFallbackMessage = "Sorry, I couldn't find an answer. Please try rephrasing or contact legal aid."
