package types

// MatchType indicates which part of a note matched a search query
type MatchType string

const (
	// MatchTypeText means the query matched the note's text
	MatchTypeText MatchType = "text"
	// MatchTypeAnalysis means the query matched the note's analysis narrative
	MatchTypeAnalysis MatchType = "analysis"
	// MatchTypeBoth means the query matched both the text and the analysis
	MatchTypeBoth MatchType = "both"
)

// String returns the string representation of the match type
func (m MatchType) String() string {
	return string(m)
}
