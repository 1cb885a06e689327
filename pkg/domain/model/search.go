package model

import "github.com/selene-notes/selene/pkg/domain/types"

// NoteHit is a single search result with its match provenance
type NoteHit struct {
	Note      *Note
	MatchType types.MatchType
}

// NotePage is one window of library results.
//
// For merged (non-empty query) searches HasMore is an estimate derived from
// the number of unique matches; the dual-query design has no keyset
// continuation, so pages past the first are best-effort.
type NotePage struct {
	Items    []*NoteHit
	HasMore  bool
	Page     int
	PageSize int
	// Warning carries an actionable message when search degraded to an
	// empty result set (e.g. missing composite indexes).
	Warning string
}
