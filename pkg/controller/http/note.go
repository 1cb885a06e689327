package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/domain/types"
	"github.com/selene-notes/selene/pkg/usecase"
)

// handleCreateNote accepts either manual text or a base64 audio payload.
// Exactly one of the two must be supplied. The audio path responds with the
// placeholder note before transcription finishes.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Audio    string `json:"audio"`
		MimeType string `json:"mimeType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	if (req.Text == "") == (req.Audio == "") {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "exactly one of text or audio is required"))
		return
	}

	if req.Text != "" {
		note, err := s.uc.CreateFromText(r.Context(), req.Text)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusCreated, note)
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "audio is not valid base64"))
		return
	}

	note, err := s.uc.CreateFromAudio(r.Context(), audio, req.MimeType)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, note)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "id is required"))
		return
	}

	note, err := s.uc.Get(r.Context(), model.NoteID(id))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "id is required"))
		return
	}

	var req struct {
		Text   string `json:"text"`
		Submit bool   `json:"submit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	analyzed, err := s.uc.UpdateText(r.Context(), model.NoteID(id), req.Text, req.Submit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	note, err := s.uc.Get(r.Context(), model.NoteID(id))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, struct {
		Analyzed bool        `json:"analyzed"`
		Note     *model.Note `json:"note"`
	}{Analyzed: analyzed, Note: note})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "id is required"))
		return
	}

	if err := s.uc.Delete(r.Context(), model.NoteID(id)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// libraryItem flattens a search hit for the JSON response; matchType is
// omitted for plain (unsearched) listings.
type libraryItem struct {
	*model.Note
	MatchType types.MatchType `json:"matchType,omitempty"`
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("limit"))
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 10
	}

	result, err := s.uc.Search(r.Context(), page, pageSize, q.Get("search"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]libraryItem, 0, len(result.Items))
	for _, hit := range result.Items {
		items = append(items, libraryItem{Note: hit.Note, MatchType: hit.MatchType})
	}

	respondJSON(w, r, http.StatusOK, struct {
		Items    []libraryItem `json:"items"`
		HasMore  bool          `json:"hasMore"`
		Page     int           `json:"page"`
		PageSize int           `json:"pageSize"`
		Warning  string        `json:"warning,omitempty"`
	}{
		Items:    items,
		HasMore:  result.HasMore,
		Page:     result.Page,
		PageSize: result.PageSize,
		Warning:  result.Warning,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}
	if req.ID == "" {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "id is required"))
		return
	}

	analysis, err := s.uc.Analyze(r.Context(), model.NoteID(req.ID), req.Text)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, analysis)
}
