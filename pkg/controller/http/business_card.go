package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/usecase"
)

func (s *Server) handleProcessPhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageData string `json:"imageData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}

	card, err := s.uc.ProcessPhoto(r.Context(), req.ImageData)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	cards, err := s.uc.ListCards(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if cards == nil {
		cards = []*model.BusinessCard{}
	}

	respondJSON(w, r, http.StatusOK, struct {
		Cards []*model.BusinessCard `json:"cards"`
	}{Cards: cards})
}
