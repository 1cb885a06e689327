package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/selene-notes/selene/pkg/controller/http"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/repository/memory"
	"github.com/selene-notes/selene/pkg/service/relay"
	"github.com/selene-notes/selene/pkg/usecase"
)

type fakeAnalyzer struct {
	strategy string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (*model.Analysis, error) {
	return &model.Analysis{Strategy: f.strategy, Model: "fake-model", Timestamp: time.Now().UTC()}, nil
}

type fakeDetector struct {
	text string
}

func (f *fakeDetector) DetectText(ctx context.Context, image []byte) (string, error) {
	return f.text, nil
}

func newTestServer(t *testing.T, opts ...usecase.Option) *httptest.Server {
	t.Helper()

	uc := usecase.New(memory.New(), opts...)
	srv := httptest.NewServer(httpctrl.New(uc))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	gt.NoError(t, err).Required()
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&v)).Required()
	gt.NoError(t, resp.Body.Close())
	return v
}

func createTextNote(t *testing.T, baseURL, text string) *model.Note {
	t.Helper()

	resp := postJSON(t, baseURL+"/api/transcriptions", map[string]string{"text": text})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	note := decodeBody[*model.Note](t, resp)
	gt.String(t, string(note.ID)).NotEqual("")
	return note
}

func TestCreateNote_Text(t *testing.T) {
	srv := newTestServer(t)

	note := createTextNote(t, srv.URL, "Met a promising wholesale buyer")
	gt.Value(t, note.Text).Equal("Met a promising wholesale buyer")
	gt.Value(t, note.Status.String()).Equal("draft")
	gt.Value(t, note.Metadata.Source.String()).Equal("manual")
}

func TestCreateNote_RejectsBothOrNeither(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transcriptions", map[string]string{})
	gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)
	gt.NoError(t, resp.Body.Close())

	resp = postJSON(t, srv.URL+"/api/transcriptions", map[string]string{
		"text":  "words",
		"audio": "YXVkaW8=",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)
	gt.NoError(t, resp.Body.Close())
}

func TestCreateNote_AudioWithoutTranscriber(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/transcriptions", map[string]string{
		"audio":    "YXVkaW8=",
		"mimeType": "audio/webm",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusServiceUnavailable)
	gt.NoError(t, resp.Body.Close())
}

func TestGetNote(t *testing.T) {
	srv := newTestServer(t)

	note := createTextNote(t, srv.URL, "fetch me")

	resp, err := http.Get(srv.URL + "/api/transcriptions?id=" + string(note.ID))
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	got := decodeBody[*model.Note](t, resp)
	gt.Value(t, got.ID).Equal(note.ID)
}

func TestGetNote_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/transcriptions?id=" + string(model.NewNoteID()))
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)
	gt.NoError(t, resp.Body.Close())
}

func TestUpdateNote(t *testing.T) {
	srv := newTestServer(t, usecase.WithAnalyzer(&fakeAnalyzer{strategy: "Lean into wholesale"}))

	note := createTextNote(t, srv.URL, "first draft")

	data, err := json.Marshal(map[string]any{"text": "second draft", "submit": true})
	gt.NoError(t, err).Required()
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/transcriptions?id="+string(note.ID), bytes.NewReader(data))
	gt.NoError(t, err).Required()
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

	result := decodeBody[struct {
		Analyzed bool        `json:"analyzed"`
		Note     *model.Note `json:"note"`
	}](t, resp)
	gt.Bool(t, result.Analyzed).True()
	gt.Value(t, result.Note.Status.String()).Equal("analyzed")
	gt.Value(t, result.Note.Analysis.Strategy).Equal("Lean into wholesale")
	gt.Value(t, result.Note.Metadata.Source.String()).Equal("edited")
}

func TestUpdateNote_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	note := createTextNote(t, srv.URL, "keep me")

	data, _ := json.Marshal(map[string]any{"text": "   ", "submit": false})
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/transcriptions?id="+string(note.ID), bytes.NewReader(data))
	gt.NoError(t, err).Required()
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusBadRequest)
	gt.NoError(t, resp.Body.Close())
}

func TestDeleteNote(t *testing.T) {
	srv := newTestServer(t)

	note := createTextNote(t, srv.URL, "temporary")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/transcriptions?id="+string(note.ID), nil)
	gt.NoError(t, err).Required()
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusNoContent)
	gt.NoError(t, resp.Body.Close())

	check, err := http.Get(srv.URL + "/api/transcriptions?id=" + string(note.ID))
	gt.NoError(t, err).Required()
	gt.Number(t, check.StatusCode).Equal(http.StatusNotFound)
	gt.NoError(t, check.Body.Close())
}

type libraryResponse struct {
	Items []struct {
		model.Note
		MatchType string `json:"matchType"`
	} `json:"items"`
	HasMore  bool   `json:"hasMore"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Warning  string `json:"warning"`
}

func TestLibrary_Pagination(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 12; i++ {
		createTextNote(t, srv.URL, fmt.Sprintf("library note %02d", i))
		time.Sleep(2 * time.Millisecond)
	}

	resp, err := http.Get(srv.URL + "/api/library?page=1&limit=10")
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	page1 := decodeBody[libraryResponse](t, resp)
	gt.Array(t, page1.Items).Length(10)
	gt.Bool(t, page1.HasMore).True()
	gt.Value(t, page1.Items[0].Text).Equal("library note 11")

	resp, err = http.Get(srv.URL + "/api/library?page=2&limit=10")
	gt.NoError(t, err).Required()
	page2 := decodeBody[libraryResponse](t, resp)
	gt.Array(t, page2.Items).Length(2)
	gt.Bool(t, page2.HasMore).False()
}

func TestLibrary_Search(t *testing.T) {
	srv := newTestServer(t)

	createTextNote(t, srv.URL, "Inventory is running low")
	createTextNote(t, srv.URL, "unrelated thought")

	resp, err := http.Get(srv.URL + "/api/library?page=1&limit=10&search=inventory")
	gt.NoError(t, err).Required()
	result := decodeBody[libraryResponse](t, resp)
	gt.Array(t, result.Items).Length(1)
	gt.Value(t, result.Items[0].MatchType).Equal("text")
}

func TestAnalyze_WithoutAnalyzer(t *testing.T) {
	srv := newTestServer(t)

	note := createTextNote(t, srv.URL, "analyze me")

	resp := postJSON(t, srv.URL+"/api/analyze", map[string]string{
		"id":   string(note.ID),
		"text": "analyze me",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusServiceUnavailable)
	gt.NoError(t, resp.Body.Close())
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, usecase.WithAnalyzer(&fakeAnalyzer{strategy: "Run a loyalty program"}))

	note := createTextNote(t, srv.URL, "regulars visit weekly")

	resp := postJSON(t, srv.URL+"/api/analyze", map[string]string{
		"id":   string(note.ID),
		"text": "regulars visit weekly",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	analysis := decodeBody[*model.Analysis](t, resp)
	gt.Value(t, analysis.Strategy).Equal("Run a loyalty program")
}

func TestProcessPhoto(t *testing.T) {
	srv := newTestServer(t, usecase.WithTextDetector(&fakeDetector{
		text: "Dana Kim\nKim Imports\ndana@kimimports.com",
	}))

	resp := postJSON(t, srv.URL+"/api/process-photo", map[string]string{
		"imageData": "data:image/png;base64,ZmFrZS1pbWFnZQ==",
	})
	gt.Number(t, resp.StatusCode).Equal(http.StatusCreated)
	card := decodeBody[*model.BusinessCard](t, resp)
	gt.Value(t, card.Name).Equal("Dana Kim")
	gt.Value(t, card.Email).Equal("dana@kimimports.com")

	listResp, err := http.Get(srv.URL + "/api/business-cards?limit=10")
	gt.NoError(t, err).Required()
	gt.Number(t, listResp.StatusCode).Equal(http.StatusOK)
	list := decodeBody[struct {
		Cards []*model.BusinessCard `json:"cards"`
	}](t, listResp)
	gt.Array(t, list.Cards).Length(1)
}

func TestWebSocketRouteDisabledWithoutHub(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	gt.NoError(t, err).Required()
	gt.Number(t, resp.StatusCode).Equal(http.StatusNotFound)
	gt.NoError(t, resp.Body.Close())
}

func newRelayServer(t *testing.T) (*httptest.Server, *relay.Hub) {
	t.Helper()

	hub := relay.NewHub()
	uc := usecase.New(memory.New(), usecase.WithNotifier(hub))
	srv := httptest.NewServer(httpctrl.New(uc, httpctrl.WithRelayHub(hub)))
	t.Cleanup(srv.Close)
	return srv, hub
}
