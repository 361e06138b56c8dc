package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/draftforge/draftforge/pkg/export"
	"github.com/draftforge/draftforge/pkg/geom"
	"github.com/draftforge/draftforge/pkg/history"
	"github.com/draftforge/draftforge/pkg/model"
)

func testServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(export.New(nil, nil, logger), history.NewMemoryStore(), logger)
}

func postExport(t *testing.T, s *Server, req ExportRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/export", bytes.NewReader(body))
	s.ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	s := testServer()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestFormats(t *testing.T) {
	s := testServer()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/formats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Formats) != 10 {
		t.Errorf("formats = %v, want 10 entries", resp.Formats)
	}
}

func TestExportModel(t *testing.T) {
	s := testServer()
	w := postExport(t, s, ExportRequest{
		Options: export.Options{Format: "dxf", Units: "mm"},
		Model: &model.Model{
			Name: "shed",
			Components: map[string][]model.Component{
				"structure": {{
					ID:       "c1",
					Name:     "post",
					Category: model.CategoryStructure,
					Geometry: model.ComponentGeometry{Width: 100, Height: 100, Depth: 2400},
				}},
			},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID     string         `json:"id"`
		Result *export.Result `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" {
		t.Error("response should carry a record ID")
	}
	if !resp.Result.Success || resp.Result.Metadata.EntityCount != 1 {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestExportValidationErrors(t *testing.T) {
	s := testServer()
	drawings := []model.Drawing{{Title: "Plan", Elements: []model.Element{
		{Kind: model.ElementLine, End: geom.Point{X: 1}},
	}}}

	tests := []struct {
		name   string
		req    ExportRequest
		status int
	}{
		{"no source", ExportRequest{Options: export.Options{Format: "dwg"}}, http.StatusBadRequest},
		{"both sources", ExportRequest{
			Options:  export.Options{Format: "dwg"},
			Model:    &model.Model{},
			Drawings: drawings,
		}, http.StatusBadRequest},
		{"missing format", ExportRequest{Drawings: drawings}, http.StatusBadRequest},
		{"unknown format", ExportRequest{
			Options:  export.Options{Format: "xyz"},
			Drawings: drawings,
		}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		w := postExport(t, s, tt.req)
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.status)
		}
		var resp errorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if resp.Code == "" {
			t.Errorf("%s: error response missing code", tt.name)
		}
	}
}

func TestExportHistoryFlow(t *testing.T) {
	s := testServer()
	drawings := []model.Drawing{{Title: "Plan", Elements: []model.Element{
		{Kind: model.ElementCircle, Center: geom.Point{X: 5, Y: 5}, Radius: 2},
	}}}

	for i := 0; i < 3; i++ {
		w := postExport(t, s, ExportRequest{
			Options:  export.Options{Format: "dwg", Refresh: true},
			Drawings: drawings,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("export %d: status = %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/exports?limit=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		Exports []history.Record `json:"exports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Exports) != 2 {
		t.Fatalf("len = %d, want 2", len(list.Exports))
	}

	// Fetch one record by ID.
	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/exports/"+list.Exports[0].ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
}

func TestGetExportNotFound(t *testing.T) {
	s := testServer()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/exports/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestFailedExportRecorded(t *testing.T) {
	s := testServer()
	w := postExport(t, s, ExportRequest{
		Options:  export.Options{Format: "xyz"},
		Drawings: []model.Drawing{{Title: "Plan"}},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/exports", nil))
	var list struct {
		Exports []history.Record `json:"exports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Exports) != 1 || list.Exports[0].Success {
		t.Fatalf("expected one failure record, got %+v", list.Exports)
	}
	if list.Exports[0].Error == "" {
		t.Error("failure record should carry the error message")
	}
}
