package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/mocks"
	"github.com/guttosm/label-service/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	router   *gin.Engine
	backend  *mocks.MockBackend
	registry *workflow.Registry
}

func setupSessionRouter(t *testing.T) *sessionFixture {
	t.Helper()
	backend := &mocks.MockBackend{}
	backend.On("ListPrinters", mock.Anything).
		Return(model.PrinterList{Printers: []string{"Zebra", "Brother"}, Default: "Zebra"}, nil)
	backend.On("ListSystems", mock.Anything).Return([]string{"System A", "System B"}, nil)

	march := func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }
	registry := workflow.NewRegistry(backend, 30*time.Minute, workflow.WithClock(march))

	return &sessionFixture{
		router:   NewRouter(nil, NewSessionHandler(registry), NewHealthHandler(), DefaultRouterConfig()),
		backend:  backend,
		registry: registry,
	}
}

func (f *sessionFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *sessionFixture) create(t *testing.T, body string) dto.SessionResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.SessionResponse
	decodeData(t, w, &resp)
	return resp
}

func sessionView(t *testing.T, w *httptest.ResponseRecorder) workflow.View {
	t.Helper()
	var resp dto.SessionResponse
	decodeData(t, w, &resp)
	return resp.View
}

func TestSessionHandler_Create(t *testing.T) {
	t.Run("defaults from directories and clock", func(t *testing.T) {
		f := setupSessionRouter(t)

		resp := f.create(t, "")

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, model.AnonymousOperator, resp.Operator)
		assert.Equal(t, workflow.Configuring, resp.View.State)
		assert.Equal(t, "System A", resp.View.Request.SystemID)
		assert.Equal(t, "2024", resp.View.Request.Year)
		assert.Equal(t, "03", resp.View.Request.Month)
		assert.Equal(t, "Zebra", resp.View.SelectedPrinter)
		assert.Equal(t, []string{"System A", "System B"}, resp.View.Systems)
		assert.False(t, resp.View.CanCheck)
		assert.Equal(t, 1, f.registry.Len())
	})

	t.Run("initial request and layout", func(t *testing.T) {
		f := setupSessionRouter(t)

		resp := f.create(t, `{"request": {"system_name": "System B", "start_serial": "0100", "quantity": 2},
			"label_settings": {"labelWidth": 70, "labelHeight": 30, "fontSize": 10, "qrSize": 20}}`)

		assert.Equal(t, "System B", resp.View.Request.SystemID)
		assert.Equal(t, "0100", resp.View.Request.StartSerial)
		assert.Equal(t, 2, resp.View.Request.Quantity)
		assert.Equal(t, 70.0, resp.View.Layout.LabelWidthMM)
		assert.True(t, resp.View.CanCheck)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := setupSessionRouter(t)

		w := f.do(http.MethodPost, "/api/sessions", `{"request": 5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, f.registry.Len())
	})
}

func TestSessionHandler_FullWorkflow(t *testing.T) {
	f := setupSessionRouter(t)
	id := f.create(t, "").ID
	base := "/api/sessions/" + id

	want := model.BatchRequest{SystemID: "System A", Year: "2024", Month: "03", StartSerial: "0100", Quantity: 2}
	doc := model.BatchDocument{ID: "b1", URL: "/api/label/batch_b1.pdf", Quantity: 2, FirstSerial: "0100", LastSerial: "0101"}
	f.backend.On("CheckDuplicates", mock.Anything, want).Return(model.DuplicateReport{}, nil).Once()
	f.backend.On("GenerateBatch", mock.Anything, want, model.DefaultLayoutSettings()).Return(doc, nil).Once()
	f.backend.On("PrintBatch", mock.Anything, doc.URL, "Brother").Return(nil).Once()

	w := f.do(http.MethodPatch, base+"/request", `{"field": "start_serial", "value": "0100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodPatch, base+"/request", `{"field": "quantity", "value": "2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, want, sessionView(t, w).Request)

	w = f.do(http.MethodPost, base+"/check-duplicates", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := sessionView(t, w)
	assert.Equal(t, workflow.DuplicatesCheckedClean, view.State)
	assert.Equal(t, "No duplicates found. Ready to generate.", view.Status.Message)

	w = f.do(http.MethodPost, base+"/generate", "")
	require.Equal(t, http.StatusOK, w.Code)
	view = sessionView(t, w)
	assert.Equal(t, workflow.Generated, view.State)
	require.NotNil(t, view.Artifact)
	assert.Equal(t, doc.URL, view.Artifact.Document.URL)
	assert.True(t, view.CanPrint)

	w = f.do(http.MethodPut, base+"/printer", `{"printer_name": "Brother"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, base+"/print", "")
	require.Equal(t, http.StatusOK, w.Code)
	view = sessionView(t, w)
	assert.Equal(t, workflow.Printed, view.State)
	assert.Equal(t, workflow.StatusSuccess, view.Status.Kind)

	f.backend.AssertExpectations(t)
}

func TestSessionHandler_GenerateRefusedWhileDuplicatesPending(t *testing.T) {
	f := setupSessionRouter(t)
	id := f.create(t, `{"request": {"start_serial": "0100", "quantity": 3}}`).ID
	base := "/api/sessions/" + id

	f.backend.On("CheckDuplicates", mock.Anything, mock.Anything).
		Return(model.DuplicateReport{Duplicates: []string{"0101"}}, nil).Once()

	w := f.do(http.MethodPost, base+"/check-duplicates", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := sessionView(t, w)
	assert.Equal(t, workflow.DuplicatesCheckedDirty, view.State)
	assert.Equal(t, workflow.StatusError, view.Status.Kind)
	assert.False(t, view.CanGenerate)

	w = f.do(http.MethodPost, base+"/generate", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Resolve duplicate serials before generating", decodeError(t, w).Message)
	f.backend.AssertNotCalled(t, "GenerateBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_Errors(t *testing.T) {
	f := setupSessionRouter(t)
	id := f.create(t, "").ID
	base := "/api/sessions/" + id

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"unknown session", http.MethodGet, "/api/sessions/nope", "", http.StatusNotFound},
		{"unknown session action", http.MethodPost, "/api/sessions/nope/generate", "", http.StatusNotFound},
		{"unknown field", http.MethodPatch, base + "/request", `{"field": "colour", "value": "red"}`, http.StatusBadRequest},
		{"non-numeric quantity", http.MethodPatch, base + "/request", `{"field": "quantity", "value": "many"}`, http.StatusBadRequest},
		{"missing field name", http.MethodPatch, base + "/request", `{"value": "x"}`, http.StatusBadRequest},
		{"unknown printer", http.MethodPut, base + "/printer", `{"printer_name": "Canon"}`, http.StatusBadRequest},
		{"check without serial", http.MethodPost, base + "/check-duplicates", "", http.StatusBadRequest},
		{"print without batch is a no-op", http.MethodPost, base + "/print", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionHandler_SetLayout(t *testing.T) {
	f := setupSessionRouter(t)
	id := f.create(t, "").ID

	w := f.do(http.MethodPut, "/api/sessions/"+id+"/layout", `{"labelWidth": 500, "labelHeight": 20, "fontSize": 9, "qrSize": 1}`)

	require.Equal(t, http.StatusOK, w.Code)
	layout := sessionView(t, w).Layout
	assert.Equal(t, model.MaxLabelWidthMM, layout.LabelWidthMM)
	assert.Equal(t, 20.0, layout.LabelHeightMM)
	assert.Equal(t, model.MinQRSizeMM, layout.QRSizeMM)
}

func TestSessionHandler_Delete(t *testing.T) {
	f := setupSessionRouter(t)
	id := f.create(t, "").ID

	w := f.do(http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodDelete, "/api/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionResponse_JSON(t *testing.T) {
	f := setupSessionRouter(t)
	w := f.do(http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	data, ok := raw["data"].(map[string]interface{})
	require.True(t, ok)
	view, ok := data["view"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "configuring", view["state"])
	assert.Contains(t, view, "can_generate")
}
