package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
)

// fakeServer answers the label API with canned data and records calls.
type fakeServer struct {
	*httptest.Server

	mu         sync.Mutex
	duplicates []string
	generated  []dto.GenerateBatchRequest
	printed    []dto.PrintRequest
	apiKeys    []string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	f := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/systems", func(w http.ResponseWriter, r *http.Request) {
		f.recordKey(r)
		writeData(w, http.StatusOK, []string{"Line 1", "Line 2"})
	})
	mux.HandleFunc("GET /api/printers", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, model.PrinterList{Printers: []string{"Zebra", "Office"}, Default: "Zebra"})
	})
	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		entries := []model.IssuedSerial{{
			SystemID: "Line 1", Year: "2024", Month: "03", Serial: "0100",
			BatchID: "b1", IssuedBy: "alice", IssuedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		}}
		if r.URL.Query().Get("system_name") == "Line 2" {
			entries = nil
		}
		writeData(w, http.StatusOK, entries)
	})
	mux.HandleFunc("GET /api/audit", func(w http.ResponseWriter, r *http.Request) {
		page := dto.AuditPage{Events: []model.AuditEvent{}}
		if r.URL.Query().Get("operator") != "nobody" {
			page.Events = append(page.Events, model.AuditEvent{
				ID: "e1", At: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
				Action: model.AuditGenerateBatch, Outcome: model.OutcomeOK, Operator: "alice",
				Batch: &model.BatchScope{SystemID: "Line 1", Year: "2024", Month: "03", FirstSerial: "0100", LastSerial: "0102"},
			})
			page.Total = 4
		}
		writeData(w, http.StatusOK, page)
	})
	mux.HandleFunc("POST /api/check-duplicates", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		dups := f.duplicates
		f.mu.Unlock()
		writeData(w, http.StatusOK, dto.DuplicateCheckResponse{HasDuplicates: len(dups) > 0, Duplicates: dups})
	})
	mux.HandleFunc("POST /api/generate-batch", func(w http.ResponseWriter, r *http.Request) {
		var body dto.GenerateBatchRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.generated = append(f.generated, body)
		f.mu.Unlock()
		writeData(w, http.StatusCreated, model.BatchDocument{
			ID: "b1", URL: "/api/label/batch_b1.pdf", Quantity: body.Quantity,
			FirstSerial: body.StartSerial, LastSerial: body.StartSerial,
		})
	})
	mux.HandleFunc("POST /api/print-label", func(w http.ResponseWriter, r *http.Request) {
		var body dto.PrintRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.printed = append(f.printed, body)
		f.mu.Unlock()
		writeData(w, http.StatusOK, map[string]string{"message": "Batch sent to printer successfully"})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) recordKey(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKeys = append(f.apiKeys, r.Header.Get("X-API-Key"))
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.SuccessResponse{Data: data, Timestamp: time.Now()})
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func settingsWidth(width float64) model.LayoutSettings {
	layout := model.DefaultLayoutSettings()
	layout.LabelWidthMM = width
	return layout
}

