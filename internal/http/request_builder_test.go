package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/label-service/internal/domain/dto"
)

func postJSON(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/print-label", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBuildRequest_Print(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		want         *dto.PrintRequest
		wantSyntax   bool
		wantRequired bool
	}{
		{
			name: "document and printer",
			body: `{"pdf_url": "/api/label/batch_1.pdf", "printer_name": "Zebra"}`,
			want: &dto.PrintRequest{PDFURL: "/api/label/batch_1.pdf", PrinterName: "Zebra"},
		},
		{
			name: "printer is optional",
			body: `{"pdf_url": "/api/label/batch_1.pdf"}`,
			want: &dto.PrintRequest{PDFURL: "/api/label/batch_1.pdf"},
		},
		{
			name:         "document is required",
			body:         `{"printer_name": "Zebra"}`,
			wantRequired: true,
		},
		{
			name:       "malformed json",
			body:       `{"pdf_url": }`,
			wantSyntax: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildRequest[dto.PrintRequest](postJSON(tt.body))

			switch {
			case tt.wantSyntax:
				var syntaxErr *json.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
				assert.Nil(t, got)
			case tt.wantRequired:
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "pdf_url", verrs[0].Field())
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBuildRequest_Batch(t *testing.T) {
	got, err := BuildRequest[dto.BatchRequest](postJSON(
		`{"system_name": "Line 1", "year": "2024", "month": "03", "start_serial": "0100", "quantity": 5}`))
	require.NoError(t, err)
	assert.Equal(t, "0100", got.StartSerial)
	assert.Equal(t, 5, got.Quantity)

	_, err = BuildRequest[dto.BatchRequest](postJSON(``))
	assert.Error(t, err, "an empty body is rejected")
}

func TestBuildRequest_GenerateDefaults(t *testing.T) {
	got, err := BuildRequest[dto.GenerateBatchRequest](postJSON(`{"system_name": "Line 1", "start_serial": "1"}`))
	require.NoError(t, err)

	assert.Equal(t, 50.0, got.Layout().LabelWidthMM, "omitted layout falls back to defaults")
	assert.Equal(t, 1, got.ToModel().Quantity, "omitted quantity is one label")
}
