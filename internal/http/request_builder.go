package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/middleware"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireFieldName)
	}
}

// wireFieldName reports validation failures under the name the client
// sent: the json key for bodies, the form key for query strings.
func wireFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// RequestBuilder binds JSON request bodies.
type RequestBuilder struct {
	c *gin.Context
}

// NewRequestBuilder returns a RequestBuilder for c.
func NewRequestBuilder(c *gin.Context) *RequestBuilder {
	return &RequestBuilder{c: c}
}

// Bind decodes and validates the body into v.
func (b *RequestBuilder) Bind(v interface{}) error {
	return b.c.ShouldBindJSON(v)
}

// BuildRequest binds the body of c into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	req := new(T)
	if err := NewRequestBuilder(c).Bind(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ResponseBuilder writes the success and error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder returns a ResponseBuilder for c.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success writes data in the success envelope.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	b.c.JSON(statusCode, dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now().UTC(),
	})
}

// SuccessOK writes a 200 envelope.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated writes a 201 envelope.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error aborts with the catalog message for messageKey.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.ErrorWithMessage(statusCode, messages.Get(messageKey), err)
}

// ErrorWithMessage aborts with message.
func (b *ResponseBuilder) ErrorWithMessage(statusCode int, message string, err error) {
	b.abort(statusCode, dto.NewError(dto.CodeForStatus(statusCode), message), err)
}

// Invalid aborts with 400 for a body or query that failed to bind. A
// validation failure names the first offending field.
func (b *ResponseBuilder) Invalid(messageKey string, err error) {
	resp := dto.NewError(dto.ErrCodeInvalidRequest, messages.Get(messageKey))
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		resp = resp.WithField(verrs[0].Field())
	}
	b.abort(http.StatusBadRequest, resp, err)
}

// Fail maps err to its status and operator-facing message. Duplicate and
// validation failures also carry the serials or the field involved.
func (b *ResponseBuilder) Fail(err error) {
	status, key := statusForError(err)
	message := errorMessage(err)
	if message == "" {
		message = messages.Get(key)
	}
	resp := dto.NewError(dto.CodeForStatus(status), message)

	var (
		dup     *model.DuplicateSerialsError
		invalid *model.ValidationError
	)
	if errors.As(err, &dup) {
		resp = resp.WithDuplicates(dup.Duplicates)
	}
	if errors.As(err, &invalid) {
		resp = resp.WithField(invalid.Field)
	}
	b.abort(status, resp, err)
}

// abort writes resp and attaches err to the context, where ErrorHandler
// logs it.
func (b *ResponseBuilder) abort(status int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(status, resp.WithRequestID(middleware.GetRequestID(b.c)))
}
