package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"unburyme/domain"
	"unburyme/logger"
	"unburyme/service"
)

// maxBodyBytes caps request bodies; the largest legitimate one is a
// portfolio of a few dozen loans.
const maxBodyBytes = 1 << 20

var (
	errUnsupportedMediaType = errors.New("Content-Type must be application/json")
	errInvalidBody          = errors.New("invalid request body")
)

type errorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return errUnsupportedMediaType
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return v.Struct(dst)
}

// respondJSON encodes into a buffer first so a failed encode does not leave
// a half-written 200 behind.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.ForComponent(r.Context(), nil, logger.ComponentHTTP).ErrorContext(r.Context(), "failed to encode response", logger.FieldError, err)
		respondRaw(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.ForComponent(r.Context(), nil, logger.ComponentHTTP).WarnContext(r.Context(), "failed to write response", logger.FieldError, err)
	}
}

func respondRaw(w http.ResponseWriter, r *http.Request, status int, body errorResponse) {
	body.TraceID = middleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps err to a status code and a message that is safe to show.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapError(err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.ForComponent(r.Context(), nil, logger.ComponentHTTP).Log(r.Context(), level, "API error response",
		logger.FieldStatusCode, status,
		logger.FieldError, err,
		"user_message", message)

	respondRaw(w, r, status, errorResponse{Error: message})
}

func mapError(err error) (int, string) {
	var (
		validationErrs validator.ValidationErrors
		termsErr       *domain.LoanTermsError
		maxBytesErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, errUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "invalid request body"
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, validationMessage(validationErrs)
	case errors.As(err, &termsErr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidLoanTerms):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, service.ErrNoViableTerm):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldPath(fe), tagMessage(fe)))
	}
	return strings.Join(msgs, "; ")
}

// fieldPath drops the top-level struct name from the namespace,
// e.g. "totalRequest.loans[1].principal" -> "loans[1].principal".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " items"
	case "max":
		return "must have at most " + fe.Param() + " items"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gtefield":
		return "must not be less than " + fe.Param()
	default:
		return "is invalid"
	}
}
