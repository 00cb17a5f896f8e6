package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperrors.Code) int {
	if code == apperrors.ErrCodeTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	switch code.Kind() {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInput, apperrors.KindConflict:
		return http.StatusBadRequest
	case apperrors.KindUnsupported:
		return http.StatusUnsupportedMediaType
	case apperrors.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := apperrors.UserMessage(err)
	if _, ok := err.(*apperrors.Error); !ok {
		msg = err.Error()
	}
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if code == apperrors.ErrCodeInternal {
			msg = "internal error"
		}
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// decodeBody decodes a single JSON value from a request body of at most
// maxBodyBytes, rejecting unknown fields and trailing data. An empty body
// leaves v untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return bodyError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "decode request body: trailing data after JSON value")
		}
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Wrap(apperrors.ErrCodeTooLarge, err, "request body exceeds %d bytes", tooLarge.Limit)
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body")
}

// nopLogger discards everything.
func nopLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
