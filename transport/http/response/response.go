package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/shared/logger"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
	Kind  *string `json:"kind,omitempty"`
}

type Page[T any] struct {
	Data     []T      `json:"data"`
	Metadata PageMeta `json:"metadata"`
}

type PageMeta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"total_page"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithError sends a response with an error message and its kind. Errors that
// are not failures are logged and answered with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	kind := failure.GetKind(err)
	errMsg := err.Error()

	var fail *failure.Failure
	if !errors.As(err, &fail) {
		log.Error().Err(err).Msg("unhandled error")

		errMsg = http.StatusText(http.StatusInternalServerError)
	}

	response(writer, code, Error{Error: &errMsg, Kind: &kind})
}

// WithPage sends a paginated list
func WithPage[T any](writer http.ResponseWriter, code int, data []T, meta PageMeta) {
	if data == nil {
		data = []T{}
	}

	response(writer, code, Page[T]{Data: data, Metadata: meta})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
