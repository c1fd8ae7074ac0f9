package middleware

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON body for non-200 API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes a structured error response.
func HandleError(resp *restful.Response, err error, status int) {
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()})
}

// Logger returns a filter that logs every request with method, path, status
// and duration.
func Logger(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)
		logger.Info().
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", resp.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// RecoverPanic returns a filter that converts handler panics into a 500
// instead of killing the connection.
func RecoverPanic(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", req.Request.URL.Path).
					Msg("handler panicked")
				_ = resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()
		chain.ProcessFilter(req, resp)
	}
}
