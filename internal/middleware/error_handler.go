package middleware

import (
	"net/http"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// abortInternal answers with a bare internal_error envelope. The request id
// is the only detail a client gets, so an operator can find the log line.
func abortInternal(c *gin.Context) {
	body := apierror.New(apierror.CodeInternal, "internal server error")
	body.RequestID = c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// ErrorHandler logs errors that handlers attached with c.Error and, if no
// response was written, answers 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}

		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("route", c.FullPath()).
			Str("operator", GetPrincipal(c).Username()).
			Err(c.Errors.Last().Err).
			Msg("request failed")

		if !c.Writer.Written() {
			abortInternal(c)
		}
	}
}

// Recovery turns a panic in any later handler into a 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Interface("panic", r).
				Msg("panic recovered")
			if !c.Writer.Written() {
				abortInternal(c)
			}
		}()
		c.Next()
	}
}

// Logger writes one access line per request once it completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("operator", GetPrincipal(c).Username()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
