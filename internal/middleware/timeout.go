package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeoutConfig struct {
	Duration time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Duration: 30 * time.Second,
	}
}

// timeoutWriter buffers the handler's response so nothing reaches the
// connection until the handler finishes. Once the deadline fires the
// buffer is discarded; the handler goroutine may keep writing but can
// no longer touch the wire.
type timeoutWriter struct {
	gin.ResponseWriter

	mu          sync.Mutex
	headers     http.Header
	body        bytes.Buffer
	code        int
	wroteHeader bool
	timedOut    bool
}

func newTimeoutWriter(w gin.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{
		ResponseWriter: w,
		headers:        make(http.Header),
		code:           http.StatusOK,
	}
}

func (w *timeoutWriter) Header() http.Header {
	return w.headers
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.code = code
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	w.wroteHeader = true
	return w.body.Write(b)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *timeoutWriter) WriteHeaderNow() {}

func (w *timeoutWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

func (w *timeoutWriter) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.body.Len()
}

func (w *timeoutWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wroteHeader
}

// flush copies the buffered response to the connection
func (w *timeoutWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	dst := w.ResponseWriter.Header()
	for k, v := range w.headers {
		dst[k] = v
	}
	w.ResponseWriter.WriteHeader(w.code)
	w.ResponseWriter.Write(w.body.Bytes())
}

// expire marks the writer dead and writes the 504 to the connection
func (w *timeoutWriter) expire(traceID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.timedOut = true
	w.code = http.StatusGatewayTimeout
	payload, _ := json.Marshal(ErrorResponse{
		Code:    http.StatusGatewayTimeout,
		Message: "Request timeout",
		TraceID: traceID,
	})
	w.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	w.ResponseWriter.Write(payload)
}

// Timeout adds a deadline to every request context and guarantees a
// 504 response when a handler overruns it.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		tw := newTimeoutWriter(c.Writer)
		c.Writer = tw

		done := make(chan struct{})
		panicked := make(chan interface{}, 1)
		go func() {
			defer func() {
				if p := recover(); p != nil {
					panicked <- p
				}
			}()
			c.Next()
			close(done)
		}()

		select {
		case p := <-panicked:
			// rethrow on the request goroutine so the recovery
			// middleware sees it
			panic(p)
		case <-done:
			tw.flush()
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				c.Abort()
				tw.expire(c.GetString(ContextRequestID))
			}
		}
	}
}
