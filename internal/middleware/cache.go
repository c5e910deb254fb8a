package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hostelpad/hostel-booking/internal/config"
)

// bodyCapture duplicates the response body up to a size limit while
// forwarding it to the client unchanged.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	if remain := w.limit - w.size; remain > 0 {
		if int64(len(b)) <= remain {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:remain])
		}
	}
	w.size += int64(len(b))
	return w.ResponseWriter.Write(b)
}

// Cache serves successful GET responses on public browse routes from
// Redis for a short TTL.  The key covers route and query string; anything
// authenticated bypasses the cache entirely because availability shown to
// admins must be live.  Without a Redis client it is a pass-through.
func Cache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if r.Method != http.MethodGet || r.Header.Get("Authorization") != "" {
				return next(c)
			}
			sum := sha1.Sum([]byte(c.Path() + "?" + r.URL.RawQuery))
			key := fmt.Sprintf("%s:%x", cfg.Prefix, sum)

			ctx := r.Context()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("Content-Type", echo.MIMEApplicationJSON)
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.size <= int64(cfg.MaxBodyBytes) {
				// Best effort; a failed SET only costs the next request a miss.
				_ = rdb.Set(ctx, key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
