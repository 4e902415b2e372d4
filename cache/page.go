package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// KeyFunc returns the part of the cache key that depends on who is asking.
type KeyFunc func(c *gin.Context) string

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type pageWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *pageWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *pageWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Page caches successful GET responses for ttl, keyed by the request URI
// and whatever vary returns. Cookies are never stored.
func Page(store Store, ttl time.Duration, vary KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || ttl <= 0 {
			c.Next()
			return
		}
		key := "page:" + c.Request.URL.RequestURI()
		if vary != nil {
			key += "|" + vary(c)
		}
		ctx := c.Request.Context()
		if raw, err := store.Get(ctx, key); err == nil {
			var page cachedPage
			if err = json.Unmarshal(raw, &page); err == nil {
				c.Header("X-Page-Cache", "hit")
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
			log.WithError(err).WithField("key", key).Warn("Broken page cache entry")
		} else if !errors.Is(err, ErrCacheMiss) {
			log.WithError(err).Warn("Page cache read failed")
		}

		writer := &pageWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		if writer.Status() != http.StatusOK {
			return
		}
		raw, err := json.Marshal(cachedPage{
			Status:      writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		})
		if err == nil {
			err = store.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			log.WithError(err).Warn("Page cache write failed")
		}
	}
}
