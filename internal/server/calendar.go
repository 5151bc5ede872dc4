package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// feed is one published version of the birthday calendar.
type feed struct {
	ics      []byte
	etag     string
	modified time.Time
}

func newFeed(ics []byte, now time.Time) *feed {
	sum := sha256.Sum256(ics)
	return &feed{
		ics:      ics,
		etag:     fmt.Sprintf(config.FormatETag, base64.RawURLEncoding.EncodeToString(sum[:config.ETagBytes])),
		modified: now.UTC().Truncate(time.Second),
	}
}

// Update publishes a new calendar. Readers keep the version they loaded.
// Identical content keeps its modification time so conditional requests still match.
func (s *Server) Update(ics []byte) {
	next := newFeed(ics, time.Now())
	if prev := s.cache.Load(); prev != nil && prev.etag == next.etag {
		next.modified = prev.modified
	}
	s.cache.Store(next)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(ics),
		config.LogKeyETag, next.etag,
	)
}

// handleCalendarRequest serves the current feed. Conditional and HEAD
// requests are answered by http.ServeContent from the ETag and the
// modification time.
func (s *Server) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	f := s.cache.Load()
	if f == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, f.etag)

	http.ServeContent(w, r, "", f.modified, bytes.NewReader(f.ics))
}
