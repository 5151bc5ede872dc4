package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// ErrAddressBookTooLarge is returned while reading a remote address book
// that grows past config.MaxAddressBookSize.
var ErrAddressBookTooLarge = errors.New(config.ErrAddressBookSize)

// VCardFetcher retrieves a remote address book holding contact birthdays.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads an address book (CardDAV export or plain .vcf URL).
type HTTPFetcher struct {
	Client *http.Client
	// MaxSize bounds the body; zero means config.MaxAddressBookSize.
	MaxSize int64
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: config.HTTPTimeout},
		MaxSize: config.MaxAddressBookSize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, bookURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(bookURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	switch u.Scheme {
	case config.SchemeHTTP, config.SchemeHTTPS:
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, redactURL(u),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAddressBookReq, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	start := time.Now()
	log.Debug(config.MsgBookRequest)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAddressBookNet, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgBookRefused, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrAddressBookCode, resp.Status)
	}

	log.Debug(config.MsgBookReceived,
		config.LogKeyStatus, resp.StatusCode,
		config.LogKeyDuration, time.Since(start).Milliseconds())

	limit := f.MaxSize
	if limit <= 0 {
		limit = config.MaxAddressBookSize
	}
	return &boundedBody{body: resp.Body, left: limit}, nil
}

// redactURL drops credentials and the query string, where providers put tokens.
func redactURL(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}

// boundedBody fails once more than left bytes have been read.
type boundedBody struct {
	body io.ReadCloser
	left int64
}

func (b *boundedBody) Read(p []byte) (int, error) {
	if b.left < 0 {
		return 0, ErrAddressBookTooLarge
	}
	// One extra byte tells an exact fit apart from an overflow.
	if int64(len(p)) > b.left+1 {
		p = p[:b.left+1]
	}
	n, err := b.body.Read(p)
	b.left -= int64(n)
	if b.left < 0 {
		return n + int(b.left), ErrAddressBookTooLarge
	}
	return n, err
}

func (b *boundedBody) Close() error { return b.body.Close() }
