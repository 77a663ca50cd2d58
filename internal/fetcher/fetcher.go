// Package fetcher retrieves role sheets and question files that live behind
// http(s):// or ftp:// URLs.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher downloads remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// IsRemote reports whether src is a URL this package can fetch.
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "ftp://")
}

// Resolver turns a source reference into a local file path.
type Resolver struct {
	HTTP Fetcher
	FTP  Fetcher
}

// NewResolver builds a Resolver whose fetchers time out after timeout.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		HTTP: NewHTTPFetcher(HTTPOptions{Timeout: timeout}),
		FTP:  NewFTPFetcher(FTPOptions{Timeout: timeout}),
	}
}

// Resolve returns src unchanged when it is a local path. Remote sources are
// downloaded into a temporary directory; cleanup removes it. The local file
// keeps the remote file name so format detection by extension still works.
func (r *Resolver) Resolve(ctx context.Context, src string) (local string, cleanup func(), err error) {
	noop := func() {}
	if !IsRemote(src) {
		return src, noop, nil
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", noop, eris.Wrapf(err, "fetcher: parse %s", src)
	}
	f := r.HTTP
	if strings.EqualFold(u.Scheme, "ftp") {
		f = r.FTP
	}
	if f == nil {
		return "", noop, eris.Errorf("fetcher: no fetcher for scheme %q", u.Scheme)
	}

	dir, err := os.MkdirTemp("", "volunteer-match-*")
	if err != nil {
		return "", noop, eris.Wrap(err, "fetcher: create temp dir")
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}
	local = filepath.Join(dir, name)

	start := time.Now()
	n, err := f.DownloadToFile(ctx, src, local)
	if err != nil {
		cleanup()
		return "", noop, eris.Wrapf(err, "fetcher: download %s", u.Redacted())
	}
	zap.L().Info("fetcher: downloaded source",
		zap.String("url", u.Redacted()),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return local, cleanup, nil
}
