package files

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tdewolff/font"
)

const maxFontSize = 32 << 20

// fontURLRe extracts the font file URL from a Google Fonts CSS response.
var fontURLRe = regexp.MustCompile(`url\((https://fonts\.gstatic\.com/[^)]+)\)`)

var (
	httpClient     *retryablehttp.Client
	httpClientOnce sync.Once
)

func getHTTPClient() *retryablehttp.Client {
	httpClientOnce.Do(func() {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 2
		httpClient.HTTPClient.Timeout = 15 * time.Second
		httpClient.Logger = nil
	})
	return httpClient
}

// FontLoader reads font files from disk or from the network and returns
// SFNT (TTF/OTF) bytes ready for parsing. Remote fonts are cached in
// cacheDir when it is set.
type FontLoader struct {
	cacheDir string
	client   *retryablehttp.Client
}

func NewFontLoader(cacheDir string) *FontLoader {
	return &FontLoader{
		cacheDir: cacheDir,
		client:   getHTTPClient(),
	}
}

// Load resolves src, which is a local path, an http(s) URL, or a
// "google:FAMILY:WEIGHT" spec.
func (l *FontLoader) Load(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "google:"):
		return l.loadGoogle(ctx, src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.loadURL(ctx, src)
	default:
		return loadLocal(src)
	}
}

func loadLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ToSFNT(data)
}

func (l *FontLoader) loadURL(ctx context.Context, src string) ([]byte, error) {
	cacheFile := l.cachePath(urlCacheName(src))
	if data, ok := readCache(cacheFile); ok {
		return data, nil
	}

	data, err := l.fetch(ctx, src, maxFontSize)
	if err != nil {
		return nil, fmt.Errorf("download font: %w", err)
	}
	data, err = ToSFNT(data)
	if err != nil {
		return nil, err
	}
	l.writeCache(cacheFile, data)
	return data, nil
}

// ParseGoogleFontSpec splits "google:Family:Weight" into its parts. The
// weight must be numeric and the family may not contain path elements, since
// both end up in the cache file name.
func ParseGoogleFontSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] != "google" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	family, weight = parts[1], parts[2]
	if strings.ContainsAny(family, `/\`) || strings.Contains(family, "..") {
		return "", "", false
	}
	if _, err := strconv.Atoi(weight); err != nil {
		return "", "", false
	}
	return family, weight, true
}

func (l *FontLoader) loadGoogle(ctx context.Context, spec string) ([]byte, error) {
	family, weight, ok := ParseGoogleFontSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: expected google:FAMILY:WEIGHT", spec)
	}

	cacheFile := l.cachePath(fmt.Sprintf("%s-%s.ttf", strings.ReplaceAll(family, " ", "_"), weight))
	if data, ok := readCache(cacheFile); ok {
		return data, nil
	}

	cssURL := fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@%s", url.QueryEscape(family), weight)
	cssBody, err := l.fetch(ctx, cssURL, 1<<20)
	if err != nil {
		return nil, fmt.Errorf("fetch google fonts css: %w", err)
	}

	m := fontURLRe.FindSubmatch(cssBody)
	if m == nil {
		return nil, fmt.Errorf("no font URL in google fonts css for %s wght@%s", family, weight)
	}

	data, err := l.fetch(ctx, string(m[1]), maxFontSize)
	if err != nil {
		return nil, fmt.Errorf("download font: %w", err)
	}
	data, err = ToSFNT(data)
	if err != nil {
		return nil, err
	}
	l.writeCache(cacheFile, data)
	return data, nil
}

func (l *FontLoader) fetch(ctx context.Context, src string, limit int64) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Google only serves WOFF2 to modern user agents; ToSFNT converts it.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %s", src, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (l *FontLoader) cachePath(name string) string {
	if l.cacheDir == "" {
		return ""
	}
	return filepath.Join(l.cacheDir, name)
}

func readCache(path string) ([]byte, bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// writeCache is best effort; a read-only cache dir only costs a refetch.
func (l *FontLoader) writeCache(path string, data []byte) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = WriteFile(path, data, 0o644)
}

func urlCacheName(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return "remote.ttf"
	}
	name := strings.Trim(u.Host+strings.ReplaceAll(u.Path, "/", "_"), "_")
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".woff2"), ".woff")
	if !strings.HasSuffix(name, ".ttf") && !strings.HasSuffix(name, ".otf") {
		name += ".ttf"
	}
	return name
}

// ToSFNT converts WOFF and WOFF2 data to SFNT. Other data is returned as is
// and left for the font parser to judge.
func ToSFNT(data []byte) ([]byte, error) {
	if !isWOFF(data) {
		return data, nil
	}
	sfnt, err := font.ToSFNT(data)
	if err != nil {
		return nil, fmt.Errorf("convert woff to sfnt: %w", err)
	}
	return sfnt, nil
}

// isWOFF checks the "wOFF" and "wOF2" magic bytes.
func isWOFF(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	magic := string(data[:4])
	return magic == "wOFF" || magic == "wOF2"
}
