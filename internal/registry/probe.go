package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Prober checks whether a package exists in a package registry.
type Prober interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// HTTPProber probes an npm-compatible registry: GET <base>/<name>.
// HTTP 200 means the package exists; 404 means it does not; any other
// status is returned as an error.
type HTTPProber struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProber creates a prober for baseURL. A nil client uses
// http.DefaultClient.
func NewHTTPProber(baseURL string, client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// PackageURL returns the registry document URL for name. Scoped names keep
// their "@" and have the scope separator escaped ("@types%2Fnode").
func PackageURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(name)
}

// Exists performs one read-only existence check.
func (p *HTTPProber) Exists(ctx context.Context, name string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, PackageURL(p.baseURL, name), nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	// The abbreviated metadata document is much smaller than the full one.
	req.Header.Set("Accept", "application/vnd.npm.install-v1+json")
	req.Header.Set("User-Agent", "stackup-registry-probe")

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing %s: %w", name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, name)
	}
}
