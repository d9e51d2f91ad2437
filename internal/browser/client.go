package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mibscope/mibscope/pkg/mib"
)

// Sentinel errors for corpus requests.
var (
	// ErrNotFound is returned when the server does not know the requested
	// module or node.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and unexpected HTTP
	// statuses.
	ErrNetwork = errors.New("network error")
)

// Client talks to a mibscope corpus server. All requests are one-shot
// GETs; the caller decides what to do with slow or out-of-order responses.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ModuleList is the GET /modules payload.
type ModuleList struct {
	Generation string   `json:"generation"`
	Modules    []string `json:"modules"`
}

// Modules fetches the names of every module in the corpus.
func (c *Client) Modules(ctx context.Context) (ModuleList, error) {
	var list ModuleList
	err := c.get(ctx, c.baseURL+"/modules", &list)
	return list, err
}

// Module fetches one module's identity, imports and node forest.
func (c *Client) Module(ctx context.Context, name string) (*mib.Module, error) {
	var mod mib.Module
	if err := c.get(ctx, c.baseURL+"/module/"+url.PathEscape(name), &mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// NodeDetail fetches the full record of one node. An unknown OID is not an
// error: it returns (nil, nil), the "nothing to show" case.
func (c *Client) NodeDetail(ctx context.Context, module, oid string) (*mib.NodeDetail, error) {
	u := c.baseURL + "/module/" + url.PathEscape(module) + "?oid=" + url.QueryEscape(oid)
	var detail mib.NodeDetail
	err := c.get(ctx, u, &detail)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Search runs a corpus-wide search for term.
func (c *Client) Search(ctx context.Context, term string) ([]mib.SearchHit, error) {
	var hits []mib.SearchHit
	u := c.baseURL + "/search?term=" + url.QueryEscape(term)
	if err := c.get(ctx, u, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// get performs an HTTP GET and JSON-decodes the response into v.
func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
