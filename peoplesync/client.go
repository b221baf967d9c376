package peoplesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type hrisClient struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	limiter   <-chan time.Time
}

func newHRISClient(apiKey string) (*hrisClient, error) {
	baseURL := strings.TrimSpace(os.Getenv("HRIS_API_BASE_URL"))
	if baseURL == "" {
		return nil, errors.New("HRIS_API_BASE_URL is empty")
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("HRIS_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("hris api key is empty")
	}
	rateLimitPerMin := int64(10)
	if v := strings.TrimSpace(os.Getenv("HRIS_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			rateLimitPerMin = n
		}
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &hrisClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   time.Tick(interval),
	}, nil
}

type hrisListResponse struct {
	Data       []json.RawMessage `json:"data"`
	Items      []json.RawMessage `json:"items"`
	NextCursor string            `json:"next_cursor"`
	HasMore    *bool             `json:"has_more"`
}

func (c *hrisClient) getList(ctx context.Context, path string, params url.Values) (hrisListResponse, error) {
	<-c.limiter
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hrisListResponse{}, err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return hrisListResponse{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return hrisListResponse{}, fmt.Errorf("hris api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed hrisListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return hrisListResponse{}, err
	}
	return parsed, nil
}

func (r hrisListResponse) records() []json.RawMessage {
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Items
}

func (r hrisListResponse) hasMore() bool {
	if r.HasMore != nil {
		return *r.HasMore
	}
	return r.NextCursor != ""
}
