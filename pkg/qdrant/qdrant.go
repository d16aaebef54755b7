package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL        string        `split_words:"true" required:"true"`
	APIKey     string        `split_words:"true"`
	Collection string        `split_words:"true" default:"support_policies"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
}

// Client is a thin Qdrant HTTP API client.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qdrant url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	collection := strings.TrimSpace(cfg.Collection)
	if collection == "" {
		return nil, errors.New("qdrant collection is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		collection: collection,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type CreateCollectionRequest struct {
	Vectors VectorParams `json:"vectors"`
}

type VectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type Point struct {
	ID      string         `json:"id"`
	Vector  []float64      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

type upsertPointsRequest struct {
	Points []Point `json:"points"`
}

type searchRequest struct {
	Vector      []float64 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []ScoredPoint `json:"result"`
}

type ScoredPoint struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// EnsureCollection creates the collection if it does not exist yet.
func (c *Client) EnsureCollection(ctx context.Context, dimension int) error {
	req := CreateCollectionRequest{
		Vectors: VectorParams{Size: dimension, Distance: "Cosine"},
	}
	path := fmt.Sprintf("/collections/%s", c.collection)
	// 409 means the collection is already there.
	err := c.do(ctx, http.MethodPut, path, req, nil, http.StatusOK, http.StatusCreated, http.StatusConflict)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// UpsertPoints inserts or updates vectors in the collection.
func (c *Client) UpsertPoints(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	path := fmt.Sprintf("/collections/%s/points", c.collection)
	if err := c.do(ctx, http.MethodPut, path, upsertPointsRequest{Points: points}, nil, http.StatusOK); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// SearchPoints returns the k nearest points with payloads.
func (c *Client) SearchPoints(ctx context.Context, vector []float64, k int) ([]ScoredPoint, error) {
	path := fmt.Sprintf("/collections/%s/points/search", c.collection)
	req := searchRequest{Vector: vector, Limit: k, WithPayload: true}
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, path, req, &resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	return resp.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, okStatuses ...int) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	ok := false
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qdrant http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
