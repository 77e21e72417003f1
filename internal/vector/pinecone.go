package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Index is the slice of the vector store the shop uses: keyed upserts and
// nearest-neighbor queries over product metadata.
type Index interface {
	Upsert(ctx context.Context, id string, values []float64, metadata map[string]any) error
	Query(ctx context.Context, values []float64, topK int) ([]Match, error)
	Delete(ctx context.Context, ids []string) error
	Stats(ctx context.Context) (Stats, error)
	Ready() bool
}

type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type Stats struct {
	TotalVectorCount int `json:"totalVectorCount"`
	Dimension        int `json:"dimension"`
}

var ErrNotConfigured = errors.New("vector index not configured")

// PineconeClient talks to a Pinecone serverless index over its REST data
// plane. Host is the per-index endpoint, e.g. "my-index-abc123.svc.aped-4627-b74a.pinecone.io".
type PineconeClient struct {
	apiKey string
	host   string
	http   *http.Client
}

func NewPinecone(apiKey, host string) *PineconeClient {
	return &PineconeClient{
		apiKey: apiKey,
		host:   host,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *PineconeClient) Ready() bool { return c != nil && c.apiKey != "" && c.host != "" }

func (c *PineconeClient) post(ctx context.Context, path string, payload, out any) error {
	if !c.Ready() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.host+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("pinecone %s: status %d", path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *PineconeClient) Upsert(ctx context.Context, id string, values []float64, metadata map[string]any) error {
	payload := map[string]any{
		"vectors": []map[string]any{{"id": id, "values": values, "metadata": metadata}},
	}
	return c.post(ctx, "/vectors/upsert", payload, nil)
}

func (c *PineconeClient) Query(ctx context.Context, values []float64, topK int) ([]Match, error) {
	payload := map[string]any{
		"vector":          values,
		"topK":            topK,
		"includeMetadata": true,
	}
	var out struct {
		Matches []Match `json:"matches"`
	}
	if err := c.post(ctx, "/query", payload, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (c *PineconeClient) Delete(ctx context.Context, ids []string) error {
	return c.post(ctx, "/vectors/delete", map[string]any{"ids": ids}, nil)
}

func (c *PineconeClient) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.post(ctx, "/describe_index_stats", map[string]any{}, &s)
	return s, err
}
