package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client is the language-model surface the chatbot and sync job need:
// a completion call and sentence embeddings for retrieval.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float64, error)
	Ready() bool
}

var ErrNotConfigured = errors.New("language model not configured")

// HFClient calls the Hugging Face Inference API. Completion goes to the
// configured chat model; embeddings come from a fixed sentence-transformers
// feature-extraction model (384 dimensions).
type HFClient struct {
	token string
	model string
	http  *http.Client
}

const embedModel = "sentence-transformers/all-MiniLM-L6-v2"

func NewHF(token, model string) *HFClient {
	return &HFClient{
		token: token,
		model: model,
		http:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HFClient) Ready() bool { return c != nil && c.token != "" }

func (c *HFClient) call(ctx context.Context, url string, payload, out any) error {
	if !c.Ready() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("huggingface: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HFClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.7,
		"max_tokens":  500,
		"top_p":       0.9,
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.call(ctx, "https://router.huggingface.co/v1/chat/completions", payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("huggingface: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *HFClient) Embed(ctx context.Context, text string) ([]float64, error) {
	payload := map[string]any{"inputs": text}
	var out []float64
	url := "https://api-inference.huggingface.co/models/" + embedModel + "?wait_for_model=true"
	if err := c.call(ctx, url, payload, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("huggingface: empty embedding")
	}
	return out, nil
}
