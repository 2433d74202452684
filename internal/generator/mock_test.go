package generator

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// mockModel returns canned completions in call order and records the options
// each call was made with.
type mockModel struct {
	responses []string
	err       error
	calls     int
	opts      []llms.CallOptions
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	m.opts = append(m.opts, opts)

	response := m.responses[m.calls%len(m.responses)]
	m.calls++
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: response}},
	}, nil
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, nil, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

// memCache is an in-process domain.Cache for tests.
type memCache struct {
	m map[string]string
}

func newMemCache() *memCache {
	return &memCache{m: map[string]string{}}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.m[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.m, key)
	return nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
