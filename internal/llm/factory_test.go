package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockFactoryProvider struct {
	name string
}

func (m *mockFactoryProvider) Complete(_ context.Context, _ *Prompt, _ *RequestOptions) (*Response, error) {
	return &Response{Content: "ok"}, nil
}

func (m *mockFactoryProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func (m *mockFactoryProvider) Name() string { return m.name }

func TestFactoryCreate_EmptyAndNone(t *testing.T) {
	f := NewFactory()

	for _, name := range []string{"", "none"} {
		p, err := f.Create(ProviderConfig{Provider: name})
		if err != nil {
			t.Fatalf("provider %q: unexpected error: %v", name, err)
		}
		if p != nil {
			t.Fatalf("provider %q: expected nil provider", name)
		}
	}
}

func TestFactoryCreate_UnknownProvider(t *testing.T) {
	f := NewFactory()
	_, err := f.Create(ProviderConfig{Provider: "does-not-exist"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFactoryCreate_ConstructorError(t *testing.T) {
	f := NewFactory()
	f.Register("broken", func(cfg ProviderConfig) (Provider, error) {
		return nil, errors.New("boom")
	})
	_, err := f.Create(ProviderConfig{Provider: "broken"})
	if err == nil {
		t.Fatal("expected constructor error to propagate")
	}
}

func TestFactoryCreate_PassesConfig(t *testing.T) {
	f := NewFactory()
	var got ProviderConfig
	f.Register("mock", func(cfg ProviderConfig) (Provider, error) {
		got = cfg
		return &mockFactoryProvider{name: "mock"}, nil
	})

	_, err := f.Create(ProviderConfig{
		Provider:   "mock",
		APIKey:     "key",
		Model:      "model-x",
		EmbedModel: "embed-y",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.APIKey != "key" || got.Model != "model-x" || got.EmbedModel != "embed-y" {
		t.Errorf("config not passed through: %+v", got)
	}
}

func TestFactoryCreate_WrapsWithRetry(t *testing.T) {
	f := NewFactory()
	f.Register("mock", func(cfg ProviderConfig) (Provider, error) {
		return &mockFactoryProvider{name: "mock"}, nil
	})

	p, err := f.Create(ProviderConfig{
		Provider:   "mock",
		MaxRetries: 3,
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected RetryProvider wrapper, got %T", p)
	}
	if p.Name() != "mock" {
		t.Errorf("wrapper should expose inner name, got %q", p.Name())
	}
}

func TestFactoryCreate_WrapsWithRateLimit(t *testing.T) {
	f := NewFactory()
	f.Register("mock", func(cfg ProviderConfig) (Provider, error) {
		return &mockFactoryProvider{name: "mock"}, nil
	})

	p, err := f.Create(ProviderConfig{
		Provider:          "mock",
		RequestsPerMinute: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RateLimitProvider); !ok {
		t.Fatalf("expected RateLimitProvider wrapper, got %T", p)
	}
}

func TestFactoryCreate_NoDecorators(t *testing.T) {
	f := NewFactory()
	f.Register("mock", func(cfg ProviderConfig) (Provider, error) {
		return &mockFactoryProvider{name: "mock"}, nil
	})

	p, err := f.Create(ProviderConfig{Provider: "mock"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*mockFactoryProvider); !ok {
		t.Fatalf("expected bare provider, got %T", p)
	}
}

func TestDefaultProviderConfig(t *testing.T) {
	cfg := DefaultProviderConfig()
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("unexpected default timeout: %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("unexpected default retries: %d", cfg.MaxRetries)
	}
}
