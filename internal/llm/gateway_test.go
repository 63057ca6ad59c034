package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// MockProvider is a scripted provider for gateway tests
type MockProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return true }

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	content := ""
	if i < len(m.responses) {
		content = m.responses[i]
	}
	return &CompletionResponse{Content: content, Model: "mock-model"}, nil
}

func TestGateway_Invoke_DecodesJSON(t *testing.T) {
	mock := &MockProvider{responses: []string{`{"stance": "support", "confidence": 80}`}}
	gateway := NewGatewayWithProvider(mock, DefaultConfig(), nil)

	var out struct {
		Stance     string `json:"stance"`
		Confidence int    `json:"confidence"`
	}
	if err := gateway.Invoke(context.Background(), "instructions", "payload", &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Stance != "support" || out.Confidence != 80 {
		t.Errorf("Unexpected decoded output: %+v", out)
	}
}

func TestGateway_Invoke_StripsMarkdownFences(t *testing.T) {
	mock := &MockProvider{responses: []string{"```json\n{\"verdict\": \"false\"}\n```"}}
	gateway := NewGatewayWithProvider(mock, DefaultConfig(), nil)

	var out struct {
		Verdict string `json:"verdict"`
	}
	if err := gateway.Invoke(context.Background(), "instructions", "payload", &out); err != nil {
		t.Fatalf("Expected fenced JSON to decode, got %v", err)
	}
	if out.Verdict != "false" {
		t.Errorf("Expected verdict 'false', got %q", out.Verdict)
	}
}

func TestGateway_Invoke_RetriesTransportErrors(t *testing.T) {
	mock := &MockProvider{
		errs:      []error{errors.New("connection reset")},
		responses: []string{"", `{"ok": true}`},
	}
	config := DefaultConfig()
	config.MaxRetries = 2
	gateway := NewGatewayWithProvider(mock, config, nil)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := gateway.Invoke(context.Background(), "instructions", "payload", &out); err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("Expected 2 calls, got %d", mock.calls)
	}
	if !out.OK {
		t.Error("Expected decoded output from second attempt")
	}
}

func TestGateway_Invoke_TransportErrorAfterRetries(t *testing.T) {
	mock := &MockProvider{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	config := DefaultConfig()
	config.MaxRetries = 2
	gateway := NewGatewayWithProvider(mock, config, nil)

	var out map[string]interface{}
	err := gateway.Invoke(context.Background(), "instructions", "payload", &out)
	if err == nil {
		t.Fatal("Expected error after exhausted retries")
	}

	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("Expected InferenceError, got %T", err)
	}
	if infErr.Kind != FailureTransport {
		t.Errorf("Expected transport failure, got %q", infErr.Kind)
	}
	if mock.calls != 3 {
		t.Errorf("Expected 3 calls (initial + 2 retries), got %d", mock.calls)
	}
}

func TestGateway_Invoke_ParseFailureNotRetried(t *testing.T) {
	mock := &MockProvider{responses: []string{"I cannot answer that in JSON, sorry."}}
	config := DefaultConfig()
	config.MaxRetries = 2
	gateway := NewGatewayWithProvider(mock, config, nil)

	var out map[string]interface{}
	err := gateway.Invoke(context.Background(), "instructions", "payload", &out)
	if err == nil {
		t.Fatal("Expected parse error")
	}

	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("Expected InferenceError, got %T", err)
	}
	if infErr.Kind != FailureParse {
		t.Errorf("Expected parse failure, got %q", infErr.Kind)
	}
	if mock.calls != 1 {
		t.Errorf("Expected a single call for a parse failure, got %d", mock.calls)
	}
}

func TestGateway_Invoke_MalformedJSONIsParseFailure(t *testing.T) {
	mock := &MockProvider{responses: []string{`{"stance": "support", truncated`}}
	gateway := NewGatewayWithProvider(mock, DefaultConfig(), nil)

	var out map[string]interface{}
	err := gateway.Invoke(context.Background(), "instructions", "payload", &out)

	var infErr *InferenceError
	if !errors.As(err, &infErr) || infErr.Kind != FailureParse {
		t.Errorf("Expected parse failure for malformed JSON, got %v", err)
	}
}

func TestGateway_Invoke_NoProvider(t *testing.T) {
	gateway := NewGatewayWithProvider(nil, DefaultConfig(), nil)
	if gateway.Configured() {
		t.Error("Expected gateway without provider to report unconfigured")
	}

	var out map[string]interface{}
	err := gateway.Invoke(context.Background(), "instructions", "payload", &out)

	var infErr *InferenceError
	if !errors.As(err, &infErr) || infErr.Kind != FailureTransport {
		t.Errorf("Expected transport failure without provider, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose wrapped", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`},
		{"no object", "sorry, no can do", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.content); got != tc.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestNewProvider_Selection(t *testing.T) {
	cases := []struct {
		provider string
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{provider: "", wantNil: true},
		{provider: "openai", wantName: "openai"},
		{provider: "anthropic", wantName: "anthropic"},
		{provider: "claude", wantName: "anthropic"},
		{provider: "ollama", wantName: "ollama"},
		{provider: "unknown", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("provider=%q", tc.provider), func(t *testing.T) {
			config := DefaultConfig()
			config.Provider = tc.provider
			config.APIKey = "test-key"

			p, err := NewProvider(config)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error for unknown provider")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tc.wantNil {
				if p != nil {
					t.Errorf("Expected nil provider, got %v", p.Name())
				}
				return
			}
			if p == nil || p.Name() != tc.wantName {
				t.Errorf("Expected provider %q, got %v", tc.wantName, p)
			}
		})
	}
}
