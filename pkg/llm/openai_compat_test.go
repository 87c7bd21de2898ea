package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bluberry/pkg/llm"
)

func TestOpenAICompatBackend_Name(t *testing.T) {
	t.Parallel()
	b := llm.NewOpenAICompatBackend("http://localhost:8000", "mistral")
	assert.Equal(t, "openai_compat", b.Name())
}

func TestOpenAICompatBackend_Generate(t *testing.T) {
	t.Parallel()

	successResponse := `{
		"choices": [{"message": {"role": "assistant", "content": "{\"estimatedPrice\": 120}"}}],
		"model": "mistral",
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        llm.GenerateRequest
		apiKey     string
		wantErr    bool
		wantErrMsg string
		wantResp   string
		wantUsage  int
	}{
		{
			name: "successful generation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Contains(t, r.URL.Path, "/v1/chat/completions")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: llm.GenerateRequest{
				Messages:    []llm.Message{{Role: llm.RoleUser, Content: "price this"}},
				Temperature: 0.1,
				MaxTokens:   50,
			},
			wantResp:  `{"estimatedPrice": 120}`,
			wantUsage: 15,
		},
		{
			name: "roles preserved in order",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				_ = json.NewDecoder(r.Body).Decode(&req)
				msgs := req["messages"].([]any)
				assert.Len(t, msgs, 2)
				first := msgs[0].(map[string]any)
				assert.Equal(t, "system", first["role"])
				second := msgs[1].(map[string]any)
				assert.Equal(t, "user", second["role"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: llm.GenerateRequest{
				Messages: []llm.Message{
					{Role: llm.RoleSystem, Content: "You are an appraiser"},
					{Role: llm.RoleUser, Content: "price this"},
				},
			},
			wantResp: `{"estimatedPrice": 120}`,
		},
		{
			name: "json format sets response_format",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				_ = json.NewDecoder(r.Body).Decode(&req)
				rf := req["response_format"].(map[string]any)
				assert.Equal(t, "json_object", rf["type"])
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req: llm.GenerateRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "price"}},
				Format:   llm.FormatJSON,
			},
			wantResp: `{"estimatedPrice": 120}`,
		},
		{
			name:   "auth header sent when key provided",
			apiKey: "sk-test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer sk-test-key", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(successResponse))
			},
			req:      userRequest("test"),
			wantResp: `{"estimatedPrice": 120}`,
		},
		{
			name:       "no messages",
			handler:    func(_ http.ResponseWriter, _ *http.Request) {},
			req:        llm.GenerateRequest{},
			wantErr:    true,
			wantErrMsg: "no messages",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal"}`))
			},
			req:        userRequest("test"),
			wantErr:    true,
			wantErrMsg: "openai-compatible API error (status 500)",
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"choices":[],"model":"test","usage":{}}`))
			},
			req:        userRequest("test"),
			wantErr:    true,
			wantErrMsg: "empty choices",
		},
		{
			name: "invalid JSON response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`not json`))
			},
			req:        userRequest("test"),
			wantErr:    true,
			wantErrMsg: "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			opts := []llm.OpenAICompatOption{
				llm.WithOpenAICompatHTTPClient(srv.Client()),
				llm.WithOpenAICompatAPIKey(tt.apiKey),
			}

			backend := llm.NewOpenAICompatBackend(srv.URL, "mistral", opts...)
			resp, err := backend.Generate(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			if tt.wantUsage > 0 {
				assert.Equal(t, tt.wantUsage, resp.Usage.TotalTokens)
			}
		})
	}
}
