// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-assessor/internal/httputil"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

func testLLMConfig(baseURL string) types.LLMConfig {
	cfg := types.DefaultConfig().LLM
	cfg.APIKey = "gsk_test"
	cfg.BaseURL = baseURL
	return cfg
}

func TestChatClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"queries\":[\"a\"]}"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(testLLMConfig(srv.URL + "/"))
	out, err := c.Complete(context.Background(), Request{
		Messages:    []Message{System("be brief"), User("Abstract:\nX")},
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"queries":["a"]}`, out)

	assert.Equal(t, "llama3-70b-8192", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "Abstract:\nX", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestChatClientOmitsResponseFormat(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`{"choices":[{"message":{"content":"free text"}}]}`))
	}))
	defer srv.Close()

	out, err := NewChatClient(testLLMConfig(srv.URL)).Complete(context.Background(), Request{
		Messages: []Message{User("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "free text", out)
	assert.NotContains(t, raw, "response_format")
	assert.Contains(t, raw, "temperature", "zero temperature is still sent")
}

func TestChatClientDefaultBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	orig := groqBaseURL
	groqBaseURL = srv.URL
	defer func() { groqBaseURL = orig }()

	out, err := NewChatClient(testLLMConfig("")).Complete(context.Background(), Request{Messages: []Message{User("hi")}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		errMsg     string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantStatus: 401},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, errMsg: "no choices"},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"content":" \n "}}]}`, errMsg: "no text"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, errMsg: "decoding response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewChatClient(testLLMConfig(srv.URL)).Complete(context.Background(), Request{Messages: []Message{User("hi")}})
			require.Error(t, err)
			if tt.wantStatus != 0 {
				var statusErr *httputil.StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestChatClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testLLMConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewChatClient(cfg).Complete(context.Background(), Request{Messages: []Message{User("hi")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := testLLMConfig("")
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ChatClient{}, c)

	cfg.Provider = types.ProviderGemini
	c, err = New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	cfg.Provider = "mystery"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
