package codegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meysamhadeli/codetab/providers/contracts"
	"github.com/meysamhadeli/codetab/providers/models"
)

type recordingTokenManager struct {
	mu     sync.Mutex
	input  int
	output int
}

func (tm *recordingTokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.input += inputToken
	tm.output += outputToken
}

func (tm *recordingTokenManager) EstimateTokens(text string) int { return len(text) / 4 }

func (tm *recordingTokenManager) CalculateCost(string, string, int, int) float64 {
	return 0
}

func (tm *recordingTokenManager) DisplayTokens(string, string) {}

func (tm *recordingTokenManager) GetCurrentTokenUsage() (int, int, int) { return 0, 0, 0 }

func (tm *recordingTokenManager) ClearToken() {}

func TestCodegenProvider_FetchCompletions(t *testing.T) {
	var gotBody completionRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/code/completions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(models.CompletionResponse{
			Candidates: []models.Candidate{
				{ID: "1", Text: "fmt.Println(\"hello\")"},
				{ID: "2", Text: "fmt.Print(\"hello\")"},
			},
			Usage: models.Usage{InputTokens: 42, OutputTokens: 12},
		})
	}))
	defer server.Close()

	tm := &recordingTokenManager{}
	provider := NewCodegenProvider(&CodegenConfig{
		BaseURL:         server.URL,
		Model:           "codegen-small",
		ApiKey:          "secret",
		TokenManagement: tm,
	})

	candidates, err := provider.FetchCompletions(context.Background(), &models.CompletionRequest{
		FileID:               "/project/main.go",
		Content:              "package main",
		Line:                 0,
		Col:                  12,
		TabSize:              4,
		IndentSize:           4,
		FilterWhitespaceOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "fmt.Println(\"hello\")", candidates[0].Text)

	assert.Equal(t, "codegen-small", gotBody.Model)
	assert.Equal(t, defaultMaxTokens, gotBody.MaxTokens)
	assert.True(t, gotBody.FilterWhitespaceOnly)

	assert.Equal(t, 42, tm.input)
	assert.Equal(t, 12, tm.output)
}

func TestCodegenProvider_FetchCompletionsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	provider := NewCodegenProvider(&CodegenConfig{BaseURL: server.URL})

	_, err := provider.FetchCompletions(context.Background(), &models.CompletionRequest{Content: "x"})
	require.Error(t, err)

	var pe *contracts.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Equal(t, "rate limited", pe.Message)
}

func TestCodegenProvider_FetchCompletionsCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	provider := NewCodegenProvider(&CodegenConfig{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := provider.FetchCompletions(ctx, &models.CompletionRequest{Content: "x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCodegenProvider_Notifications(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
	}))
	defer server.Close()

	provider := NewCodegenProvider(&CodegenConfig{BaseURL: server.URL})

	err := provider.NotifyAccepted(context.Background(), models.Candidate{ID: "1", Text: "x"})
	require.NoError(t, err)

	err = provider.NotifyRejected(context.Background(), []models.Candidate{{ID: "2"}, {ID: "3"}})
	require.NoError(t, err)

	// An empty rejected batch is not sent at all.
	err = provider.NotifyRejected(context.Background(), nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/v1/code/completions/accepted", "/v1/code/completions/rejected"}, paths)
}
