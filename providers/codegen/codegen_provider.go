package codegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/meysamhadeli/codetab/providers/contracts"
	"github.com/meysamhadeli/codetab/providers/models"
	contracts2 "github.com/meysamhadeli/codetab/token_management/contracts"
)

// CodegenConfig implements the completion provider interface against a
// codegen-style HTTP backend.
type CodegenConfig struct {
	BaseURL         string
	Model           string
	ApiKey          string
	MaxTokens       int
	Temperature     *float32
	TokenManagement contracts2.ITokenManagement
	client          *http.Client
}

const (
	defaultBaseURL   = "http://localhost:8791"
	defaultMaxTokens = 256
)

// completionRequestBody is the wire shape of a fetch call.
type completionRequestBody struct {
	models.CompletionRequest
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float32 `json:"temperature,omitempty"`
}

// NewCodegenProvider initializes a new codegen completion provider.
func NewCodegenProvider(config *CodegenConfig) contracts.ICompletionProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return &CodegenConfig{
		BaseURL:         baseURL,
		Model:           config.Model,
		ApiKey:          config.ApiKey,
		MaxTokens:       maxTokens,
		Temperature:     config.Temperature,
		TokenManagement: config.TokenManagement,
		client:          &http.Client{},
	}
}

// FetchCompletions requests candidates for the given buffer position. The
// backend returns candidates pre-ordered and, when requested, already
// filtered of whitespace-only completions.
func (codegenProvider *CodegenConfig) FetchCompletions(ctx context.Context, request *models.CompletionRequest) ([]models.Candidate, error) {
	reqBody := completionRequestBody{
		CompletionRequest: *request,
		Model:             codegenProvider.Model,
		MaxTokens:         codegenProvider.MaxTokens,
		Temperature:       codegenProvider.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	resp, err := codegenProvider.post(ctx, "/v1/code/completions", jsonData)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, &contracts.ProviderError{Provider: "codegen", Message: "error sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, codegenProvider.parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.ProviderError{Provider: "codegen", Message: "error reading response", Err: err}
	}

	var response models.CompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &contracts.ProviderError{Provider: "codegen", Message: "error unmarshalling response", Err: err}
	}

	if codegenProvider.TokenManagement != nil {
		input := response.Usage.InputTokens
		output := response.Usage.OutputTokens
		if input == 0 {
			input = codegenProvider.TokenManagement.EstimateTokens(request.Content)
		}
		if output == 0 {
			for _, candidate := range response.Candidates {
				output += codegenProvider.TokenManagement.EstimateTokens(candidate.Text)
			}
		}
		codegenProvider.TokenManagement.UsedTokens(input, output)
	}

	return response.Candidates, nil
}

// NotifyAccepted reports that the user applied the given candidate.
func (codegenProvider *CodegenConfig) NotifyAccepted(ctx context.Context, candidate models.Candidate) error {
	jsonData, err := json.Marshal(map[string]interface{}{
		"model":     codegenProvider.Model,
		"candidate": candidate,
	})
	if err != nil {
		return fmt.Errorf("error marshalling accepted notification: %w", err)
	}

	resp, err := codegenProvider.post(ctx, "/v1/code/completions/accepted", jsonData)
	if err != nil {
		return &contracts.ProviderError{Provider: "codegen", Message: "error sending accepted notification", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return codegenProvider.parseError(resp)
	}
	return nil
}

// NotifyRejected reports that the user dismissed the given candidates.
func (codegenProvider *CodegenConfig) NotifyRejected(ctx context.Context, candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"model":      codegenProvider.Model,
		"candidates": candidates,
	})
	if err != nil {
		return fmt.Errorf("error marshalling rejected notification: %w", err)
	}

	resp, err := codegenProvider.post(ctx, "/v1/code/completions/rejected", jsonData)
	if err != nil {
		return &contracts.ProviderError{Provider: "codegen", Message: "error sending rejected notification", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return codegenProvider.parseError(resp)
	}
	return nil
}

func (codegenProvider *CodegenConfig) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s%s", codegenProvider.BaseURL, path), bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if codegenProvider.ApiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", codegenProvider.ApiKey))
	}

	return codegenProvider.client.Do(req)
}

func (codegenProvider *CodegenConfig) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiError models.AIError
	if err := json.Unmarshal(body, &apiError); err != nil || apiError.Error.Message == "" {
		return &contracts.ProviderError{Provider: "codegen", StatusCode: resp.StatusCode, Message: string(body)}
	}

	return &contracts.ProviderError{Provider: "codegen", StatusCode: resp.StatusCode, Message: apiError.Error.Message}
}
