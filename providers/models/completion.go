package models

// Candidate is one completion suggestion returned by the provider.
// Candidates are never mutated after creation.
type Candidate struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// CompletionRequest carries everything the provider needs to produce
// candidates for one buffer position.
type CompletionRequest struct {
	FileID               string `json:"file"`
	Content              string `json:"content"`
	Line                 int    `json:"line"`
	Col                  int    `json:"col"`
	TabSize              int    `json:"tab_size"`
	IndentSize           int    `json:"indent_size"`
	UseTabs              bool   `json:"use_tabs"`
	FilterWhitespaceOnly bool   `json:"filter_whitespace_only"`
}

// CompletionResponse is the provider's wire response.
type CompletionResponse struct {
	Candidates []Candidate `json:"candidates"`
	Usage      Usage       `json:"usage"`
}

// Usage reports token consumption for a single completion call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AIError represents an error response from the backend.
type AIError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
