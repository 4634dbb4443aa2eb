package api

// GenerateRequest is the payload accepted by POST /v1/generate. All
// sampling knobs are optional; absent fields fall back to the server's
// configured defaults.
type GenerateRequest struct {
	Prompt            string   `json:"prompt"`
	Length            *int     `json:"length,omitempty"`
	Samples           *int     `json:"samples,omitempty"`
	Parallel          *int     `json:"parallel,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	Seed              *int64   `json:"seed,omitempty"`
	Stream            *bool    `json:"stream,omitempty"`
}

// GenerateResponse is the non-streaming response body, and also the
// payload of the final "done" event on a streaming request.
type GenerateResponse struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Created int64             `json:"created"`
	Prompt  string            `json:"prompt"`
	Samples []GeneratedSample `json:"samples"`
	Stats   GenerateStats     `json:"stats"`
}

// GeneratedSample is one completed continuation of the prompt.
type GeneratedSample struct {
	Index  int    `json:"index"`
	Tokens []int  `json:"tokens"`
	Text   string `json:"text"`
}

// GenerateStats summarizes throughput for the whole request.
type GenerateStats struct {
	TokensGenerated int     `json:"tokens_generated"`
	DurationMS      int64   `json:"duration_ms"`
	TokensPerSecond float64 `json:"tokens_per_second"`
}

// APIError is the wire form of any error response, nested under an
// "error" key by the write helpers.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
