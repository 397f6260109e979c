package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type GeminiProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGeminiProvider(baseURL, apiKey, model string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

const promptTemplate = `As an IT Support Assistant, provide detailed troubleshooting steps for the following issue:
%s

Please provide the steps in a clear, numbered format:
1. First step
2. Second step
3. Third step
etc.

Also include:
Common causes:
- Cause 1
- Cause 2
- Cause 3

When to contact IT support:
- Situation 1
- Situation 2
- Situation 3

IMPORTANT: Do not use any asterisks (*) or other special formatting in your response.`

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateReq struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResp struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GeminiProvider) Generate(ctx context.Context, query string) (string, error) {
	if p.APIKey == "" {
		return "", ErrUnavailable
	}

	reqBody := geminiGenerateReq{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(promptTemplate, query)}}},
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.BaseURL, p.Model, p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrUnavailable
	}

	var decoded geminiGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", ErrUnavailable
	}
	if decoded.Error != nil {
		return "", ErrUnavailable
	}
	if len(decoded.Candidates) == 0 {
		return "", ErrUnavailable
	}

	var out bytes.Buffer
	for _, part := range decoded.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	if out.Len() == 0 {
		return "", ErrUnavailable
	}
	return out.String(), nil
}

// Probe issues a cheap generation to decide once, at process start, whether
// the oracle is usable at all. A later transient failure does not flip this.
func (p *GeminiProvider) Probe(ctx context.Context) bool {
	if p.APIKey == "" {
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := p.Generate(cctx, "Test connection")
	return err == nil
}
