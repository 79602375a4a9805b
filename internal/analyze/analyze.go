// Package analyze derives listing details from uploaded photos so the
// submission wizard can pre-fill its taxonomy steps. The model provider sits
// behind the Analyzer interface; the shipped implementation calls the Gemini
// API.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Image is one photo to analyze, base64-encoded as browsers submit it.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Result carries the fields the wizard can pre-fill from the photos.
type Result struct {
	PropertyType        string `json:"propertyType"`
	LocationType        string `json:"locationType"`
	AgeOfProperty       string `json:"ageOfProperty"`
	InteriorDescription string `json:"interiorDescription"`
	ExteriorDescription string `json:"exteriorDescription"`
	LocationDescription string `json:"locationDescription"`
}

// Analyzer produces a Result from listing photos.
type Analyzer interface {
	Analyze(ctx context.Context, images []Image) (*Result, error)
}

// ErrUnavailable means the upstream model service could not be reached or
// rejected the request.
var ErrUnavailable = errors.New("analysis service unavailable")

// ErrBadResponse means the model answered with something that is not the
// expected JSON shape.
var ErrBadResponse = errors.New("analysis returned an invalid response")

const defaultBaseURL = "https://generativelanguage.googleapis.com"

const modelPath = "/v1beta/models/gemini-2.0-flash:generateContent"

// prompt asks for a single JSON object matching Result's fields. The
// response MIME type is pinned to JSON in the generation config.
const prompt = `Analyze the provided image(s) of a property. Focus on the visual details. Return ONLY a single JSON object.
Keys MUST include: propertyType, locationType, ageOfProperty, interiorDescription, exteriorDescription, and locationDescription.
Combine analysis from all images if multiple are provided.`

// Gemini analyzes photos with the Gemini generateContent API.
type Gemini struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewGemini creates an analyzer for the given API key.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		APIKey:  apiKey,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobData `json:"inlineData,omitempty"`
}

type geminiBlobData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMIMEType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze sends the photos to the model and decodes its JSON answer.
func (g *Gemini) Analyze(ctx context.Context, images []Image) (*Result, error) {
	parts := make([]geminiPart, 0, len(images)+1)
	parts = append(parts, geminiPart{Text: prompt})
	for _, img := range images {
		parts = append(parts, geminiPart{
			InlineData: &geminiBlobData{MIMEType: img.MIMEType, Data: img.Data},
		})
	}

	payload := geminiRequest{Contents: []geminiContent{{Role: "user", Parts: parts}}}
	payload.GenerationConfig.ResponseMIMEType = "application/json"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+modelPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var answer geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(answer.Candidates) == 0 || len(answer.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty answer", ErrBadResponse)
	}

	var result Result
	if err := json.Unmarshal([]byte(answer.Candidates[0].Content.Parts[0].Text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &result, nil
}
