package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geminiReply(t *testing.T, text string) []byte {
	t.Helper()
	reply := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	body, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("encoding reply: %v", err)
	}
	return body
}

func TestAnalyzeDecodesModelAnswer(t *testing.T) {
	var gotKey string
	var gotReq geminiRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write(geminiReply(t, `{"propertyType":"Cottage","locationType":"Countryside","ageOfProperty":"Victorian","interiorDescription":"Beamed ceilings","exteriorDescription":"Thatched roof","locationDescription":"Remote lane"}`))
	}))
	defer upstream.Close()

	g := NewGemini("key-123")
	g.BaseURL = upstream.URL

	result, err := g.Analyze(context.Background(), []Image{{MIMEType: "image/jpeg", Data: "aGk="}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.PropertyType != "Cottage" || result.AgeOfProperty != "Victorian" {
		t.Errorf("unexpected result: %+v", result)
	}
	if gotKey != "key-123" {
		t.Errorf("expected the API key header, got %q", gotKey)
	}
	// The prompt part plus one inline image part.
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	if gotReq.Contents[0].Parts[1].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("expected the image forwarded inline, got %+v", gotReq.Contents[0].Parts[1])
	}
}

func TestAnalyzeReportsUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	g := NewGemini("key")
	g.BaseURL = upstream.URL

	if _, err := g.Analyze(context.Background(), []Image{{MIMEType: "image/png", Data: "aGk="}}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAnalyzeRejectsMalformedAnswer(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiReply(t, "this is prose, not JSON"))
	}))
	defer upstream.Close()

	g := NewGemini("key")
	g.BaseURL = upstream.URL

	if _, err := g.Analyze(context.Background(), []Image{{MIMEType: "image/png", Data: "aGk="}}); !errors.Is(err, ErrBadResponse) {
		t.Errorf("expected ErrBadResponse, got %v", err)
	}
}
