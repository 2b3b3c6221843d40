package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/constants"
)

func TestClientCompleteJSON(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Sure!\n` + "```json" + `\n{\"title\":\"Frog Tee\"}\n` + "```" + `"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: "OpenAI", APIKey: "k-1", BaseURL: srv.URL})
	if !client.Live() {
		t.Fatalf("client should be live")
	}
	var out struct {
		Title string `json:"title"`
	}
	if err := client.CompleteJSON(context.Background(), "sys", "write", 100, &out); err != nil {
		t.Fatalf("complete json failed: %v", err)
	}
	if out.Title != "Frog Tee" {
		t.Fatalf("unexpected title: %q", out.Title)
	}
	if gotAuth != "Bearer k-1" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" || len(gotReq.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
}

func TestClientNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: constants.AIProviderOpenAI, APIKey: "k", BaseURL: srv.URL})
	if _, err := client.Complete(context.Background(), "", "hi", 10); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestJonsAIIsNeverLive(t *testing.T) {
	client := NewClient(Config{Provider: constants.AIProviderJonsAI, APIKey: "k", BaseURL: "http://example.invalid"})
	if client.Live() {
		t.Fatalf("jons_ai must not be live")
	}
	if _, err := client.Complete(context.Background(), "", "hi", 10); !errors.Is(err, ErrNotLive) {
		t.Fatalf("expected ErrNotLive, got %v", err)
	}
	var nilClient *Client
	if nilClient.Live() || nilClient.Provider() != "" {
		t.Fatalf("nil client should be inert")
	}
}

func TestAnalyzeImageSendsDataURI(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		body = buf.String()
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"left\":0.1,\"top\":0.1,\"right\":0.9,\"bottom\":0.8}"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{Provider: constants.AIProviderGoogle, APIKey: "k", BaseURL: srv.URL})
	var box map[string]float64
	if err := client.AnalyzeImageJSON(context.Background(), "find subject", []byte{0x89, 'P', 'N', 'G'}, "image/png", &box); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if box["right"] != 0.9 {
		t.Fatalf("unexpected box: %v", box)
	}
	if !strings.Contains(body, "data:image/png;base64,") {
		t.Fatalf("request should carry data uri, got %s", body)
	}
}

func TestDecodeJSONObjectRejectsPlainText(t *testing.T) {
	var out map[string]interface{}
	if err := DecodeJSONObject("no json here", &out); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}
}
