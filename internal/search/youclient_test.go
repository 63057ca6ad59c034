package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/debateshield/internal/model"
)

const youFixture = `{
	"results": {
		"web": [
			{
				"title": "NASA - Earth imagery",
				"url": "https://nasa.gov/earth",
				"description": "Photographs of Earth from orbit.",
				"snippets": ["Satellite imagery shows a spherical Earth."],
				"page_age": "2024-01-01",
				"thumbnail_url": "https://nasa.gov/thumb.jpg"
			},
			{
				"title": "Flat Earth FAQ",
				"url": "https://example.org/faq",
				"description": "Frequently asked questions.",
				"snippets": []
			},
			{
				"title": "Third result",
				"url": "https://example.org/third",
				"description": "Extra result."
			}
		]
	},
	"latency": 0.2
}`

func newYouTestClient(t *testing.T, handler http.HandlerFunc) (*YouClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewYouClient(model.SearchConfig{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		RatePerSecond: 100,
		Burst:         100,
	})
	return client, server
}

func TestYouClient_Search(t *testing.T) {
	var gotQuery, gotCount, gotKey string

	client, _ := newYouTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotCount = r.URL.Query().Get("count")
		gotKey = r.Header.Get("X-API-Key")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(youFixture))
	})

	items, err := client.Search(context.Background(), "the earth is flat", 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotQuery != "the earth is flat" || gotCount != "5" {
		t.Errorf("Unexpected request params: query=%q count=%q", gotQuery, gotCount)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected API key header, got %q", gotKey)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	// First snippet wins over the description when present.
	if items[0].Snippet != "Satellite imagery shows a spherical Earth." {
		t.Errorf("Expected snippet preferred, got %q", items[0].Snippet)
	}
	// Description is the fallback when snippets are empty.
	if items[1].Snippet != "Frequently asked questions." {
		t.Errorf("Expected description fallback, got %q", items[1].Snippet)
	}
	if items[0].Title != "NASA - Earth imagery" || items[0].URL != "https://nasa.gov/earth" {
		t.Errorf("Unexpected first item: %+v", items[0])
	}
}

func TestYouClient_Search_RespectsCount(t *testing.T) {
	client, _ := newYouTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(youFixture))
	})

	items, err := client.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected results truncated to 2, got %d", len(items))
	}
}

func TestYouClient_Search_APIError(t *testing.T) {
	client, _ := newYouTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	if _, err := client.Search(context.Background(), "query", 5); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestYouClient_Configured(t *testing.T) {
	withKey := NewYouClient(model.SearchConfig{APIKey: "k"})
	if !withKey.Configured() {
		t.Error("Expected client with key to report configured")
	}

	without := NewYouClient(model.SearchConfig{})
	if without.Configured() {
		t.Error("Expected client without key to report unconfigured")
	}
	if _, err := without.Search(context.Background(), "query", 5); err == nil {
		t.Error("Expected error when searching without a key")
	}
}
