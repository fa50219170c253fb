package pipeline

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCollectFromSourcesIsolatesFailures(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRSS)
	}))
	defer feedServer.Close()

	brokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer brokenServer.Close()

	set := SourceSet{
		Feeds: []FeedSource{
			{Name: "Broken Feed", URL: brokenServer.URL},
			{Name: "Good Feed", URL: feedServer.URL, Language: "ja", Category: "news"},
		},
		APIs: []APISource{
			{Name: "Bad Type", URL: brokenServer.URL, Type: "graphql"},
		},
	}

	result := CollectFromSources(set, nil, testSourceConfig())

	// 壊れたソースがあっても正常なソースの結果は得られる
	if len(result.Items) != 3 {
		t.Errorf("Expected 3 items from the good feed, got %d", len(result.Items))
	}
	if len(result.FailedSources) != 2 {
		t.Fatalf("Expected 2 failed sources, got %v", result.FailedSources)
	}
	if result.FailedSources[0] != "Broken Feed" || result.FailedSources[1] != "Bad Type" {
		t.Errorf("Unexpected failed sources %v", result.FailedSources)
	}
	if result.SourceCounts["Good Feed"] != 3 {
		t.Errorf("Expected count 3 for the good feed, got %d", result.SourceCounts["Good Feed"])
	}
	if result.SourceCounts["Broken Feed"] != 0 {
		t.Errorf("Expected count 0 for the broken feed, got %d", result.SourceCounts["Broken Feed"])
	}
}

func TestCollectFromSourcesSubset(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRSS)
	}))
	defer feedServer.Close()

	set := SourceSet{
		Feeds: []FeedSource{
			{Name: "Feed A", URL: feedServer.URL},
			{Name: "Feed B", URL: feedServer.URL},
		},
	}

	result := CollectFromSources(set, []string{"feed b"}, testSourceConfig())

	if _, ran := result.SourceCounts["Feed A"]; ran {
		t.Error("Expected Feed A to be skipped by the subset filter")
	}
	if result.SourceCounts["Feed B"] != 3 {
		t.Errorf("Expected Feed B to run, counts: %v", result.SourceCounts)
	}
}

func TestSourceSelected(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  bool
	}{
		{"Feed A", nil, true},
		{"Feed A", []string{"feed a"}, true},
		{"Feed A", []string{" Feed A "}, true},
		{"Feed A", []string{"Feed B"}, false},
	}

	for _, tt := range tests {
		if got := sourceSelected(tt.name, tt.names); got != tt.want {
			t.Errorf("sourceSelected(%q, %v) = %v, want %v", tt.name, tt.names, got, tt.want)
		}
	}
}
