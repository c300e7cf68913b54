package datastore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDatasetteClient_BatchInsert_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotRows int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Rows []map[string]any `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotRows = len(body.Rows)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewDatasetteClient(ts.URL, "", "testtoken")
	if err := client.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	records := []map[string]any{{"isbn": "9783658000000"}, {"isbn": "9783030000002"}}
	if err := client.BatchInsert("springer_books", records); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if gotPath != "/-/insert/springer/springer_books" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer testtoken" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotRows != 2 {
		t.Errorf("rows = %d, want 2", gotRows)
	}
}

func TestDatasetteClient_BatchInsert_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		if err := json.NewEncoder(w).Encode(map[string]any{"error": "forbidden"}); err != nil {
			t.Errorf("Failed to encode error response: %v", err)
		}
	}))
	defer ts.Close()

	client := NewDatasetteClient(ts.URL, "books", "testtoken")
	records := []map[string]any{{"isbn": "9783658000000"}}
	if err := client.BatchInsert("springer_books", records); err == nil {
		t.Errorf("expected error, got nil")
	}
}

func TestDatasetteClient_Connect_InvalidURL(t *testing.T) {
	if err := NewDatasetteClient("not a url", "", "").Connect(); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestDatasetteClient_EmptyBatch(t *testing.T) {
	client := NewDatasetteClient("http://127.0.0.1:1", "", "")
	if err := client.BatchInsert("springer_books", nil); err != nil {
		t.Errorf("expected nil for empty batch, got %v", err)
	}
}
