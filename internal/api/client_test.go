package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/urls" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("userId") != "u1" || q.Get("limit") != "10" || q.Get("offset") != "20" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"total":42,"items":[
			{"contentHash":"h1","savedAt":{"_seconds":1700000000},"media":{"platform":"instagram","downloadStatus":"pending"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.FetchContent(context.Background(), "u1", 10, 20)
	if err != nil {
		t.Fatalf("FetchContent error: %v", err)
	}
	if !page.Success || page.Total != 42 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].ContentHash != "h1" || page.Items[0].Media.DownloadStatus != "pending" {
		t.Errorf("unexpected item: %+v", page.Items[0])
	}
	if page.Items[0].SavedAt.IsZero() {
		t.Error("savedAt wrapper not decoded")
	}
}

func TestSaveURLConflictIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"already saved"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SaveURL(context.Background(), "https://x.example/p/1", "u1")
	if err != nil {
		t.Fatalf("conflict should not surface as error: %v", err)
	}
	if !result.AlreadySaved || !result.Success {
		t.Errorf("expected AlreadySaved success, got %+v", result)
	}
}

func TestSaveURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"platform":"youtube","contentHash":"h9"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.SaveURL(context.Background(), "https://youtube.com/watch?v=1", "u1")
	if err != nil {
		t.Fatalf("SaveURL error: %v", err)
	}
	if result.ContentHash != "h9" || result.AlreadySaved {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchContent(context.Background(), "u1", 10, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Status != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTransportErrorStatusZero(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := client.DeleteContent(context.Background(), "h1", "u1")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Status != 0 {
		t.Errorf("expected transport error with status 0, got %v", err)
	}
	if IsConflict(err) {
		t.Error("transport error misread as conflict")
	}
}

func TestDeleteContent(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %q", r.Method)
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.DeleteContent(context.Background(), "h1", "u1"); err != nil {
		t.Fatalf("DeleteContent error: %v", err)
	}
	if gotPath != "/urls/h1" {
		t.Errorf("unexpected path %q", gotPath)
	}
}
