// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leseb/searchsuite/pkg/websearch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRun_SearchJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "bing" {
			t.Errorf("engine = %q, want bing", got)
		}
		if got := r.URL.Query().Get("q"); got != "funny cats" {
			t.Errorf("q = %q, want 'funny cats'", got)
		}
		if got := r.URL.Query().Get("num"); got != "3" {
			t.Errorf("num = %q, want 3", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[{"title":"Cats","link":"https://cats.example","snippet":"meow"}]}`))
	}))
	defer server.Close()

	path := writeConfig(t, "search:\n  serp:\n    api_key: k\n    base_url: "+server.URL+"\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", path, "-json", "-opt", "num=3", "serp:bing", "funny", "cats"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	var results []websearch.Result
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	want := websearch.Result{Title: "Cats", URL: "https://cats.example", Content: "meow", Source: "serp:bing"}
	if len(results) != 1 || results[0] != want {
		t.Errorf("results = %+v, want [%+v]", results, want)
	}
}

func TestRun_UnknownProvider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "none.yaml"), "google", "cats"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid provider key") {
		t.Errorf("stderr should explain the failure, got %q", stderr.String())
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"serp"}, &stdout, &stderr); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "Usage: searchsuite") {
		t.Errorf("expected usage on stderr, got %q", stderr.String())
	}
	if code := run(context.Background(), []string{"-opt", "novalue", "serp", "q"}, &stdout, &stderr); code != 2 {
		t.Errorf("bad -opt exit code = %d, want 2", code)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Version: dev") {
		t.Errorf("unexpected version output %q", stdout.String())
	}
}
