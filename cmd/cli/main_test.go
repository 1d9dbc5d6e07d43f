package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	origURL := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = origURL })
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestAssetsCmd(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/user-1/assets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"currency":"USDT","available":"100","frozen":"0","total":"100"}]`))
	})

	cmd := assetsCmd()
	cmd.SetArgs([]string{"user-1"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, `"USDT"`) {
		t.Fatalf("expected USDT in output, got %q", out)
	}
}

func TestVerifyCmdFailsOnInconsistency(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"account_id":"acc-1","consistent":false}`))
	})

	cmd := verifyCmd()
	cmd.SetArgs([]string{"user-1", "spot", "USDT"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	captureOutput(t, func() {
		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for inconsistent account")
		}
	})
}

func TestConfigSetCmd(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/configs/SWAP_RATE_USDT_BTC" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"0.000016"`) {
			t.Errorf("expected value in body, got %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"key":"SWAP_RATE_USDT_BTC","value":"0.000016"}`))
	})

	cmd := configCmd()
	cmd.SetArgs([]string{"set", "SWAP_RATE_USDT_BTC", "0.000016"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(out, "SWAP_RATE_USDT_BTC") {
		t.Fatalf("expected key in output, got %q", out)
	}
}

func TestGetJSONErrorStatus(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not_found"}`))
	})

	if _, err := getJSON("/api/v1/configs/MISSING"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
