//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:5000")

type phoneRecord struct {
	ID      int    `json:"id"`
	Brand   string `json:"Brand"`
	Model   string `json:"Model"`
	Storage string `json:"Storage"`
	Price   string `json:"Price ($)"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Count   int    `json:"count"`
}

func TestSystem_E2E_PhoneLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var before envelope[[]phoneRecord]
	doJSON(t, http.MethodGet, baseURL+"/api/phones", nil, &before, 200)

	model := fmt.Sprintf("E2E-%d-%d", time.Now().Unix(), rand.Intn(100000))

	var created envelope[phoneRecord]
	doJSON(t, http.MethodPost, baseURL+"/api/phones", map[string]any{
		"brand":   "Testco",
		"model":   model,
		"storage": "64GB",
		"price":   "$123",
	}, &created, 201)
	if created.Data.ID == 0 || created.Data.Model != model {
		t.Fatalf("created=%+v", created.Data)
	}
	id := created.Data.ID

	var got envelope[phoneRecord]
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/phones/%d", baseURL, id), nil, &got, 200)
	if got.Data != created.Data {
		t.Fatalf("got=%+v want=%+v", got.Data, created.Data)
	}

	var updated envelope[phoneRecord]
	doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/phones/%d", baseURL, id), map[string]any{
		"price": "999",
	}, &updated, 200)
	if updated.Data.Price != "999" || updated.Data.Storage != "64GB" {
		t.Fatalf("updated=%+v", updated.Data)
	}

	if os.Getenv("E2E_RESTART") == "1" {
		restartAPIContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/phones/%d", baseURL, id), nil, &got, 200)
		if got.Data.Price != "999" {
			t.Fatalf("after restart=%+v", got.Data)
		}
	}

	var analytics envelope[map[string]any]
	doJSON(t, http.MethodGet, baseURL+"/api/analytics", nil, &analytics, 200)
	if n, _ := analytics.Data["totalPhones"].(float64); int(n) != before.Count+1 {
		t.Fatalf("totalPhones=%v want=%d", analytics.Data["totalPhones"], before.Count+1)
	}

	doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/phones/%d", baseURL, id), nil, nil, 200)

	var after envelope[[]phoneRecord]
	doJSON(t, http.MethodGet, baseURL+"/api/phones", nil, &after, 200)
	if after.Count != before.Count {
		t.Fatalf("count=%d want=%d", after.Count, before.Count)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
