package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// tryPostForm envía un form con Basic auth; un client vacío omite el header.
// No usa t, así que sirve desde goroutines.
func tryPostForm(path string, cl seedClient, form url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cl.ID != "" {
		req.SetBasicAuth(cl.ID, cl.Secret)
	}
	resp, err := newHTTPClient().Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func postForm(t *testing.T, path string, cl seedClient, form url.Values) (*http.Response, []byte) {
	t.Helper()
	resp, body, err := tryPostForm(path, cl, form)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func mustJSON(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("invalid json %q: %v", string(b), err)
	}
	return m
}

func requireNoStore(t *testing.T, resp *http.Response) {
	t.Helper()
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache, no-store" {
		t.Fatalf("Cache-Control=%q", cc)
	}
	if p := resp.Header.Get("Pragma"); p != "no-cache" {
		t.Fatalf("Pragma=%q", p)
	}
}

type tokenPair struct {
	Access  string
	Refresh string
	Scope   string
}

// issueTokens corre client_credentials y falla el test si no da 200.
func issueTokens(t *testing.T, cl seedClient, scope string) tokenPair {
	t.Helper()
	resp, body := postForm(t, "/oauth/token", cl, url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {scope},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("client_credentials status=%d body=%s", resp.StatusCode, body)
	}
	m := mustJSON(t, body)
	tp := tokenPair{}
	tp.Access, _ = m["access_token"].(string)
	tp.Refresh, _ = m["refresh_token"].(string)
	tp.Scope, _ = m["scope"].(string)
	if tp.Access == "" || tp.Refresh == "" {
		t.Fatalf("missing tokens in %s", body)
	}
	return tp
}
