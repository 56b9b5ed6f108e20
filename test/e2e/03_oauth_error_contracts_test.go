package e2e

import (
	"net/http"
	"net/url"
	"testing"
)

// 03 - Contratos de error OAuth2 (RFC 6749 §5.2).
func Test_03_OAuth_Error_Contracts(t *testing.T) {
	t.Run("missing basic auth", func(t *testing.T) {
		resp, body := postForm(t, "/oauth/token", seedClient{}, url.Values{"grant_type": {"client_credentials"}})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status=%d", resp.StatusCode)
		}
		if wa := resp.Header.Get("WWW-Authenticate"); wa != "Basic" {
			t.Fatalf("WWW-Authenticate=%q", wa)
		}
		requireNoStore(t, resp)
		if e := mustJSON(t, body)["error"]; e != "invalid_client" {
			t.Fatalf("error=%v", e)
		}
	})

	cases := []struct {
		name   string
		cl     seedClient
		form   url.Values
		status int
		code   string
	}{
		{"wrong secret", seedClient{ID: seed.Confidential.ID, Secret: "x"}, url.Values{"grant_type": {"client_credentials"}, "scope": {"a"}}, 401, "invalid_client"},
		{"unsupported grant", seed.Confidential, url.Values{"grant_type": {"password"}}, 400, "unsupported_grant_type"},
		{"authorization_code", seed.Confidential, url.Values{"grant_type": {"authorization_code"}, "code": {"c"}}, 400, "unsupported_grant_type"},
		{"public client", seed.Public, url.Values{"grant_type": {"client_credentials"}, "scope": {"a"}}, 400, "unauthorized_client"},
		{"empty scope", seed.Confidential, url.Values{"grant_type": {"client_credentials"}, "scope": {""}}, 400, "invalid_request"},
		{"unknown refresh", seed.Confidential, url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"0b9d8a0e-0f55-4a38-a4b1-0d1a3c1b9e77"}}, 400, "invalid_request"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postForm(t, "/oauth/token", tt.cl, tt.form)
			if resp.StatusCode != tt.status {
				t.Fatalf("status=%d body=%s", resp.StatusCode, body)
			}
			requireNoStore(t, resp)
			if e := mustJSON(t, body)["error"]; e != tt.code {
				t.Fatalf("error=%v want %s", e, tt.code)
			}
		})
	}

	t.Run("GET on token endpoint", func(t *testing.T) {
		resp, err := newHTTPClient().Get(baseURL + "/oauth/token")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed || resp.Header.Get("Allow") != http.MethodPost {
			t.Fatalf("status=%d allow=%q", resp.StatusCode, resp.Header.Get("Allow"))
		}
	})

	t.Run("authorize placeholder", func(t *testing.T) {
		resp, err := newHTTPClient().Get(baseURL + "/oauth/authorize")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotImplemented {
			t.Fatalf("status=%d", resp.StatusCode)
		}
	})
}
