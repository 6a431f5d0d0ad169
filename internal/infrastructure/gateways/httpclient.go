package gateways

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lunapay/internal/usecase/interfaces"
)

// restClient is the thin JSON client shared by the providers that have no
// Go SDK. Failures come back as *interfaces.GatewayError carrying the
// provider name and the provider's error body.
type restClient struct {
	gateway string
	baseURL string
	client  *http.Client
	headers map[string]string
}

func (r *restClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return interfaces.NewGatewayError(r.gateway, "encoding request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(r.baseURL, "/")+path, reader)
	if err != nil {
		return interfaces.NewGatewayError(r.gateway, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return interfaces.NewGatewayError(r.gateway, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return interfaces.NewGatewayError(r.gateway, "reading response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &interfaces.GatewayError{
			Gateway: r.gateway,
			Message: fmt.Sprintf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw))),
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return interfaces.NewGatewayError(r.gateway, "decoding response", err)
		}
	}
	return nil
}

// hmacSignatureMatches compares an HMAC-SHA256 hex signature of payload
// against the header-supplied value, case-insensitively and in constant
// time.
func hmacSignatureMatches(secret string, payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	calculated := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(calculated), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// tokenMatches compares a shared-secret token, trimming both sides, in
// constant time.
func tokenMatches(secret, token string) bool {
	a := []byte(strings.TrimSpace(secret))
	b := []byte(strings.TrimSpace(token))
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
