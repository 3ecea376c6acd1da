package turnstile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skaplSite/internal/config"
)

// Form identifies which lead-capture form a token belongs to. Each form has
// its own widget and therefore its own secret.
type Form string

const (
	FormContact Form = "contact"
	FormCareer  Form = "career"
)

// ParseForm validates a client-supplied form type.
func ParseForm(raw string) (Form, error) {
	switch Form(strings.TrimSpace(raw)) {
	case FormContact:
		return FormContact, nil
	case FormCareer:
		return FormCareer, nil
	default:
		return "", fmt.Errorf("invalid form type %q", raw)
	}
}

// Result mirrors the vendor siteverify response body.
type Result struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// Client redeems challenge tokens against the vendor verification endpoint.
// Every ambiguity (missing secret, transport failure, non-2xx status,
// unparseable body) is reported as an error so callers fail closed.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	secrets    map[Form]string
}

// NewClient builds a verifier from cfg.
func NewClient(cfg config.TurnstileConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		verifyURL:  cfg.VerifyURL,
		secrets: map[Form]string{
			FormContact: cfg.ContactSecret,
			FormCareer:  cfg.CareerSecret,
		},
	}
}

type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
}

// Verify redeems token with the secret bound to form. The returned Result is
// only trustworthy when err is nil; Result.Success alone decides acceptance.
func (c *Client) Verify(ctx context.Context, form Form, token string) (Result, error) {
	secret := strings.TrimSpace(c.secrets[form])
	if secret == "" {
		return Result{}, fmt.Errorf("no turnstile secret configured for %s form", form)
	}
	if strings.TrimSpace(token) == "" {
		return Result{}, fmt.Errorf("empty challenge token")
	}

	payload, err := json.Marshal(verifyRequest{Secret: secret, Response: token})
	if err != nil {
		return Result{}, fmt.Errorf("encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		return Result{}, fmt.Errorf("siteverify status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode siteverify response: %w", err)
	}

	return result, nil
}
