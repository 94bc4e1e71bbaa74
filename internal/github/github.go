package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// Client talks to the GitHub REST API.
type Client struct {
	token  string
	apiURL string
	http   *http.Client
}

// NewClient creates a client. Requires GITHUB_TOKEN; GITHUB_API_URL
// overrides the endpoint (for GitHub Enterprise or tests).
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		token:  token,
		apiURL: strings.TrimRight(apiURL, "/"),
		http:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// PRDiff fetches the unified diff for a pull request.
func (c *Client) PRDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiURL, owner, repo, number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3.diff")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching PR diff: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return string(body), nil
	case http.StatusNotFound:
		return "", fmt.Errorf("PR #%d not found in %s/%s", number, owner, repo)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("authentication failed: %s", body)
	default:
		return "", fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, body)
	}
}

// PostComment adds a comment to the pull request's conversation.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, owner, repo, number)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, msg)
	}
	return nil
}

// ParsePRRef splits "owner/repo#123" into its parts.
func ParsePRRef(ref string) (owner, repo string, number int, err error) {
	slash := strings.Index(ref, "/")
	hash := strings.LastIndex(ref, "#")
	if slash < 0 || hash < slash {
		return "", "", 0, fmt.Errorf("invalid PR reference %q: expected owner/repo#number", ref)
	}
	owner = ref[:slash]
	repo = ref[slash+1 : hash]
	if _, err := fmt.Sscanf(ref[hash+1:], "%d", &number); err != nil || owner == "" || repo == "" || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR reference %q: expected owner/repo#number", ref)
	}
	return owner, repo, number, nil
}
