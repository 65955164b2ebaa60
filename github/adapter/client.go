package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	acceptJSON = "application/vnd.github+json"
	acceptDiff = "application/vnd.github.diff"
)

// Client is the low-level GitHub REST client. Every dispatch, retries
// included, passes through the shared pacer, so the minimum spacing between
// outbound calls holds across all call sites sharing the pacer.
type Client struct {
	apiBase string
	http    *http.Client
	pacer   *rate.Limiter
	retry   RetryPolicy
}

type Option func(*Client)

// WithBaseURL overrides the API base URL (tests point it at a local server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(url, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithPacer injects the shared dispatch pacer. Pass the same pacer to every
// client so the spacing invariant stays process-wide.
func WithPacer(l *rate.Limiter) Option {
	return func(c *Client) { c.pacer = l }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// New creates a Client for the given GitHub domain. Empty or github.com
// targets public GitHub, anything else is treated as an Enterprise host.
func New(domain string, opts ...Option) *Client {
	c := &Client{
		apiBase: apiBase(domain),
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pacer == nil {
		c.pacer = NewPacer(DefaultMinInterval)
	}
	return c
}

func apiBase(domain string) string {
	if domain == "" || domain == "github.com" {
		return "https://api.github.com"
	}
	return "https://" + domain + "/api/v3"
}

// do runs one logical call. On success the response body is open and owned
// by the caller; every failure path has consumed the body and returns a
// typed *Error.
func (c *Client) do(ctx context.Context, op, method, url, token, accept string, payload any) (*http.Response, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("%s: encode payload: %v", op, err)}
		}
		body = b
	}
	if accept == "" {
		accept = acceptJSON
	}
	return withRetry(ctx, c.retry, op, func() (*http.Response, error) {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, netError(op, err)
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("%s: %v", op, err)}
		}
		if strings.TrimSpace(token) != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Accept", accept)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, netError(op, err)
		}
		if cerr := classify(resp, op); cerr != nil {
			return nil, cerr
		}
		return resp, nil
	})
}

func (c *Client) getJSON(ctx context.Context, op, url, token string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, url, token, acceptJSON, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("%s: decode response: %v", op, err)}
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, op, method, url, token string, payload, out any) error {
	resp, err := c.do(ctx, op, method, url, token, acceptJSON, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("%s: decode response: %v", op, err)}
	}
	return nil
}

// GetFileTree fetches the full recursive tree for a ref (default HEAD).
// The boolean reports whether GitHub truncated the listing.
func (c *Client) GetFileTree(ctx context.Context, token, owner, repo, ref string) ([]TreeEntry, bool, error) {
	if strings.TrimSpace(ref) == "" {
		ref = "HEAD"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiBase, owner, repo, neturl.PathEscape(ref))
	var payload struct {
		Tree      []TreeEntry `json:"tree"`
		Truncated bool        `json:"truncated"`
	}
	if err := c.getJSON(ctx, "get tree", url, token, &payload); err != nil {
		return nil, false, err
	}
	return payload.Tree, payload.Truncated, nil
}

// GetFileContent fetches a file via the contents API and decodes the base64
// transport encoding.
func (c *Client) GetFileContent(ctx context.Context, token, owner, repo, path, ref string) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, owner, repo, escapePath(path))
	if ref != "" {
		url += "?ref=" + neturl.QueryEscape(ref)
	}
	var obj struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.getJSON(ctx, "get content", url, token, &obj); err != nil {
		return nil, err
	}
	if obj.Content == "" {
		return nil, &Error{Kind: KindUnknown, Message: "get content: empty content payload"}
	}
	// GitHub wraps base64 content with newlines.
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(obj.Content, "\n", ""))
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: fmt.Sprintf("get content: decode base64: %v", err)}
	}
	return data, nil
}

// GetContentSHA returns the blob SHA of an existing file on a branch. The
// caller distinguishes create-vs-update by checking IsKind(err, KindNotFound).
func (c *Client) GetContentSHA(ctx context.Context, token, owner, repo, path, branch string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, owner, repo, escapePath(path))
	if branch != "" {
		url += "?ref=" + neturl.QueryEscape(branch)
	}
	var obj struct {
		Sha string `json:"sha"`
	}
	if err := c.getJSON(ctx, "get content sha", url, token, &obj); err != nil {
		return "", err
	}
	return obj.Sha, nil
}

func (c *Client) ListCommits(ctx context.Context, token, owner, repo string, perPage int) ([]Commit, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits", c.apiBase, owner, repo)
	if perPage > 0 {
		url += fmt.Sprintf("?per_page=%d", perPage)
	}
	var items []struct {
		Sha    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		HTMLURL string `json:"html_url"`
	}
	if err := c.getJSON(ctx, "list commits", url, token, &items); err != nil {
		return nil, err
	}
	out := make([]Commit, 0, len(items))
	for _, v := range items {
		out = append(out, Commit{Sha: v.Sha, Message: v.Commit.Message, Author: v.Commit.Author.Name, Date: v.Commit.Author.Date, HTMLURL: v.HTMLURL})
	}
	return out, nil
}

// GetCommitDiff fetches a single commit as raw unified diff text via the
// github.diff media type.
func (c *Client) GetCommitDiff(ctx context.Context, token, owner, repo, sha string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.apiBase, owner, repo, neturl.PathEscape(sha))
	resp, err := c.do(ctx, "get commit diff", http.MethodGet, url, token, acceptDiff, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", netError("get commit diff", err)
	}
	return string(data), nil
}

// ListRepos lists the caller's repositories, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, token string, page, perPage int) ([]Repo, error) {
	q := neturl.Values{}
	q.Set("sort", "updated")
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if perPage > 0 {
		q.Set("per_page", fmt.Sprintf("%d", perPage))
	}
	url := c.apiBase + "/user/repos?" + q.Encode()
	var items []struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		FullName      string  `json:"full_name"`
		Description   *string `json:"description"`
		Language      *string `json:"language"`
		Stars         int     `json:"stargazers_count"`
		Private       bool    `json:"private"`
		DefaultBranch string  `json:"default_branch"`
		HTMLURL       string  `json:"html_url"`
	}
	if err := c.getJSON(ctx, "list repos", url, token, &items); err != nil {
		return nil, err
	}
	out := make([]Repo, 0, len(items))
	for _, v := range items {
		r := Repo{ID: v.ID, Name: v.Name, FullName: v.FullName, Stars: v.Stars, Private: v.Private, DefaultBranch: v.DefaultBranch, HTMLURL: v.HTMLURL}
		if v.Description != nil {
			r.Description = *v.Description
		}
		if v.Language != nil {
			r.Language = *v.Language
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) ListPullRequests(ctx context.Context, token, owner, repo, state string) ([]PullRequest, error) {
	q := neturl.Values{}
	if state != "" {
		q.Set("state", state)
	}
	url := fmt.Sprintf("%s/repos/%s/%s/pulls", c.apiBase, owner, repo)
	if enc := q.Encode(); enc != "" {
		url += "?" + enc
	}
	var items []prPayload
	if err := c.getJSON(ctx, "list pulls", url, token, &items); err != nil {
		return nil, err
	}
	out := make([]PullRequest, 0, len(items))
	for _, v := range items {
		out = append(out, v.toPullRequest())
	}
	return out, nil
}

func (c *Client) ListLanguages(ctx context.Context, token, owner, repo string) (map[string]int64, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/languages", c.apiBase, owner, repo)
	out := map[string]int64{}
	if err := c.getJSON(ctx, "list languages", url, token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListContributors(ctx context.Context, token, owner, repo string) ([]Contributor, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contributors", c.apiBase, owner, repo)
	var items []Contributor
	if err := c.getJSON(ctx, "list contributors", url, token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListIssuesByLabel(ctx context.Context, token, owner, repo, label string) ([]Issue, error) {
	q := neturl.Values{}
	q.Set("labels", label)
	q.Set("state", "open")
	url := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.apiBase, owner, repo, q.Encode())
	var items []struct {
		ID      int64  `json:"id"`
		Number  int    `json:"number"`
		Title   string `json:"title"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
		Labels  []struct {
			Name string `json:"name"`
		} `json:"labels"`
	}
	if err := c.getJSON(ctx, "list issues", url, token, &items); err != nil {
		return nil, err
	}
	out := make([]Issue, 0, len(items))
	for _, v := range items {
		issue := Issue{ID: v.ID, Number: v.Number, Title: v.Title, State: v.State, HTMLURL: v.HTMLURL}
		for _, l := range v.Labels {
			issue.Labels = append(issue.Labels, l.Name)
		}
		out = append(out, issue)
	}
	return out, nil
}

// GetDefaultBranch returns the repository's default branch name.
func (c *Client) GetDefaultBranch(ctx context.Context, token, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo)
	var payload struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.getJSON(ctx, "get repo", url, token, &payload); err != nil {
		return "", err
	}
	if payload.DefaultBranch == "" {
		return "", &Error{Kind: KindUnknown, Message: "get repo: default_branch not found"}
	}
	return payload.DefaultBranch, nil
}

// GetRefSHA resolves a branch head to its commit SHA.
func (c *Client) GetRefSHA(ctx context.Context, token, owner, repo, branch string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/git/ref/heads/%s", c.apiBase, owner, repo, neturl.PathEscape(branch))
	var payload struct {
		Object struct {
			Sha string `json:"sha"`
		} `json:"object"`
	}
	if err := c.getJSON(ctx, "get ref", url, token, &payload); err != nil {
		return "", err
	}
	return payload.Object.Sha, nil
}

// CreateBranch creates refs/heads/<branch> pointing at sha.
func (c *Client) CreateBranch(ctx context.Context, token, owner, repo, branch, sha string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/git/refs", c.apiBase, owner, repo)
	payload := map[string]string{"ref": "refs/heads/" + branch, "sha": sha}
	return c.sendJSON(ctx, "create branch", http.MethodPost, url, token, payload, nil)
}

// PutFile creates or updates a file on a branch via the contents API.
// sha identifies the blob being replaced; leave it empty to create.
func (c *Client) PutFile(ctx context.Context, token, owner, repo, path, branch, message string, content []byte, sha string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, owner, repo, escapePath(path))
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if branch != "" {
		payload["branch"] = branch
	}
	if sha != "" {
		payload["sha"] = sha
	}
	var out struct {
		Commit struct {
			Sha string `json:"sha"`
		} `json:"commit"`
	}
	if err := c.sendJSON(ctx, "put file", http.MethodPut, url, token, payload, &out); err != nil {
		return "", err
	}
	return out.Commit.Sha, nil
}

func (c *Client) CreatePullRequest(ctx context.Context, token, owner, repo, title, body, head, base string) (PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls", c.apiBase, owner, repo)
	payload := map[string]any{"title": title, "head": head, "base": base}
	if body != "" {
		payload["body"] = body
	}
	var out prPayload
	if err := c.sendJSON(ctx, "create pull request", http.MethodPost, url, token, payload, &out); err != nil {
		return PullRequest{}, err
	}
	return out.toPullRequest(), nil
}

// CreateReviewComment posts an inline review comment on a pull request at
// the given file line of the given commit.
func (c *Client) CreateReviewComment(ctx context.Context, token, owner, repo string, number int, body, commitSha, path string, line int) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/comments", c.apiBase, owner, repo, number)
	payload := map[string]any{
		"body":      body,
		"commit_id": commitSha,
		"path":      path,
		"line":      line,
		"side":      "RIGHT",
	}
	return c.sendJSON(ctx, "create review comment", http.MethodPost, url, token, payload, nil)
}

// ListDependencyAlerts fetches open Dependabot alerts. The open-state filter
// is applied server side and re-checked here.
func (c *Client) ListDependencyAlerts(ctx context.Context, token, owner, repo string) ([]DependencyAlert, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/dependabot/alerts?state=open", c.apiBase, owner, repo)
	var items []struct {
		State      string `json:"state"`
		Dependency struct {
			Package struct {
				Name string `json:"name"`
			} `json:"package"`
		} `json:"dependency"`
		SecurityAdvisory struct {
			Severity string `json:"severity"`
			Summary  string `json:"summary"`
		} `json:"security_advisory"`
		HTMLURL string `json:"html_url"`
	}
	if err := c.getJSON(ctx, "list dependency alerts", url, token, &items); err != nil {
		return nil, err
	}
	out := make([]DependencyAlert, 0, len(items))
	for _, v := range items {
		if v.State != "" && v.State != "open" {
			continue
		}
		out = append(out, DependencyAlert{
			Package:  v.Dependency.Package.Name,
			Severity: strings.ToLower(v.SecurityAdvisory.Severity),
			Summary:  v.SecurityAdvisory.Summary,
			URL:      v.HTMLURL,
		})
	}
	return out, nil
}

// ValidateToken verifies credentials with a lightweight /user call.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	var payload struct {
		Login string `json:"login"`
	}
	return c.getJSON(ctx, "validate token", c.apiBase+"/user", token, &payload)
}

// escapePath escapes each path segment while keeping separators.
func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, v := range parts {
		parts[i] = neturl.PathEscape(v)
	}
	return strings.Join(parts, "/")
}
