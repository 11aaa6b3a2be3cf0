// Package hubclient provides a client for a forge's repository HTTP API.
// It covers exactly the endpoints the backup strategies need; pagination
// and wire details live here and nowhere else.
//
// Example usage:
//
//	client, err := hubclient.New("https://forge.example.com/api/v1", "acme", "widgets",
//		hubclient.WithToken(token))
//	labels, err := client.ListLabels(ctx)
package hubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 100
)

// Client talks to one repository on a forge.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	token      string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token used for authentication.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the per-page item count for list calls.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// New creates a Client for the repository owner/repo on the given API base
// URL (scheme included, no trailing slash required).
func New(baseURL, owner, repo string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	c := &Client{
		baseURL:    baseURL,
		owner:      owner,
		repo:       repo,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListLabels returns all labels.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	return listAll[Label](ctx, c, "labels", nil)
}

// CreateLabel creates a label.
func (c *Client) CreateLabel(ctx context.Context, label Label) error {
	return c.post(ctx, "labels", label, nil)
}

// ListMilestones returns all milestones in any state.
func (c *Client) ListMilestones(ctx context.Context) ([]Milestone, error) {
	return listAll[Milestone](ctx, c, "milestones", url.Values{"state": {"all"}})
}

// CreateMilestone creates a milestone and returns it with its assigned number.
func (c *Client) CreateMilestone(ctx context.Context, m NewMilestone) (Milestone, error) {
	var created Milestone
	err := c.post(ctx, "milestones", m, &created)
	return created, err
}

// ListIssues returns all issues in any state.
func (c *Client) ListIssues(ctx context.Context) ([]Issue, error) {
	return listAll[Issue](ctx, c, "issues", url.Values{"state": {"all"}})
}

// CreateIssue creates an issue and returns it with its assigned number.
func (c *Client) CreateIssue(ctx context.Context, issue NewIssue) (Issue, error) {
	var created Issue
	err := c.post(ctx, "issues", issue, &created)
	return created, err
}

// ListComments returns all issue comments in the repository.
func (c *Client) ListComments(ctx context.Context) ([]Comment, error) {
	return listAll[Comment](ctx, c, "issues/comments", nil)
}

// CreateComment adds a comment to the given issue.
func (c *Client) CreateComment(ctx context.Context, issueNumber int, comment Comment) error {
	path := fmt.Sprintf("issues/%d/comments", issueNumber)
	return c.post(ctx, path, comment, nil)
}

// ListSubIssues returns the child issues of the given parent issue.
func (c *Client) ListSubIssues(ctx context.Context, parentNumber int) ([]SubIssue, error) {
	path := fmt.Sprintf("issues/%d/sub_issues", parentNumber)
	return listAll[SubIssue](ctx, c, path, nil)
}

// AddSubIssue records child as a sub-issue of parent.
func (c *Client) AddSubIssue(ctx context.Context, parentNumber, childNumber int) error {
	path := fmt.Sprintf("issues/%d/sub_issues", parentNumber)
	return c.post(ctx, path, map[string]int{"child_number": childNumber}, nil)
}

// ListPulls returns all pull requests in any state.
func (c *Client) ListPulls(ctx context.Context) ([]Pull, error) {
	return listAll[Pull](ctx, c, "pulls", url.Values{"state": {"all"}})
}

// CreatePull creates a pull request and returns it with its assigned number.
func (c *Client) CreatePull(ctx context.Context, pull NewPull) (Pull, error) {
	var created Pull
	err := c.post(ctx, "pulls", pull, &created)
	return created, err
}

// ListReviews returns the reviews of the given pull request.
func (c *Client) ListReviews(ctx context.Context, pullNumber int) ([]Review, error) {
	path := fmt.Sprintf("pulls/%d/reviews", pullNumber)
	return listAll[Review](ctx, c, path, nil)
}

// CreateReview adds a review to the given pull request.
func (c *Client) CreateReview(ctx context.Context, pullNumber int, review Review) error {
	path := fmt.Sprintf("pulls/%d/reviews", pullNumber)
	return c.post(ctx, path, review, nil)
}

// ListReleases returns all releases.
func (c *Client) ListReleases(ctx context.Context) ([]Release, error) {
	return listAll[Release](ctx, c, "releases", nil)
}

// CreateRelease creates a release.
func (c *Client) CreateRelease(ctx context.Context, release Release) error {
	return c.post(ctx, "releases", release, nil)
}

// listAll fetches every page of a list endpoint. Paging stops when a page
// comes back shorter than the requested page size.
func listAll[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		query := url.Values{}
		for k, vs := range params {
			query[k] = vs
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(c.pageSize))

		var items []T
		if err := c.get(ctx, path, query, &items); err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) < c.pageSize {
			return out, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/%s", c.baseURL, c.owner, c.repo, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return nil
}
