// Package githubapi is a small caller for the GitHub REST endpoints the
// participants run needs: users, user repositories, repository search,
// forks, single repositories and directory contents.
// Requests are authenticated with the configured token and throttled by a
// limiter. Nothing is retried.

package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/limiter"
	"github.com/devsidequests/participants/pkg/log"
	"golang.org/x/oauth2"
)

var (
	ErrNotFound    = errors.New("github: not found")
	ErrRateLimited = errors.New("github: rate limit exceeded")
)

// The search API never returns more than this many results for one query.
const maxSearchResults = 1000

// RateLimitError is returned when GitHub refuses a request until Reset.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%s, resets at %s", ErrRateLimited, e.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// StatusError carries an unexpected HTTP status.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s: unexpected response %s", e.URL, e.Status)
}

type Caller struct {
	Logger  log.Logger
	Config  *cfg.Config
	Client  *http.Client
	Limiter *limiter.RateLimiter
	BaseURL string
	PerPage int
}

// NewCaller builds a caller whose HTTP client sends the configured token.
func NewCaller(ctx context.Context, logger log.Logger, config *cfg.Config, rl *limiter.RateLimiter) *Caller {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: config.GithubApi.AccessToken,
	}))
	if config.GithubApi.TimeoutSec > 0 {
		client.Timeout = time.Duration(config.GithubApi.TimeoutSec) * time.Second
	}
	if rl == nil {
		rl = limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond)
	}

	perPage := config.GithubApi.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	baseURL := strings.TrimRight(config.GithubApi.ApiUrl, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	return &Caller{
		Logger:  logger,
		Config:  config,
		Client:  client,
		Limiter: rl,
		BaseURL: baseURL,
		PerPage: perPage,
	}
}

// HandleRateLimit turns an exhausted-quota response into a RateLimitError.
func (c *Caller) HandleRateLimit(ctx context.Context, resp *http.Response) error {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return nil
	}

	rlErr := &RateLimitError{}
	if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rlErr.Reset = time.Unix(resetUnix, 0)
		c.Logger.Warn(ctx, "Rate limit hit, resets in %v", time.Until(rlErr.Reset).Round(time.Second))
	} else {
		c.Logger.Warn(ctx, "Rate limit hit, reset time unknown")
	}
	return rlErr
}

func (c *Caller) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := c.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	c.Logger.Debug(ctx, "Calling GitHub API: %s", fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("building request %s: %w", fullURL, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.Logger.Debug(ctx, "Rate limit remaining: %s", remaining)
	}

	if err := c.HandleRateLimit(ctx, resp); err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: fullURL, Status: resp.Status, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", fullURL, err)
	}
	return nil
}

// listAll walks page=1.. until a short page comes back.
func (c *Caller) listAll(ctx context.Context, path string, query url.Values) ([]RepoResponse, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(c.PerPage))

	var all []RepoResponse
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		var items []RepoResponse
		if err := c.get(ctx, path, query, &items); err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < c.PerPage {
			return all, nil
		}
	}
}

func (c *Caller) GetUser(ctx context.Context, login string) (*UserResponse, error) {
	user := &UserResponse{}
	if err := c.get(ctx, "/users/"+url.PathEscape(login), nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUserRepos returns every public repository owned by login.
func (c *Caller) ListUserRepos(ctx context.Context, login string) ([]RepoResponse, error) {
	return c.listAll(ctx, "/users/"+url.PathEscape(login)+"/repos", url.Values{"type": {"owner"}})
}

// ListForks returns every fork of owner/repo, newest first.
func (c *Caller) ListForks(ctx context.Context, owner, repo string) ([]RepoResponse, error) {
	forks, err := c.listAll(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo)+"/forks", url.Values{"sort": {"newest"}})
	if err != nil {
		return nil, err
	}
	c.Logger.Info(ctx, "Found %d forks of %s/%s", len(forks), owner, repo)
	return forks, nil
}

func (c *Caller) GetRepo(ctx context.Context, owner, repo string) (*RepoResponse, error) {
	out := &RepoResponse{}
	if err := c.get(ctx, "/repos/"+url.PathEscape(owner)+"/"+url.PathEscape(repo), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchRepos runs a repository search such as "user:alice topic:devsidequests".
func (c *Caller) SearchRepos(ctx context.Context, q string) ([]RepoResponse, error) {
	query := url.Values{
		"q":        {q},
		"per_page": {strconv.Itoa(c.PerPage)},
	}

	var all []RepoResponse
	for page := 1; len(all) < maxSearchResults; page++ {
		query.Set("page", strconv.Itoa(page))
		raw := &SearchResponse{}
		if err := c.get(ctx, "/search/repositories", query, raw); err != nil {
			return nil, err
		}
		all = append(all, raw.Items...)
		if len(raw.Items) < c.PerPage || len(all) >= raw.TotalCount {
			break
		}
	}
	if len(all) > maxSearchResults {
		all = all[:maxSearchResults]
	}
	return all, nil
}

// ListDirectory lists the entries of a directory in owner/repo.
func (c *Caller) ListDirectory(ctx context.Context, owner, repo, dir string) ([]ContentResponse, error) {
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/contents/" + strings.Trim(dir, "/")
	var entries []ContentResponse
	if err := c.get(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
