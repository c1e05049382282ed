// Package github wraps the GitHub API calls the automation depends on:
// PR listing, branch-scoped file reads, and branch creation.
// Authentication is either a plain token (the Actions GITHUB_TOKEN) or
// a GitHub App installation.
package github

import (
	"context"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
	"github.com/p-blackswan/claudechain/internal/retry"
)

// Client wraps the GitHub API for one repository.
type Client struct {
	api    *gh.Client
	owner  string
	repo   string
	logger zerolog.Logger
}

// NewClient creates a client from a plain token for "owner/repo".
func NewClient(token, repository string, logger zerolog.Logger) (*Client, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token, base: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}
	return &Client{
		api:    gh.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		logger: logger.With().Str("component", "github").Logger(),
	}, nil
}

// NewAppClient creates a client authenticated as a GitHub App
// installation for "owner/repo".
func NewAppClient(app *App, repository string, logger zerolog.Logger) (*Client, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return nil, err
	}
	return &Client{
		api:    gh.NewClient(&http.Client{Transport: app.Transport(), Timeout: 30 * time.Second}),
		owner:  owner,
		repo:   repo,
		logger: logger.With().Str("component", "github").Logger(),
	}, nil
}

func splitRepository(repository string) (owner, repo string, err error) {
	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", perrors.NewAPIError("client", 0, &repositoryFormatError{repository})
	}
	return parts[0], parts[1], nil
}

type repositoryFormatError struct{ repository string }

func (e *repositoryFormatError) Error() string {
	return "invalid repository " + e.repository + ", expected owner/name"
}

type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("Authorization", "token "+t.token)
	return t.base.RoundTrip(req2)
}

// ListPullRequests lists PRs in the given state (open, closed, merged,
// all), optionally filtered to a label, up to limit. "merged" lists
// closed PRs and keeps only those that were merged.
func (c *Client) ListPullRequests(ctx context.Context, state, label string, limit int) ([]PullRequestRef, error) {
	if limit <= 0 {
		limit = 100
	}
	apiState := state
	if state == "merged" {
		apiState = "closed"
	}
	var prs []*gh.PullRequest
	err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) error {
		var resp *gh.Response
		var listErr error
		prs, resp, listErr = c.api.PullRequests.List(ctx, c.owner, c.repo, &gh.PullRequestListOptions{
			State:       apiState,
			Sort:        "created",
			Direction:   "desc",
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		if listErr != nil {
			return perrors.NewAPIError("pr.list", statusCode(resp), listErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refs := make([]PullRequestRef, 0, len(prs))
	for _, pr := range prs {
		ref := convertPR(pr)
		if state == "merged" && ref.State != "merged" {
			continue
		}
		if label != "" && !ref.HasLabel(label) {
			continue
		}
		refs = append(refs, ref)
		if len(refs) == limit {
			break
		}
	}
	return refs, nil
}

// GetFileFromBranch reads a file's content from a branch. Returns
// ErrNotFound when the file or branch does not exist.
func (c *Client) GetFileFromBranch(ctx context.Context, branch, path string) (string, error) {
	content, _, resp, err := c.api.Repositories.GetContents(ctx, c.owner, c.repo, path, &gh.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		if statusCode(resp) == http.StatusNotFound {
			return "", perrors.ErrNotFound
		}
		return "", perrors.NewAPIError("contents.get", statusCode(resp), err)
	}
	decoded, err := content.GetContent()
	if err != nil {
		return "", perrors.NewAPIError("contents.decode", 0, err)
	}
	return decoded, nil
}

// CreateBranch creates a new branch pointing at the head of base.
func (c *Client) CreateBranch(ctx context.Context, name, base string) error {
	baseRef, resp, err := c.api.Git.GetRef(ctx, c.owner, c.repo, "refs/heads/"+base)
	if err != nil {
		return perrors.NewAPIError("ref.get", statusCode(resp), err)
	}
	_, resp, err = c.api.Git.CreateRef(ctx, c.owner, c.repo, &gh.Reference{
		Ref:    gh.String("refs/heads/" + name),
		Object: &gh.GitObject{SHA: baseRef.Object.SHA},
	})
	if err != nil {
		return perrors.NewAPIError("ref.create", statusCode(resp), err)
	}
	c.logger.Info().Str("branch", name).Str("base", base).Msg("branch created")
	return nil
}

func statusCode(resp *gh.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func convertPR(pr *gh.PullRequest) PullRequestRef {
	ref := PullRequestRef{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Branch:    pr.GetHead().GetRef(),
		State:     pr.GetState(),
		Author:    pr.GetUser().GetLogin(),
		CreatedAt: pr.GetCreatedAt().Time,
		URL:       pr.GetHTMLURL(),
	}
	if pr.MergedAt != nil {
		ref.State = "merged"
		ref.MergedAt = pr.GetMergedAt().Time
	}
	if len(pr.Assignees) > 0 {
		ref.Reviewer = pr.Assignees[0].GetLogin()
	}
	for _, l := range pr.Labels {
		ref.Labels = append(ref.Labels, l.GetName())
	}
	return ref
}
