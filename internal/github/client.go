// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// Client defines the pull request operations the reviewer needs from the
// GitHub API.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	ListCommits(ctx context.Context, owner, repo string, number int) ([]*github.RepositoryCommit, error)
	CreateReview(ctx context.Context, owner, repo string, number int, event, body string) (*github.PullRequestReview, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a new GitHub client authenticated with a Personal Access Token (PAT).
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubClient(github.NewClient(tc), logger)
}

// CreateReview submits a pull request review with the given event
// (APPROVE, REQUEST_CHANGES or COMMENT) and summary body.
func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, event, body string) (*github.PullRequestReview, error) {
	reviewRequest := &github.PullRequestReviewRequest{
		Body:  github.Ptr(body),
		Event: github.Ptr(event),
	}

	review, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "event", event, "error", err)
		return nil, err
	}
	return review, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return pr, nil
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}

// ListCommits retrieves every commit of a pull request, following pagination.
func (g *gitHubClient) ListCommits(ctx context.Context, owner, repo string, number int) ([]*github.RepositoryCommit, error) {
	var all []*github.RepositoryCommit
	opts := &github.ListOptions{PerPage: 100}

	for {
		commits, resp, err := g.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list commits for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}
		all = append(all, commits...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}
