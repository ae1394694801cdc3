package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/mocks"
)

func TestPullRequestService_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	when := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	client.EXPECT().GetPullRequest(gomock.Any(), "acme", "widgets", 42).Return(&github.PullRequest{
		Title:   github.Ptr("Resize widgets"),
		Body:    github.Ptr("Makes widgets bigger."),
		HTMLURL: github.Ptr("https://github.com/acme/widgets/pull/42"),
		Head:    &github.PullRequestBranch{SHA: github.Ptr("abc123")},
	}, nil)
	client.EXPECT().ListCommits(gomock.Any(), "acme", "widgets", 42).Return([]*github.RepositoryCommit{
		{
			SHA: github.Ptr("c1"),
			Commit: &github.Commit{
				Message: github.Ptr("feat: resize"),
				Author:  &github.CommitAuthor{Name: github.Ptr("Ada"), Date: &github.Timestamp{Time: when}},
			},
		},
	}, nil)
	client.EXPECT().GetPullRequestDiff(gomock.Any(), "acme", "widgets", 42).Return("diff --git a/w.go b/w.go\n", nil)

	svc := NewPullRequestService(client, discardLogger())
	pr, err := svc.Fetch(context.Background(), "acme/widgets", 42)
	require.NoError(t, err)

	assert.Equal(t, &core.PullRequest{
		RepoFullName: "acme/widgets",
		Number:       42,
		Title:        "Resize widgets",
		Body:         "Makes widgets bigger.",
		HeadSHA:      "abc123",
		HTMLURL:      "https://github.com/acme/widgets/pull/42",
		Commits:      []core.CommitSummary{{Hash: "c1", Author: "Ada", Message: "feat: resize", When: when}},
		Diff:         "diff --git a/w.go b/w.go\n",
	}, pr)
}

func TestPullRequestService_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().GetPullRequest(gomock.Any(), "acme", "widgets", 42).Return(nil, errors.New("502 bad gateway"))
	client.EXPECT().ListCommits(gomock.Any(), "acme", "widgets", 42).Return(nil, nil).AnyTimes()
	client.EXPECT().GetPullRequestDiff(gomock.Any(), "acme", "widgets", 42).Return("", nil).AnyTimes()

	svc := NewPullRequestService(client, discardLogger())
	pr, err := svc.Fetch(context.Background(), "acme/widgets", 42)
	assert.Nil(t, pr)
	assert.ErrorContains(t, err, "502 bad gateway")
}

func TestPullRequestService_InvalidRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewPullRequestService(mocks.NewMockClient(ctrl), discardLogger())

	_, err := svc.Fetch(context.Background(), "not-a-repo", 1)
	assert.Error(t, err)

	_, err = svc.PostReview(context.Background(), "a/b/c", 1, core.ReviewSubmission{})
	assert.Error(t, err)
}

func TestPullRequestService_PostReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().CreateReview(gomock.Any(), "acme", "widgets", 42, "APPROVE", "LGTM").
		Return(&github.PullRequestReview{HTMLURL: github.Ptr("https://github.com/acme/widgets/pull/42#pullrequestreview-1")}, nil)
	client.EXPECT().CreateReview(gomock.Any(), "acme", "widgets", 43, "COMMENT", "hm").
		Return(nil, errors.New("forbidden"))

	svc := NewPullRequestService(client, discardLogger())

	url, err := svc.PostReview(context.Background(), "acme/widgets", 42, core.ReviewSubmission{Event: core.ReviewEventApprove, Body: "LGTM"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42#pullrequestreview-1", url)

	url, err = svc.PostReview(context.Background(), "acme/widgets", 43, core.ReviewSubmission{Event: core.ReviewEventComment, Body: "hm"})
	assert.Error(t, err)
	assert.Empty(t, url)
}
