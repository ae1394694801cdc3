package core

import "time"

// CommitSummary is the part of a commit the generation prompts care about.
type CommitSummary struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// DiffContext is derived on demand from a repository handle and never cached;
// the working tree may change between calls.
type DiffContext struct {
	StagedDiff string
	Commits    []CommitSummary
	Dirty      bool
}

// PullRequest is the metadata the review pipeline fetches for one pull request.
type PullRequest struct {
	RepoFullName string
	Number       int
	Title        string
	Body         string
	HeadSHA      string
	HTMLURL      string
	Commits      []CommitSummary
	Diff         string
}
