// Package gitutil wraps a local working tree: staged diffs, commit ranges,
// dirty state and authenticated pushes.
package gitutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/sevigo/code-inspector/internal/core"
)

// ErrRepositoryUnavailable is returned by Open when neither the path nor any
// of its parents is a git working tree.
var ErrRepositoryUnavailable = errors.New("repository unavailable")

const defaultRemote = "origin"

// Repository is a request-scoped handle on a working tree. Every method
// degrades instead of failing: reads return empty values and Push reports
// false.
type Repository struct {
	repo   *git.Repository
	root   string
	token  string
	logger *slog.Logger

	pushFn func(ctx context.Context, opts *git.PushOptions) error
}

// Option configures a Repository.
type Option func(*Repository)

// WithToken sets the hosting token used to authenticate pushes.
func WithToken(token string) Option {
	return func(r *Repository) { r.token = token }
}

// WithLogger sets the logger used for degraded operations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// Open finds the working tree containing path, walking up through parent
// directories the way git does.
func Open(path string, opts ...Option) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRepositoryUnavailable, path, err)
	}

	r := &Repository{repo: repo, root: path, logger: slog.Default()}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pushFn = repo.PushContext
	return r, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root() string {
	if r == nil {
		return ""
	}
	return r.root
}

// StagedDiff returns the unified diff of the index against HEAD, or an empty
// string when it cannot be produced.
func (r *Repository) StagedDiff(ctx context.Context) string {
	if r == nil {
		return ""
	}
	out, err := r.gitOutput(ctx, "diff", "--cached")
	if err != nil {
		r.logger.Debug("staged diff unavailable", "root", r.root, "error", err)
		return ""
	}
	return out
}

// BranchDiff returns the diff of HEAD against its merge base with base.
func (r *Repository) BranchDiff(ctx context.Context, base string) string {
	if r == nil {
		return ""
	}
	out, err := r.gitOutput(ctx, "diff", base+"...HEAD")
	if err != nil {
		r.logger.Debug("branch diff unavailable", "root", r.root, "base", base, "error", err)
		return ""
	}
	return out
}

func (r *Repository) gitOutput(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// HasUnstagedChanges reports whether the working tree, untracked files
// included, differs from the index or HEAD.
func (r *Repository) HasUnstagedChanges() bool {
	if r == nil {
		return false
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return false
	}
	status, err := wt.Status()
	if err != nil {
		r.logger.Debug("worktree status unavailable", "root", r.root, "error", err)
		return false
	}
	return !status.IsClean()
}

// CurrentBranch returns the short name of the checked out branch.
func (r *Repository) CurrentBranch() (string, error) {
	if r == nil {
		return "", ErrRepositoryUnavailable
	}
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return head.Name().Short(), nil
}

// CommitHistory returns the commits reachable from HEAD but not from base,
// most recent first. The sequence reads the repository each time it is
// ranged over and is empty when either revision cannot be resolved.
func (r *Repository) CommitHistory(base string) iter.Seq[core.CommitSummary] {
	return func(yield func(core.CommitSummary) bool) {
		if r == nil {
			return
		}
		walker, err := r.commitsSince(base)
		if err != nil {
			r.logger.Debug("commit history unavailable", "root", r.root, "base", base, "error", err)
			return
		}
		defer walker.Close()

		for {
			c, err := walker.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				r.logger.Debug("commit walk stopped", "root", r.root, "error", err)
				return
			}
			if !yield(summarize(c)) {
				return
			}
		}
	}
}

func (r *Repository) commitsSince(base string) (object.CommitIter, error) {
	headRef, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	head, err := r.repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to load HEAD commit: %w", err)
	}
	baseHash, err := r.repo.ResolveRevision(plumbing.Revision(base))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", base, err)
	}

	excluded := make(map[plumbing.Hash]bool)
	baseLog, err := r.repo.Log(&git.LogOptions{From: *baseHash})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", base, err)
	}
	defer baseLog.Close()
	if err := baseLog.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", base, err)
	}

	return object.NewCommitIterCTime(head, excluded, nil), nil
}

func summarize(c *object.Commit) core.CommitSummary {
	return core.CommitSummary{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Message: strings.TrimSpace(c.Message),
		When:    c.Author.When,
	}
}

// DiffContext gathers the staged diff, the commits ahead of base and the
// dirty flag. It is computed fresh on every call.
func (r *Repository) DiffContext(ctx context.Context, base string) core.DiffContext {
	dc := core.DiffContext{
		StagedDiff: r.StagedDiff(ctx),
		Dirty:      r.HasUnstagedChanges(),
	}
	for c := range r.CommitHistory(base) {
		dc.Commits = append(dc.Commits, c)
	}
	return dc
}

// Push pushes branch to origin. With a token and an HTTPS GitHub remote the
// token is embedded in the push URL; otherwise the push is unauthenticated.
// Failures are logged and reported as false.
func (r *Repository) Push(ctx context.Context, branch string) bool {
	if r == nil {
		return false
	}
	ref := plumbing.NewBranchReferenceName(branch)
	opts := &git.PushOptions{
		RemoteName: defaultRemote,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("%s:%s", ref, ref))},
	}

	if r.token != "" {
		remote, err := r.repo.Remote(defaultRemote)
		if err == nil && len(remote.Config().URLs) > 0 {
			if authURL, ok := authenticatedURL(remote.Config().URLs[0], r.token); ok {
				opts.RemoteURL = authURL
				opts.Auth = &githttp.BasicAuth{Username: tokenUser, Password: r.token}
			}
		}
	}

	err := r.pushFn(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		r.logger.Error("push failed", "root", r.root, "branch", branch, "authenticated", opts.RemoteURL != "", "error", err)
		return false
	}
	r.logger.Info("pushed branch", "branch", branch, "authenticated", opts.RemoteURL != "")
	return true
}

// RepoFullName returns "owner/name" from the first remote whose URL can be parsed.
func (r *Repository) RepoFullName() (string, error) {
	if r == nil {
		return "", ErrRepositoryUnavailable
	}
	remotes, err := r.repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("remotes: %w", err)
	}
	for _, rm := range remotes {
		if len(rm.Config().URLs) == 0 {
			continue
		}
		if name, ok := parseRemoteURL(rm.Config().URLs[0]); ok {
			return name, nil
		}
	}
	return "", errors.New("no remote with a recognizable repository name")
}
