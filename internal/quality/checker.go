// Package quality builds the report handed to the quality-verdict prompt. It
// only looks at diff statistics and commit metadata; it never runs linters or
// tests.
package quality

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/waigani/diffparser"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
)

// Status is the result of a single check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Check names.
const (
	CheckDiffPresent        = "diff_present"
	CheckPRSize             = "pr_size"
	CheckTestsTouched       = "tests_touched"
	CheckConventionalCommit = "conventional_commits"
)

var conventionalSubject = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert)(\([^)]+\))?!?: \S`)

type Check struct {
	Name   string `yaml:"name"`
	Status Status `yaml:"status"`
	Detail string `yaml:"detail"`
}

type Stats struct {
	FilesChanged int      `yaml:"files_changed"`
	Additions    int      `yaml:"additions"`
	Deletions    int      `yaml:"deletions"`
	SourceFiles  []string `yaml:"source_files,omitempty"`
	TestFiles    []string `yaml:"test_files,omitempty"`
}

type Thresholds struct {
	MaxPRLines        int  `yaml:"max_pr_lines"`
	CoverageThreshold int  `yaml:"coverage_threshold"`
	LintStrict        bool `yaml:"lint_strict"`
}

// Report is the quality report for one pull request.
type Report struct {
	Repository  string     `yaml:"repository"`
	PullRequest int        `yaml:"pull_request"`
	Title       string     `yaml:"title,omitempty"`
	Commits     int        `yaml:"commits"`
	Stats       Stats      `yaml:"stats"`
	Checks      []Check    `yaml:"checks"`
	Thresholds  Thresholds `yaml:"thresholds"`
}

// Issues counts failed checks, and warnings too when lint is strict.
func (r *Report) Issues() int {
	n := 0
	for _, c := range r.Checks {
		switch c.Status {
		case StatusFailed:
			n++
		case StatusWarning:
			if r.Thresholds.LintStrict {
				n++
			}
		}
	}
	return n
}

// Comments lists one line per check that did not pass, in check order.
func (r *Report) Comments() []string {
	comments := []string{}
	for _, c := range r.Checks {
		if c.Status != StatusPassed {
			comments = append(comments, fmt.Sprintf("%s (%s): %s", c.Name, c.Status, c.Detail))
		}
	}
	return comments
}

// YAML renders the report the way it is shown to the model.
func (r *Report) YAML() (string, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quality report: %w", err)
	}
	return string(out), nil
}

type Checker struct {
	cfg    config.QualityConfig
	logger *slog.Logger
}

func NewChecker(cfg *config.Config, logger *slog.Logger) *Checker {
	return &Checker{cfg: cfg.Quality, logger: logger}
}

// Check builds the report for pr.
func (c *Checker) Check(pr *core.PullRequest) *Report {
	report := &Report{
		Repository:  pr.RepoFullName,
		PullRequest: pr.Number,
		Title:       pr.Title,
		Commits:     len(pr.Commits),
		Thresholds: Thresholds{
			MaxPRLines:        c.cfg.MaxPRLines,
			CoverageThreshold: c.cfg.CoverageThreshold,
			LintStrict:        c.cfg.LintStrict,
		},
	}

	if strings.TrimSpace(pr.Diff) == "" {
		report.Checks = append(report.Checks, Check{Name: CheckDiffPresent, Status: StatusFailed, Detail: "pull request has no diff"})
		report.Checks = append(report.Checks, c.commitCheck(pr.Commits))
		return report
	}

	diff, err := diffparser.Parse(pr.Diff)
	if err != nil {
		c.logger.Warn("failed to parse pull request diff", "repo", pr.RepoFullName, "pr", pr.Number, "error", err)
		report.Checks = append(report.Checks, Check{Name: CheckDiffPresent, Status: StatusFailed, Detail: "diff could not be parsed"})
		report.Checks = append(report.Checks, c.commitCheck(pr.Commits))
		return report
	}

	report.Stats = collectStats(diff)
	if report.Stats.FilesChanged == 0 {
		report.Checks = append(report.Checks, Check{Name: CheckDiffPresent, Status: StatusFailed, Detail: "diff touches no files"})
	} else {
		report.Checks = append(report.Checks, Check{
			Name:   CheckDiffPresent,
			Status: StatusPassed,
			Detail: fmt.Sprintf("%d files changed", report.Stats.FilesChanged),
		})
	}

	report.Checks = append(report.Checks, c.sizeCheck(report.Stats), testsCheck(report.Stats), c.commitCheck(pr.Commits))
	return report
}

func (c *Checker) sizeCheck(s Stats) Check {
	changed := s.Additions + s.Deletions
	if changed > c.cfg.MaxPRLines {
		return Check{
			Name:   CheckPRSize,
			Status: StatusFailed,
			Detail: fmt.Sprintf("%d changed lines exceed the limit of %d", changed, c.cfg.MaxPRLines),
		}
	}
	return Check{
		Name:   CheckPRSize,
		Status: StatusPassed,
		Detail: fmt.Sprintf("%d changed lines within the limit of %d", changed, c.cfg.MaxPRLines),
	}
}

func testsCheck(s Stats) Check {
	switch {
	case len(s.SourceFiles) == 0:
		return Check{Name: CheckTestsTouched, Status: StatusPassed, Detail: "no source files changed"}
	case len(s.TestFiles) == 0:
		return Check{
			Name:   CheckTestsTouched,
			Status: StatusWarning,
			Detail: fmt.Sprintf("%d source files changed without test changes", len(s.SourceFiles)),
		}
	default:
		return Check{
			Name:   CheckTestsTouched,
			Status: StatusPassed,
			Detail: fmt.Sprintf("%d test files changed", len(s.TestFiles)),
		}
	}
}

func (c *Checker) commitCheck(commits []core.CommitSummary) Check {
	var bad []string
	for _, commit := range commits {
		subject, _, _ := strings.Cut(commit.Message, "\n")
		if !conventionalSubject.MatchString(subject) && !strings.HasPrefix(subject, "Merge ") {
			bad = append(bad, shortHash(commit.Hash))
		}
	}
	if len(bad) > 0 {
		return Check{
			Name:   CheckConventionalCommit,
			Status: StatusWarning,
			Detail: fmt.Sprintf("commits without a conventional subject: %s", strings.Join(bad, ", ")),
		}
	}
	return Check{Name: CheckConventionalCommit, Status: StatusPassed, Detail: fmt.Sprintf("%d commits follow the convention", len(commits))}
}

func collectStats(diff *diffparser.Diff) Stats {
	var s Stats
	for _, f := range diff.Files {
		name := f.NewName
		if f.Mode == diffparser.DELETED || name == "" {
			name = f.OrigName
		}
		s.FilesChanged++

		for _, h := range f.Hunks {
			for _, l := range h.WholeRange.Lines {
				switch l.Mode {
				case diffparser.ADDED:
					s.Additions++
				case diffparser.REMOVED:
					s.Deletions++
				}
			}
		}

		switch {
		case isTestFile(name):
			s.TestFiles = append(s.TestFiles, name)
		case isSourceFile(name):
			s.SourceFiles = append(s.SourceFiles, name)
		}
	}
	return s
}

var sourceExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".kt": true, ".rb": true, ".rs": true, ".c": true, ".cc": true,
	".cpp": true, ".h": true, ".cs": true, ".php": true, ".swift": true, ".scala": true,
}

func isSourceFile(name string) bool {
	return sourceExts[strings.ToLower(path.Ext(name))]
}

func isTestFile(name string) bool {
	lower := strings.ToLower(name)
	base := path.Base(lower)
	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.HasSuffix(base, "_test.py"),
		strings.Contains(base, ".test."),
		strings.Contains(base, ".spec."),
		strings.HasPrefix(lower, "test/"), strings.HasPrefix(lower, "tests/"),
		strings.Contains(lower, "/test/"), strings.Contains(lower, "/tests/"),
		strings.Contains(lower, "__tests__/"):
		return true
	}
	return false
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
