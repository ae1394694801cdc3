package gitutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// tokenUser is the username GitHub expects alongside an access token.
const tokenUser = "x-access-token"

var prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)

// ParsePullRequestURL parses a GitHub Pull Request URL and extracts the owner, repo, and PR number.
// Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(rawURL string) (owner, repo string, prNumber int, err error) {
	rawURL = strings.TrimSuffix(rawURL, "/")

	matches := prURLRegex.FindStringSubmatch(rawURL)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", rawURL)
	}

	prNumber, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", matches[3], err)
	}
	return matches[1], matches[2], prNumber, nil
}

// authenticatedURL embeds token into an HTTPS github.com remote URL. Any
// other remote is left alone and reported as not rewritten.
func authenticatedURL(remote, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	u, err := url.Parse(remote)
	if err != nil || u.Scheme != "https" || !strings.EqualFold(u.Hostname(), "github.com") {
		return "", false
	}
	u.User = url.UserPassword(tokenUser, token)
	return u.String(), true
}

// parseRemoteURL extracts "owner/repo" from an HTTPS or SSH remote URL.
func parseRemoteURL(raw string) (string, bool) {
	// https://github.com/owner/repo.git
	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		name := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")
		return name, strings.Count(name, "/") == 1
	}
	// git@github.com:owner/repo.git
	if strings.Contains(raw, "@") && strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		name := strings.TrimSuffix(parts[1], ".git")
		return name, strings.Count(name, "/") == 1
	}
	return "", false
}
