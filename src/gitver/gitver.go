// Package gitver resolves the source branch and app version metadata that
// feed artifact naming.
package gitver

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("gitver: HEAD is detached")

// BranchSource names where a resolved branch came from.
type BranchSource string

const (
	SourceEnv      BranchSource = "env"
	SourceCI       BranchSource = "ci"
	SourceRepo     BranchSource = "repo"
	SourceFallback BranchSource = "fallback"
)

// ciBranchVars are consulted after GIT_BRANCH, in order.
var ciBranchVars = []string{
	"CI_COMMIT_BRANCH", // GitLab CI
	"GITHUB_REF_NAME",  // GitHub Actions
	"BITBUCKET_BRANCH", // Bitbucket
	"BRANCH_NAME",      // Jenkins multibranch
}

// Branch is a resolved branch name and its origin.
type Branch struct {
	Name   string
	Source BranchSource
	SHA    string // short HEAD hash, empty outside a repository
}

// ResolveBranch picks the branch for naming. Precedence: the explicit value
// (GIT_BRANCH or --branch), CI provider variables, the repository's HEAD,
// then fallback. The returned name is not sanitized.
func ResolveBranch(explicit, rootDir, fallback string) Branch {
	sha, _ := HeadSHA(rootDir)

	if explicit != "" {
		return Branch{Name: explicit, Source: SourceEnv, SHA: sha}
	}
	for _, v := range ciBranchVars {
		if name := os.Getenv(v); name != "" {
			return Branch{Name: name, Source: SourceCI, SHA: sha}
		}
	}
	if name, err := DetectBranch(rootDir); err == nil {
		return Branch{Name: name, Source: SourceRepo, SHA: sha}
	}
	return Branch{Name: fallback, Source: SourceFallback, SHA: sha}
}

// DetectBranch returns the short name of the branch HEAD points at.
// Parent directories are searched for the repository root.
func DetectBranch(rootDir string) (string, error) {
	repo, err := openRepo(rootDir)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return ref.Name().Short(), nil
}

// HeadSHA returns the 7-character abbreviated HEAD commit hash.
func HeadSHA(rootDir string) (string, error) {
	repo, err := openRepo(rootDir)
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return shortHash(ref.Hash()), nil
}

func openRepo(rootDir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", rootDir, err)
	}
	return repo, nil
}

func shortHash(h plumbing.Hash) string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

// VersionInfo is the parsed application version.
type VersionInfo struct {
	Raw        string
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease string
}

// ParseAppVersion parses an application version leniently ("1.2" and
// "v1.2.3" are accepted). The raw string is what goes into artifact names;
// the parse only serves diagnostics.
func ParseAppVersion(raw string) (*VersionInfo, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("app version %q is not semver: %w", raw, err)
	}
	return &VersionInfo{
		Raw:        raw,
		Major:      v.Major(),
		Minor:      v.Minor(),
		Patch:      v.Patch(),
		Prerelease: v.Prerelease(),
	}, nil
}
