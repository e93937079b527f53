package git

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/models"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

type GitService struct {
	dir string
}

// NewGitService runs git in the working directory.
func NewGitService() *GitService {
	return &GitService{}
}

// NewGitServiceAt runs git in dir.
func NewGitServiceAt(dir string) *GitService {
	return &GitService{dir: dir}
}

// IsInRepo reports whether the working directory is inside a work tree.
func (s *GitService) IsInRepo(ctx context.Context) bool {
	out, err := s.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// RepoRoot gets the absolute path to the root of the git repository
func (s *GitService) RepoRoot(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.ErrGetRepoRoot.WithError(err)
	}
	return out, nil
}

// HooksDir returns the absolute hooks directory, honoring core.hooksPath.
func (s *GitService) HooksDir(ctx context.Context) (string, error) {
	if !s.IsInRepo(ctx) {
		return "", errors.ErrNotInGitRepo
	}
	out, err := s.run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", errors.ErrGetHooksDir.WithError(err)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(s.workDir(), out)
	}
	return filepath.Clean(out), nil
}

// CommitMessages returns the full messages of the non-merge commits in
// revRange, newest first.
func (s *GitService) CommitMessages(ctx context.Context, revRange string) ([]models.Commit, error) {
	out, err := s.run(ctx, "log", "--no-merges", "--format=%H"+fieldSep+"%B"+recordSep, revRange, "--")
	if err != nil {
		return nil, errors.ErrGetCommits.WithError(err).WithContext("range", revRange)
	}

	commits := make([]models.Commit, 0)
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		hash, message, ok := strings.Cut(record, fieldSep)
		if !ok {
			continue
		}
		commits = append(commits, models.Commit{
			Hash:    hash,
			Message: strings.TrimSpace(message),
		})
	}
	return commits, nil
}

func (s *GitService) workDir() string {
	if s.dir != "" {
		return s.dir
	}
	return "."
}

func (s *GitService) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return "", errors.NewAppError(errors.TypeGit, "git "+args[0]+" failed", err).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(output)), nil
}
