package service

import (
	"context"
	"fmt"
)

func (s *Service) ListCommits(ctx context.Context, in *ListCommitsInput) (*ListCommitsOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*ListCommitsOutput, error) {
		commits, err := s.api.ListCommits(ctx, token, in.Repo.Owner, in.Repo.Name, in.PerPage)
		if err != nil {
			return nil, err
		}
		out := &ListCommitsOutput{Commits: make([]Commit, 0, len(commits))}
		for _, c := range commits {
			out.Commits = append(out.Commits, Commit{Sha: c.Sha, Message: c.Message, Author: c.Author, Date: c.Date, URL: c.HTMLURL})
		}
		return out, nil
	})
}

// CommitDiff returns the raw unified diff of a single commit.
func (s *Service) CommitDiff(ctx context.Context, in *CommitDiffInput) (*CommitDiffOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*CommitDiffOutput, error) {
		diff, err := s.api.GetCommitDiff(ctx, token, in.Repo.Owner, in.Repo.Name, in.Sha)
		if err != nil {
			return nil, err
		}
		return &CommitDiffOutput{Diff: diff}, nil
	})
}
