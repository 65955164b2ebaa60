package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CreateFixPR carries a single-file fix onto a fresh branch and opens a pull
// request for it. Steps run in order: resolve default branch, read its head
// SHA, create the fix branch, commit the file, open the PR. The first
// failing step aborts the remainder and surfaces that step's error; already
// completed steps are not rolled back (a created branch stays), so partial
// completion is a reportable condition for the caller.
func (s *Service) CreateFixPR(ctx context.Context, in *CreateFixPRInput) (*CreateFixPROutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*CreateFixPROutput, error) {
		owner, name := in.Repo.Owner, in.Repo.Name
		base, err := s.api.GetDefaultBranch(ctx, token, owner, name)
		if err != nil {
			return nil, fmt.Errorf("resolve default branch: %w", err)
		}
		baseSha, err := s.api.GetRefSHA(ctx, token, owner, name, base)
		if err != nil {
			return nil, fmt.Errorf("resolve base ref: %w", err)
		}
		branch := "sentinel/fix-" + strings.Split(NewUUID(), "-")[0]
		if err := s.api.CreateBranch(ctx, token, owner, name, branch, baseSha); err != nil {
			return nil, fmt.Errorf("create branch: %w", err)
		}
		if _, err := s.api.PutFile(ctx, token, owner, name, in.Path, branch, in.CommitMessage, []byte(in.Content), in.BaseFileSha); err != nil {
			return nil, fmt.Errorf("commit file: %w", err)
		}
		pr, err := s.api.CreatePullRequest(ctx, token, owner, name, in.Title, in.Body, branch, base)
		if err != nil {
			return nil, fmt.Errorf("open pull request: %w", err)
		}
		slog.Info("opened fix pull request", "owner", owner, "repo", name, "number", pr.Number, "branch", branch)
		return &CreateFixPROutput{URL: pr.HTMLURL, Branch: branch, Number: pr.Number}, nil
	})
}

// ReviewComment posts an inline review comment on a pull request.
func (s *Service) ReviewComment(ctx context.Context, in *ReviewCommentInput) (*ReviewCommentOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*ReviewCommentOutput, error) {
		err := s.api.CreateReviewComment(ctx, token, in.Repo.Owner, in.Repo.Name, in.PRNumber, in.Body, in.CommitSha, in.Path, in.Line)
		if err != nil {
			return nil, err
		}
		return &ReviewCommentOutput{Posted: true}, nil
	})
}
