package service

import (
	"context"
	"fmt"

	"github.com/sentinelhq/sentinel/github/adapter"
)

// FileContent fetches one file decoded from its base64 transport encoding.
// Not cached: file bodies churn faster than the tree listing.
func (s *Service) FileContent(ctx context.Context, in *FileContentInput) (*FileContentOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*FileContentOutput, error) {
		data, err := s.api.GetFileContent(ctx, token, in.Repo.Owner, in.Repo.Name, in.Path, in.Ref)
		if err != nil {
			return nil, err
		}
		return &FileContentOutput{Content: string(data)}, nil
	})
}

// PushFile creates or updates a single file on a branch. The existing blob
// SHA is looked up first; a NotFound answer switches the call to create mode.
func (s *Service) PushFile(ctx context.Context, in *PushFileInput) (*PushFileOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*PushFileOutput, error) {
		sha, err := s.api.GetContentSHA(ctx, token, in.Repo.Owner, in.Repo.Name, in.Path, in.Branch)
		if err != nil {
			if !adapter.IsKind(err, adapter.KindNotFound) {
				return nil, fmt.Errorf("lookup existing file: %w", err)
			}
			sha = ""
		}
		commitSha, err := s.api.PutFile(ctx, token, in.Repo.Owner, in.Repo.Name, in.Path, in.Branch, in.Message, []byte(in.Content), sha)
		if err != nil {
			return nil, err
		}
		return &PushFileOutput{CommitSha: commitSha, Created: sha == ""}, nil
	})
}
