package service

import (
	"context"
	"fmt"
	"log/slog"

	cache "github.com/patrickmn/go-cache"
)

// treeKey derives the deterministic cache key for a repository tree: two
// requests for the same repository always resolve to the same entry.
func (s *Service) treeKey(repo RepoRef) string {
	return fmt.Sprintf("github.tree.%s.%s.%s", s.cfg.domain(), repo.Owner, repo.Name)
}

// FileTree lists every file of the repository's default branch. Results are
// cached for the configured TTL; mutating operations never touch this cache.
func (s *Service) FileTree(ctx context.Context, in *FileTreeInput) (*FileTreeOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	key := s.treeKey(in.Repo)
	if cached, found := s.cache.Get(key); found {
		slog.Debug("file tree cache hit", "owner", in.Repo.Owner, "repo", in.Repo.Name)
		out := cached.(FileTreeOutput)
		return &out, nil
	}
	out, err := withToken(ctx, s, func(token string) (*FileTreeOutput, error) {
		entries, truncated, err := s.api.GetFileTree(ctx, token, in.Repo.Owner, in.Repo.Name, "")
		if err != nil {
			return nil, err
		}
		out := &FileTreeOutput{Truncated: truncated, Entries: make([]FileEntry, 0, len(entries))}
		for _, e := range entries {
			typ := e.Type
			switch typ {
			case "blob":
				typ = "file"
			case "tree":
				typ = "dir"
			}
			out.Entries = append(out.Entries, FileEntry{Path: e.Path, Type: typ, Sha: e.Sha, Size: e.Size})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, *out, cache.DefaultExpiration)
	return out, nil
}
