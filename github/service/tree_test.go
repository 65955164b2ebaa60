package service

import (
	"context"
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sentinelhq/sentinel/github/adapter"
)

func Test_treeKey(t *testing.T) {
	svc := NewService(&Config{})
	repo := RepoRef{Owner: "octocat", Name: "hello"}
	key := svc.treeKey(repo)
	if key != "github.tree.github.com.octocat.hello" {
		t.Fatalf("unexpected key: %s", key)
	}
	if again := svc.treeKey(repo); again != key {
		t.Fatalf("key not deterministic: %s vs %s", key, again)
	}
}

func Test_FileTree_CacheHit(t *testing.T) {
	api := &fakeAPI{
		fileTree: func(owner, repo, ref string) ([]adapter.TreeEntry, bool, error) {
			return []adapter.TreeEntry{
				{Path: "README.md", Type: "blob", Sha: "abc", Size: 12},
				{Path: "cmd", Type: "tree", Sha: "def"},
			}, false, nil
		},
	}
	svc := newTestService(t, api)
	in := &FileTreeInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}}

	first, err := svc.FileTree(context.Background(), in)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if len(first.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first.Entries))
	}
	if first.Entries[0].Type != "file" || first.Entries[1].Type != "dir" {
		t.Fatalf("entry types not normalized: %+v", first.Entries)
	}

	second, err := svc.FileTree(context.Background(), in)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(second.Entries) != 2 {
		t.Fatalf("expected cached entries, got %d", len(second.Entries))
	}
	if got := api.count("GetFileTree"); got != 1 {
		t.Fatalf("expected a single upstream dispatch, got %d", got)
	}
}

func Test_FileTree_CacheExpiry(t *testing.T) {
	api := &fakeAPI{}
	svc := newTestService(t, api)
	svc.cache = cache.New(10*time.Millisecond, time.Minute)
	in := &FileTreeInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}}

	if _, err := svc.FileTree(context.Background(), in); err != nil {
		t.Fatalf("first call: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.FileTree(context.Background(), in); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := api.count("GetFileTree"); got != 2 {
		t.Fatalf("expected refetch after expiry, got %d dispatches", got)
	}
}

func Test_FileTree_ErrorNotCached(t *testing.T) {
	boom := &adapter.Error{Kind: adapter.KindServerError, Message: "upstream down", StatusCode: 502}
	api := &fakeAPI{
		fileTree: func(owner, repo, ref string) ([]adapter.TreeEntry, bool, error) {
			return nil, false, boom
		},
	}
	svc := newTestService(t, api)
	in := &FileTreeInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}}

	if _, err := svc.FileTree(context.Background(), in); !adapter.IsKind(err, adapter.KindServerError) {
		t.Fatalf("expected server error, got %v", err)
	}
	api.fileTree = nil
	if _, err := svc.FileTree(context.Background(), in); err != nil {
		t.Fatalf("expected recovery after upstream heals, got %v", err)
	}
	if got := api.count("GetFileTree"); got != 2 {
		t.Fatalf("failed result must not be cached, got %d dispatches", got)
	}
}
