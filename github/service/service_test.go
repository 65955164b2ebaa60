package service

import (
	"context"
	"sync"
	"testing"

	"github.com/sentinelhq/sentinel/github/adapter"
)

// fakeAPI satisfies githubAPI with per-method overrides and dispatch counts.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	fileTree      func(owner, repo, ref string) ([]adapter.TreeEntry, bool, error)
	fileContent   func(owner, repo, path, ref string) ([]byte, error)
	contentSHA    func(owner, repo, path, branch string) (string, error)
	commits       func(owner, repo string, perPage int) ([]adapter.Commit, error)
	commitDiff    func(owner, repo, sha string) (string, error)
	repos         func(page, perPage int) ([]adapter.Repo, error)
	pulls         func(owner, repo, state string) ([]adapter.PullRequest, error)
	languages     func(owner, repo string) (map[string]int64, error)
	contributors  func(owner, repo string) ([]adapter.Contributor, error)
	labeledIssues func(owner, repo, label string) ([]adapter.Issue, error)
	defaultBranch func(owner, repo string) (string, error)
	refSHA        func(owner, repo, branch string) (string, error)
	createBranch  func(owner, repo, branch, sha string) error
	putFile       func(owner, repo, path, branch, message string, content []byte, sha string) (string, error)
	createPR      func(owner, repo, title, body, head, base string) (adapter.PullRequest, error)
	reviewComment func(owner, repo string, number int, body, commitSha, path string, line int) error
	alerts        func(owner, repo string) ([]adapter.DependencyAlert, error)
	validateToken func(token string) error
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) GetFileTree(_ context.Context, _, owner, repo, ref string) ([]adapter.TreeEntry, bool, error) {
	f.record("GetFileTree")
	if f.fileTree != nil {
		return f.fileTree(owner, repo, ref)
	}
	return nil, false, nil
}

func (f *fakeAPI) GetFileContent(_ context.Context, _, owner, repo, path, ref string) ([]byte, error) {
	f.record("GetFileContent")
	if f.fileContent != nil {
		return f.fileContent(owner, repo, path, ref)
	}
	return nil, nil
}

func (f *fakeAPI) GetContentSHA(_ context.Context, _, owner, repo, path, branch string) (string, error) {
	f.record("GetContentSHA")
	if f.contentSHA != nil {
		return f.contentSHA(owner, repo, path, branch)
	}
	return "", nil
}

func (f *fakeAPI) ListCommits(_ context.Context, _, owner, repo string, perPage int) ([]adapter.Commit, error) {
	f.record("ListCommits")
	if f.commits != nil {
		return f.commits(owner, repo, perPage)
	}
	return nil, nil
}

func (f *fakeAPI) GetCommitDiff(_ context.Context, _, owner, repo, sha string) (string, error) {
	f.record("GetCommitDiff")
	if f.commitDiff != nil {
		return f.commitDiff(owner, repo, sha)
	}
	return "", nil
}

func (f *fakeAPI) ListRepos(_ context.Context, _ string, page, perPage int) ([]adapter.Repo, error) {
	f.record("ListRepos")
	if f.repos != nil {
		return f.repos(page, perPage)
	}
	return nil, nil
}

func (f *fakeAPI) ListPullRequests(_ context.Context, _, owner, repo, state string) ([]adapter.PullRequest, error) {
	f.record("ListPullRequests")
	if f.pulls != nil {
		return f.pulls(owner, repo, state)
	}
	return nil, nil
}

func (f *fakeAPI) ListLanguages(_ context.Context, _, owner, repo string) (map[string]int64, error) {
	f.record("ListLanguages")
	if f.languages != nil {
		return f.languages(owner, repo)
	}
	return nil, nil
}

func (f *fakeAPI) ListContributors(_ context.Context, _, owner, repo string) ([]adapter.Contributor, error) {
	f.record("ListContributors")
	if f.contributors != nil {
		return f.contributors(owner, repo)
	}
	return nil, nil
}

func (f *fakeAPI) ListIssuesByLabel(_ context.Context, _, owner, repo, label string) ([]adapter.Issue, error) {
	f.record("ListIssuesByLabel")
	if f.labeledIssues != nil {
		return f.labeledIssues(owner, repo, label)
	}
	return nil, nil
}

func (f *fakeAPI) GetDefaultBranch(_ context.Context, _, owner, repo string) (string, error) {
	f.record("GetDefaultBranch")
	if f.defaultBranch != nil {
		return f.defaultBranch(owner, repo)
	}
	return "main", nil
}

func (f *fakeAPI) GetRefSHA(_ context.Context, _, owner, repo, branch string) (string, error) {
	f.record("GetRefSHA")
	if f.refSHA != nil {
		return f.refSHA(owner, repo, branch)
	}
	return "basesha", nil
}

func (f *fakeAPI) CreateBranch(_ context.Context, _, owner, repo, branch, sha string) error {
	f.record("CreateBranch")
	if f.createBranch != nil {
		return f.createBranch(owner, repo, branch, sha)
	}
	return nil
}

func (f *fakeAPI) PutFile(_ context.Context, _, owner, repo, path, branch, message string, content []byte, sha string) (string, error) {
	f.record("PutFile")
	if f.putFile != nil {
		return f.putFile(owner, repo, path, branch, message, content, sha)
	}
	return "commitsha", nil
}

func (f *fakeAPI) CreatePullRequest(_ context.Context, _, owner, repo, title, body, head, base string) (adapter.PullRequest, error) {
	f.record("CreatePullRequest")
	if f.createPR != nil {
		return f.createPR(owner, repo, title, body, head, base)
	}
	return adapter.PullRequest{Number: 1, HTMLURL: "https://example.com/pr/1"}, nil
}

func (f *fakeAPI) CreateReviewComment(_ context.Context, _, owner, repo string, number int, body, commitSha, path string, line int) error {
	f.record("CreateReviewComment")
	if f.reviewComment != nil {
		return f.reviewComment(owner, repo, number, body, commitSha, path, line)
	}
	return nil
}

func (f *fakeAPI) ListDependencyAlerts(_ context.Context, _, owner, repo string) ([]adapter.DependencyAlert, error) {
	f.record("ListDependencyAlerts")
	if f.alerts != nil {
		return f.alerts(owner, repo)
	}
	return nil, nil
}

func (f *fakeAPI) ValidateToken(_ context.Context, token string) error {
	f.record("ValidateToken")
	if f.validateToken != nil {
		return f.validateToken(token)
	}
	return nil
}

func newTestService(t *testing.T, api githubAPI) *Service {
	t.Helper()
	svc := NewService(&Config{Token: "tok-test"})
	svc.api = api
	return svc
}

func Test_tokenKey(t *testing.T) {
	svc := NewService(&Config{})
	if got := svc.tokenKey("default"); got != "default|github.com" {
		t.Fatalf("unexpected token key: %s", got)
	}
	svc = NewService(&Config{Domain: "gh.corp.example"})
	if got := svc.tokenKey("alice@example.com"); got != "alice@example.com|gh.corp.example" {
		t.Fatalf("unexpected token key with domain: %s", got)
	}
}

func Test_save_load_clear_Token(t *testing.T) {
	svc := NewService(&Config{})
	if got := svc.loadToken("default"); got != "" {
		t.Fatalf("expected empty token before save, got %q", got)
	}
	svc.saveToken("default", "tok-123")
	if got := svc.loadToken("default"); got != "tok-123" {
		t.Fatalf("loadToken mismatch, got %q", got)
	}
	svc.clearToken("default")
	if got := svc.loadToken("default"); got != "" {
		t.Fatalf("expected empty after clear, got %q", got)
	}
}

func Test_MissingToken_FailsFastWithoutDispatch(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(&Config{})
	svc.api = api

	_, err := svc.FileTree(context.Background(), &FileTreeInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}})
	if err == nil {
		t.Fatal("expected error for missing credential")
	}
	if !adapter.IsKind(err, adapter.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got := api.count("GetFileTree"); got != 0 {
		t.Fatalf("expected zero dispatches, got %d", got)
	}
}

func Test_Unauthorized_FiresSignalOnce(t *testing.T) {
	api := &fakeAPI{
		commits: func(owner, repo string, perPage int) ([]adapter.Commit, error) {
			return nil, &adapter.Error{Kind: adapter.KindUnauthorized, Message: "Bad credentials", StatusCode: 401}
		},
	}
	svc := newTestService(t, api)
	fired := 0
	svc.OnUnauthorized(func() { fired++ })

	_, err := svc.ListCommits(context.Background(), &ListCommitsInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}})
	if !adapter.IsKind(err, adapter.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected signal to fire exactly once, fired %d times", fired)
	}
	// the built-in listener invalidates the stored credential
	if got := svc.loadToken("default"); got != "" {
		t.Fatalf("expected stored token cleared, got %q", got)
	}
}

func Test_Forbidden_DoesNotFireSignal(t *testing.T) {
	api := &fakeAPI{
		commits: func(owner, repo string, perPage int) ([]adapter.Commit, error) {
			return nil, &adapter.Error{Kind: adapter.KindForbidden, Message: "denied", StatusCode: 403}
		},
	}
	svc := newTestService(t, api)
	fired := 0
	svc.OnUnauthorized(func() { fired++ })

	_, err := svc.ListCommits(context.Background(), &ListCommitsInput{Repo: RepoRef{Owner: "octocat", Name: "hello"}})
	if !adapter.IsKind(err, adapter.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if fired != 0 {
		t.Fatalf("expected no signal, fired %d times", fired)
	}
}
