package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	oa "github.com/sentinelhq/sentinel/auth"
	"github.com/sentinelhq/sentinel/github/adapter"
)

// githubAPI is the slice of the adapter client the facade consumes. Tests
// substitute a fake; production wiring uses *adapter.Client.
type githubAPI interface {
	GetFileTree(ctx context.Context, token, owner, repo, ref string) ([]adapter.TreeEntry, bool, error)
	GetFileContent(ctx context.Context, token, owner, repo, path, ref string) ([]byte, error)
	GetContentSHA(ctx context.Context, token, owner, repo, path, branch string) (string, error)
	ListCommits(ctx context.Context, token, owner, repo string, perPage int) ([]adapter.Commit, error)
	GetCommitDiff(ctx context.Context, token, owner, repo, sha string) (string, error)
	ListRepos(ctx context.Context, token string, page, perPage int) ([]adapter.Repo, error)
	ListPullRequests(ctx context.Context, token, owner, repo, state string) ([]adapter.PullRequest, error)
	ListLanguages(ctx context.Context, token, owner, repo string) (map[string]int64, error)
	ListContributors(ctx context.Context, token, owner, repo string) ([]adapter.Contributor, error)
	ListIssuesByLabel(ctx context.Context, token, owner, repo, label string) ([]adapter.Issue, error)
	GetDefaultBranch(ctx context.Context, token, owner, repo string) (string, error)
	GetRefSHA(ctx context.Context, token, owner, repo, branch string) (string, error)
	CreateBranch(ctx context.Context, token, owner, repo, branch, sha string) error
	PutFile(ctx context.Context, token, owner, repo, path, branch, message string, content []byte, sha string) (string, error)
	CreatePullRequest(ctx context.Context, token, owner, repo, title, body, head, base string) (adapter.PullRequest, error)
	CreateReviewComment(ctx context.Context, token, owner, repo string, number int, body, commitSha, path string, line int) error
	ListDependencyAlerts(ctx context.Context, token, owner, repo string) ([]adapter.DependencyAlert, error)
	ValidateToken(ctx context.Context, token string) error
}

// Service is the typed facade over the GitHub REST API: it owns cache
// policy, the credential store, and the unauthorized-signal fan-out. The
// adapter underneath owns pacing, retry and error classification.
type Service struct {
	cfg     *Config
	auth    *oa.Service
	api     githubAPI
	cache   *cache.Cache
	useText bool

	mu     sync.RWMutex
	tokens map[string]string // ns|domain -> bearer token

	listenerMu     sync.RWMutex
	onUnauthorized []func()
}

func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	ttl := cfg.treeTTL()
	pacer := adapter.NewPacer(cfg.minInterval())
	s := &Service{
		cfg:     cfg,
		auth:    oa.New(),
		api:     adapter.New(cfg.Domain, adapter.WithPacer(pacer), adapter.WithRetryPolicy(cfg.retryPolicy())),
		cache:   cache.New(ttl, 2*ttl),
		useText: !cfg.UseData,
		tokens:  map[string]string{},
	}
	// Stored credentials are presumed dead once the remote rejects them.
	s.OnUnauthorized(s.clearTokens)
	if cfg.Token != "" {
		s.saveToken("default", cfg.Token)
	}
	return s
}

// OnUnauthorized registers a listener invoked whenever the remote answers
// 401. The signal is a side channel: callers still receive the typed error.
func (s *Service) OnUnauthorized(fn func()) {
	s.listenerMu.Lock()
	s.onUnauthorized = append(s.onUnauthorized, fn)
	s.listenerMu.Unlock()
}

func (s *Service) notifyUnauthorized() {
	s.listenerMu.RLock()
	listeners := append([]func(){}, s.onUnauthorized...)
	s.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// UseTextField reports whether tool results are serialized as text content.
func (s *Service) UseTextField() bool {
	return s.useText
}

// NewUUID returns a random identifier, used for generated branch names.
func NewUUID() string {
	return uuid.NewString()
}

func (s *Service) namespace(ctx context.Context) string {
	ns, _ := s.auth.Namespace(ctx)
	if ns == "" {
		ns = "default"
	}
	return ns
}

// withToken gates every facade operation: a missing credential fails fast
// with Unauthorized before any rate-limit slot is consumed, and a 401 from
// the remote fires the unauthorized signal on its way out.
func withToken[T any](ctx context.Context, s *Service, call func(token string) (T, error)) (T, error) {
	var zero T
	token := s.currentToken(ctx)
	if token == "" {
		return zero, &adapter.Error{Kind: adapter.KindUnauthorized, Message: "no credential configured; ingest a token via /github/auth/token"}
	}
	out, err := call(token)
	if err != nil {
		if adapter.IsKind(err, adapter.KindUnauthorized) {
			s.notifyUnauthorized()
		}
		return zero, err
	}
	return out, nil
}
