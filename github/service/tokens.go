package service

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/viant/afs"
)

func (s *Service) tokenKey(ns string) string {
	return joinKey(ns, s.cfg.domain())
}

func (s *Service) loadToken(ns string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[s.tokenKey(ns)]
}

func (s *Service) saveToken(ns, token string) {
	s.mu.Lock()
	s.tokens[s.tokenKey(ns)] = token
	s.mu.Unlock()
}

func (s *Service) clearToken(ns string) {
	s.mu.Lock()
	delete(s.tokens, s.tokenKey(ns))
	s.mu.Unlock()
}

func (s *Service) clearTokens() {
	s.mu.Lock()
	s.tokens = map[string]string{}
	s.mu.Unlock()
}

// currentToken resolves the caller's credential: in-memory store first,
// then the persisted secret. Empty means absent.
func (s *Service) currentToken(ctx context.Context) string {
	ns := s.namespace(ctx)
	if t := s.loadToken(ns); t != "" {
		return t
	}
	if t := s.loadTokenFromSecrets(ctx, ns); t != "" {
		s.saveToken(ns, t)
		return t
	}
	return ""
}

func (s *Service) tokenURL(ns string) string {
	if s.cfg.SecretsBase == "" {
		return ""
	}
	return strings.Join([]string{s.cfg.SecretsBase, "github", safePart(ns), safePart(s.cfg.domain()), "token"}, "/")
}

func (s *Service) persistToken(ctx context.Context, ns, token string) {
	if token == "" {
		return
	}
	if url := s.tokenURL(ns); url != "" {
		_ = afs.New().Upload(ctx, url, 0o600, bytes.NewReader([]byte(token)))
	}
}

func (s *Service) loadTokenFromSecrets(ctx context.Context, ns string) string {
	url := s.tokenURL(ns)
	if url == "" {
		return ""
	}
	rc, err := afs.New().OpenURL(ctx, url)
	if err != nil || rc == nil {
		return ""
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	return strings.TrimSpace(string(data))
}

func joinKey(parts ...string) string {
	return strings.Join(parts, "|")
}

func safePart(v string) string {
	v = strings.TrimSpace(v)
	replacer := strings.NewReplacer("/", "_", ":", "_", "|", "_")
	return replacer.Replace(v)
}
