package service

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RegisterHTTP registers the credential HTTP handlers on the provided mux.
func (s *Service) RegisterHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/github/auth/token", s.TokenIngestHandler())
	mux.HandleFunc("/github/auth/check", s.TokenCheckHandler())
	mux.HandleFunc("/github/auth/clear", s.TokenClearHandler())
}

// TokenIngestHandler accepts a bearer token (JSON body {"token": ...} or an
// Authorization header), validates it against the remote, and stores it for
// the caller's namespace.
func (s *Service) TokenIngestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		token := parseAuthHeaderToken(r.Header.Get("Authorization"))
		if token == "" {
			var payload struct {
				Token string `json:"token"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
				token = strings.TrimSpace(payload.Token)
			}
		}
		if token == "" {
			http.Error(w, "token required", http.StatusBadRequest)
			return
		}
		if err := s.api.ValidateToken(r.Context(), token); err != nil {
			http.Error(w, "token rejected: "+err.Error(), http.StatusUnauthorized)
			return
		}
		ns := s.namespace(r.Context())
		s.saveToken(ns, token)
		s.persistToken(r.Context(), ns, token)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "namespace": ns})
	}
}

// TokenCheckHandler reports whether a credential is present and still valid.
func (s *Service) TokenCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		token := s.currentToken(r.Context())
		resp := map[string]any{"present": token != ""}
		if token != "" {
			resp["valid"] = s.api.ValidateToken(r.Context(), token) == nil
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// TokenClearHandler drops the stored credential for the caller's namespace.
func (s *Service) TokenClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.clearToken(s.namespace(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// parseAuthHeaderToken extracts a bearer token from an Authorization header.
func parseAuthHeaderToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
