package service

import (
	"time"

	"github.com/sentinelhq/sentinel/github/adapter"
)

type Config struct {
	// Domain selects the GitHub host (default github.com).
	Domain string `json:"domain,omitempty"`
	// Token seeds the credential store for the default namespace. Usually
	// supplied via flag/env; tokens can also arrive through the ingest
	// handler at runtime.
	Token string `json:"token,omitempty"`
	// SecretsBase is an AFS URL root for persisting tokens per namespace.
	// Examples: mem://localhost/sentinel, file:///var/lib/sentinel/secrets
	SecretsBase string `json:"secretsBase,omitempty"`

	// MinIntervalMs spaces consecutive outbound GitHub calls (default 1000).
	MinIntervalMs int `json:"minIntervalMs,omitempty"`
	// MaxAttempts is the total per-call attempt budget (default 3).
	MaxAttempts int `json:"maxAttempts,omitempty"`
	// RetryInitialDelayMs seeds the backoff schedule (default 1000).
	RetryInitialDelayMs int `json:"retryInitialDelayMs,omitempty"`
	// TreeTTLSeconds bounds file-tree cache freshness (default 3600).
	TreeTTLSeconds int `json:"treeTtlSeconds,omitempty"`

	// UseData switches tool results to structured content instead of text.
	UseData bool `json:"useData,omitempty"`
}

func (c *Config) domain() string {
	if c.Domain == "" {
		return "github.com"
	}
	return c.Domain
}

func (c *Config) minInterval() time.Duration {
	if c.MinIntervalMs <= 0 {
		return adapter.DefaultMinInterval
	}
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

func (c *Config) retryPolicy() adapter.RetryPolicy {
	p := adapter.DefaultRetryPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.RetryInitialDelayMs > 0 {
		p.InitialDelay = time.Duration(c.RetryInitialDelayMs) * time.Millisecond
	}
	return p
}

func (c *Config) treeTTL() time.Duration {
	if c.TreeTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.TreeTTLSeconds) * time.Second
}
