package service

import (
	"context"
	"fmt"
	"log/slog"
)

// DependencyAlerts lists open dependency-vulnerability alerts.
func (s *Service) DependencyAlerts(ctx context.Context, in *DependencyAlertsInput) (*DependencyAlertsOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*DependencyAlertsOutput, error) {
		alerts, err := s.api.ListDependencyAlerts(ctx, token, in.Repo.Owner, in.Repo.Name)
		if err != nil {
			return nil, err
		}
		out := &DependencyAlertsOutput{Alerts: make([]DependencyAlert, 0, len(alerts))}
		for _, a := range alerts {
			out.Alerts = append(out.Alerts, DependencyAlert{Package: a.Package, Severity: a.Severity, Summary: a.Summary, URL: a.URL})
		}
		return out, nil
	})
}

// RepoHealth fans the alerts read out across the supplied repositories.
// Per-repository failure is isolated: a failing entry reports zero counts
// with the error recorded, and the aggregate always returns one result per
// requested repository.
func (s *Service) RepoHealth(ctx context.Context, in *RepoHealthInput) (*RepoHealthOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	out := &RepoHealthOutput{Repos: make([]RepoHealth, 0, len(in.Repos))}
	for _, repo := range in.Repos {
		health := RepoHealth{Repo: repo}
		alerts, err := s.DependencyAlerts(ctx, &DependencyAlertsInput{Repo: repo})
		if err != nil {
			health.Error = err.Error()
			slog.Warn("repo health degraded", "owner", repo.Owner, "repo", repo.Name, "err", err)
			out.Repos = append(out.Repos, health)
			continue
		}
		for _, a := range alerts.Alerts {
			health.Open++
			switch a.Severity {
			case "critical":
				health.Critical++
			case "high":
				health.High++
			case "medium", "moderate":
				health.Medium++
			case "low":
				health.Low++
			}
		}
		out.Repos = append(out.Repos, health)
	}
	return out, nil
}
