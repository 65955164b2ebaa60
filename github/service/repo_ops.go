package service

import (
	"context"
	"fmt"
)

// ListRepos lists the authenticated caller's repositories page by page.
func (s *Service) ListRepos(ctx context.Context, in *ListReposInput) (*ListReposOutput, error) {
	if in == nil {
		in = &ListReposInput{}
	}
	return withToken(ctx, s, func(token string) (*ListReposOutput, error) {
		repos, err := s.api.ListRepos(ctx, token, in.Page, in.PerPage)
		if err != nil {
			return nil, err
		}
		out := &ListReposOutput{Repos: make([]Repo, 0, len(repos))}
		for _, v := range repos {
			out.Repos = append(out.Repos, Repo{
				ID:            v.ID,
				Name:          v.Name,
				FullName:      v.FullName,
				Description:   v.Description,
				Language:      v.Language,
				Stars:         v.Stars,
				Private:       v.Private,
				DefaultBranch: v.DefaultBranch,
				URL:           v.HTMLURL,
			})
		}
		return out, nil
	})
}

func (s *Service) ListPullRequests(ctx context.Context, in *ListPullRequestsInput) (*ListPullRequestsOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*ListPullRequestsOutput, error) {
		pulls, err := s.api.ListPullRequests(ctx, token, in.Repo.Owner, in.Repo.Name, in.State)
		if err != nil {
			return nil, err
		}
		out := &ListPullRequestsOutput{Pulls: make([]PullRequest, 0, len(pulls))}
		for _, v := range pulls {
			out.Pulls = append(out.Pulls, PullRequest{ID: v.ID, Number: v.Number, Title: v.Title, State: v.State, URL: v.HTMLURL})
		}
		return out, nil
	})
}

func (s *Service) Languages(ctx context.Context, in *LanguagesInput) (*LanguagesOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*LanguagesOutput, error) {
		langs, err := s.api.ListLanguages(ctx, token, in.Repo.Owner, in.Repo.Name)
		if err != nil {
			return nil, err
		}
		return &LanguagesOutput{Languages: langs}, nil
	})
}

func (s *Service) Contributors(ctx context.Context, in *ContributorsInput) (*ContributorsOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*ContributorsOutput, error) {
		items, err := s.api.ListContributors(ctx, token, in.Repo.Owner, in.Repo.Name)
		if err != nil {
			return nil, err
		}
		out := &ContributorsOutput{Contributors: make([]Contributor, 0, len(items))}
		for _, v := range items {
			out.Contributors = append(out.Contributors, Contributor{Login: v.Login, Contributions: v.Contributions, AvatarURL: v.AvatarURL})
		}
		return out, nil
	})
}

// LabeledIssues lists open issues carrying the given label.
func (s *Service) LabeledIssues(ctx context.Context, in *LabeledIssuesInput) (*LabeledIssuesOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	return withToken(ctx, s, func(token string) (*LabeledIssuesOutput, error) {
		issues, err := s.api.ListIssuesByLabel(ctx, token, in.Repo.Owner, in.Repo.Name, in.Label)
		if err != nil {
			return nil, err
		}
		out := &LabeledIssuesOutput{Issues: make([]Issue, 0, len(issues))}
		for _, v := range issues {
			out.Issues = append(out.Issues, Issue{ID: v.ID, Number: v.Number, Title: v.Title, State: v.State, URL: v.HTMLURL, Labels: v.Labels})
		}
		return out, nil
	})
}
