package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"

	ghservice "github.com/sentinelhq/sentinel/github/service"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"
)

//go:embed tools/githubFileTree.md
var descFileTree string

//go:embed tools/githubFileContent.md
var descFileContent string

//go:embed tools/githubListCommits.md
var descListCommits string

//go:embed tools/githubCommitDiff.md
var descCommitDiff string

//go:embed tools/githubListRepos.md
var descListRepos string

//go:embed tools/githubListPRs.md
var descListPRs string

//go:embed tools/githubLanguages.md
var descLanguages string

//go:embed tools/githubContributors.md
var descContributors string

//go:embed tools/githubLabeledIssues.md
var descLabeledIssues string

//go:embed tools/githubCreateFixPR.md
var descCreateFixPR string

//go:embed tools/githubReviewComment.md
var descReviewComment string

//go:embed tools/githubPushFile.md
var descPushFile string

//go:embed tools/githubDependencyAlerts.md
var descDependencyAlerts string

//go:embed tools/githubRepoHealth.md
var descRepoHealth string

func registerTools(base *protoserver.DefaultHandler, h *Handler) error {
	svc := h.service

	if err := protoserver.RegisterTool[*ghservice.FileTreeInput, *ghservice.FileTreeOutput](base.Registry, "githubFileTree", descFileTree, func(ctx context.Context, in *ghservice.FileTreeInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.FileTree(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.FileContentInput, *ghservice.FileContentOutput](base.Registry, "githubFileContent", descFileContent, func(ctx context.Context, in *ghservice.FileContentInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if in.Path == "" {
			return buildErrorResult("path is required")
		}
		out, err := svc.FileContent(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.ListCommitsInput, *ghservice.ListCommitsOutput](base.Registry, "githubListCommits", descListCommits, func(ctx context.Context, in *ghservice.ListCommitsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.ListCommits(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.CommitDiffInput, *ghservice.CommitDiffOutput](base.Registry, "githubCommitDiff", descCommitDiff, func(ctx context.Context, in *ghservice.CommitDiffInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if strings.TrimSpace(in.Sha) == "" {
			return buildErrorResult("sha is required")
		}
		out, err := svc.CommitDiff(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.ListReposInput, *ghservice.ListReposOutput](base.Registry, "githubListRepos", descListRepos, func(ctx context.Context, in *ghservice.ListReposInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := svc.ListRepos(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.ListPullRequestsInput, *ghservice.ListPullRequestsOutput](base.Registry, "githubListPRs", descListPRs, func(ctx context.Context, in *ghservice.ListPullRequestsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.ListPullRequests(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.LanguagesInput, *ghservice.LanguagesOutput](base.Registry, "githubLanguages", descLanguages, func(ctx context.Context, in *ghservice.LanguagesInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.Languages(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.ContributorsInput, *ghservice.ContributorsOutput](base.Registry, "githubContributors", descContributors, func(ctx context.Context, in *ghservice.ContributorsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.Contributors(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.LabeledIssuesInput, *ghservice.LabeledIssuesOutput](base.Registry, "githubLabeledIssues", descLabeledIssues, func(ctx context.Context, in *ghservice.LabeledIssuesInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if in.Label == "" {
			return buildErrorResult("label is required")
		}
		out, err := svc.LabeledIssues(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.CreateFixPRInput, *ghservice.CreateFixPROutput](base.Registry, "githubCreateFixPR", descCreateFixPR, func(ctx context.Context, in *ghservice.CreateFixPRInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if in.Path == "" || in.Content == "" {
			return buildErrorResult("path and content are required")
		}
		if in.CommitMessage == "" || in.Title == "" {
			return buildErrorResult("commitMessage and title are required")
		}
		out, err := svc.CreateFixPR(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.ReviewCommentInput, *ghservice.ReviewCommentOutput](base.Registry, "githubReviewComment", descReviewComment, func(ctx context.Context, in *ghservice.ReviewCommentInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if in.PRNumber <= 0 {
			return buildErrorResult("prNumber must be > 0")
		}
		if in.Body == "" || in.CommitSha == "" || in.Path == "" || in.Line <= 0 {
			return buildErrorResult("body, commitSha, path and line are required")
		}
		out, err := svc.ReviewComment(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.PushFileInput, *ghservice.PushFileOutput](base.Registry, "githubPushFile", descPushFile, func(ctx context.Context, in *ghservice.PushFileInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		if in.Path == "" || in.Message == "" {
			return buildErrorResult("path and message are required")
		}
		out, err := svc.PushFile(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.DependencyAlertsInput, *ghservice.DependencyAlertsOutput](base.Registry, "githubDependencyAlerts", descDependencyAlerts, func(ctx context.Context, in *ghservice.DependencyAlertsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if in.Repo.Owner == "" || in.Repo.Name == "" {
			return buildErrorResult("repo.owner and repo.name are required")
		}
		out, err := svc.DependencyAlerts(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*ghservice.RepoHealthInput, *ghservice.RepoHealthOutput](base.Registry, "githubRepoHealth", descRepoHealth, func(ctx context.Context, in *ghservice.RepoHealthInput) (*schema.CallToolResult, *jsonrpc.Error) {
		if len(in.Repos) == 0 {
			return buildErrorResult("repos is required")
		}
		out, err := svc.RepoHealth(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResultOut(svc, out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResultOut(service *ghservice.Service, payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	if service.UseTextField() {
		b, _ := json.Marshal(payload)
		return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{{Type: "text", Text: string(b)}}}, nil
	}
	return &schema.CallToolResult{StructuredContent: map[string]any{"result": payload}}, nil
}
