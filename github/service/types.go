package service

type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type FileEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "file" | "dir"
	Sha  string `json:"sha"`
	Size int    `json:"size,omitempty"`
}

type Repo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"fullName"`
	Description   string `json:"description,omitempty"`
	Language      string `json:"language,omitempty"`
	Stars         int    `json:"stars"`
	Private       bool   `json:"private,omitempty"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
	URL           string `json:"url,omitempty"`
}

type Commit struct {
	Sha     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
	URL     string `json:"url,omitempty"`
}

type PullRequest struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url,omitempty"`
}

type Issue struct {
	ID     int64    `json:"id"`
	Number int      `json:"number"`
	Title  string   `json:"title"`
	State  string   `json:"state"`
	URL    string   `json:"url,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
}

type DependencyAlert struct {
	Package  string `json:"package"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	URL      string `json:"url,omitempty"`
}

type FileTreeInput struct {
	Repo RepoRef `json:"repo"`
}
type FileTreeOutput struct {
	Entries   []FileEntry `json:"entries,omitempty"`
	Truncated bool        `json:"truncated,omitempty"`
}

type FileContentInput struct {
	Repo RepoRef `json:"repo"`
	Path string  `json:"path"`
	Ref  string  `json:"ref,omitempty" description:"branch, tag or commit (default HEAD)"`
}
type FileContentOutput struct {
	Content string `json:"content"`
}

type ListCommitsInput struct {
	Repo    RepoRef `json:"repo"`
	PerPage int     `json:"perPage,omitempty" description:"page size (default 30)"`
}
type ListCommitsOutput struct {
	Commits []Commit `json:"commits,omitempty"`
}

type CommitDiffInput struct {
	Repo RepoRef `json:"repo"`
	Sha  string  `json:"sha"`
}
type CommitDiffOutput struct {
	Diff string `json:"diff"`
}

type ListReposInput struct {
	Page    int `json:"page,omitempty"`
	PerPage int `json:"perPage,omitempty" description:"page size (default 30)"`
}
type ListReposOutput struct {
	Repos []Repo `json:"repos,omitempty"`
}

type ListPullRequestsInput struct {
	Repo  RepoRef `json:"repo"`
	State string  `json:"state,omitempty" description:"open|closed|all"`
}
type ListPullRequestsOutput struct {
	Pulls []PullRequest `json:"pulls,omitempty"`
}

type LanguagesInput struct {
	Repo RepoRef `json:"repo"`
}
type LanguagesOutput struct {
	Languages map[string]int64 `json:"languages,omitempty" description:"bytes of code per language"`
}

type ContributorsInput struct {
	Repo RepoRef `json:"repo"`
}
type ContributorsOutput struct {
	Contributors []Contributor `json:"contributors,omitempty"`
}

type LabeledIssuesInput struct {
	Repo  RepoRef `json:"repo"`
	Label string  `json:"label"`
}
type LabeledIssuesOutput struct {
	Issues []Issue `json:"issues,omitempty"`
}

type CreateFixPRInput struct {
	Repo          RepoRef `json:"repo"`
	Path          string  `json:"path"`
	Content       string  `json:"content" description:"full replacement file content"`
	BaseFileSha   string  `json:"baseFileSha,omitempty" description:"blob SHA of the file being replaced"`
	CommitMessage string  `json:"commitMessage"`
	Title         string  `json:"title"`
	Body          string  `json:"body,omitempty"`
}
type CreateFixPROutput struct {
	URL    string `json:"url"`
	Branch string `json:"branch"`
	Number int    `json:"number,omitempty"`
}

type ReviewCommentInput struct {
	Repo      RepoRef `json:"repo"`
	PRNumber  int     `json:"prNumber"`
	Body      string  `json:"body"`
	CommitSha string  `json:"commitSha"`
	Path      string  `json:"path"`
	Line      int     `json:"line"`
}
type ReviewCommentOutput struct {
	Posted bool `json:"posted"`
}

type PushFileInput struct {
	Repo    RepoRef `json:"repo"`
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Message string  `json:"message"`
	Branch  string  `json:"branch,omitempty" description:"target branch (default repo default branch)"`
}
type PushFileOutput struct {
	CommitSha string `json:"commitSha,omitempty"`
	Created   bool   `json:"created" description:"true when the file did not exist before"`
}

type DependencyAlertsInput struct {
	Repo RepoRef `json:"repo"`
}
type DependencyAlertsOutput struct {
	Alerts []DependencyAlert `json:"alerts,omitempty"`
}

type RepoHealthInput struct {
	Repos []RepoRef `json:"repos"`
}

// RepoHealth aggregates alert severities for one repository. A failed fetch
// degrades to zero counts with Error set rather than failing the aggregate.
type RepoHealth struct {
	Repo     RepoRef `json:"repo"`
	Open     int     `json:"open"`
	Critical int     `json:"critical"`
	High     int     `json:"high"`
	Medium   int     `json:"medium"`
	Low      int     `json:"low"`
	Error    string  `json:"error,omitempty"`
}
type RepoHealthOutput struct {
	Repos []RepoHealth `json:"repos"`
}
