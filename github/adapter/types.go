package adapter

// TreeEntry is one node of a recursive tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" | "tree" | "commit" (submodule)
	Size int    `json:"size,omitempty"`
	Sha  string `json:"sha"`
}

type Repo struct {
	ID            int64
	Name          string
	FullName      string
	Description   string
	Language      string
	Stars         int
	Private       bool
	DefaultBranch string
	HTMLURL       string
}

type Commit struct {
	Sha     string
	Message string
	Author  string
	Date    string
	HTMLURL string
}

type PullRequest struct {
	ID      int64
	Number  int
	Title   string
	State   string
	HTMLURL string
}

type Issue struct {
	ID      int64
	Number  int
	Title   string
	State   string
	HTMLURL string
	Labels  []string
}

type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
}

// DependencyAlert is an open Dependabot alert projection.
type DependencyAlert struct {
	Package  string
	Severity string
	Summary  string
	URL      string
}

// prPayload is the wire shape shared by the pulls list and create endpoints.
type prPayload struct {
	ID      int64  `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
}

func (p prPayload) toPullRequest() PullRequest {
	return PullRequest{ID: p.ID, Number: p.Number, Title: p.Title, State: p.State, HTMLURL: p.HTMLURL}
}
