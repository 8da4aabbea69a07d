package task

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// GithubBranch はリポジトリ概要内のブランチ情報。
type GithubBranch struct {
	Name          string `json:"name"`
	LastCommitSha string `json:"lastCommitSha"`
}

// GithubPull はリポジトリ概要内のプルリクエスト情報。
type GithubPull struct {
	Title      string `json:"title"`
	PullNumber int    `json:"pullNumber"`
}

// GithubIssue はリポジトリ概要内のイシュー情報。
type GithubIssue struct {
	Title       string `json:"title"`
	IssueNumber int    `json:"issueNumber"`
}

// GithubCommit はリポジトリ概要内のコミット情報。
type GithubCommit struct {
	Sha     string `json:"sha"`
	Message string `json:"message"`
}

// GithubRepositoryInfo はリポジトリ概要のレスポンスペイロード。
type GithubRepositoryInfo struct {
	RepositoryID string         `json:"repositoryId"`
	Branches     []GithubBranch `json:"branches"`
	Pulls        []GithubPull   `json:"pulls"`
	Issues       []GithubIssue  `json:"issues"`
	Commits      []GithubCommit `json:"commits"`
}

// GithubRepositoryInfo は指定リポジトリの概要を返す。
// 外部API連携は未接続のため、リクエストごとに生成した代表値を返す。
func (s *Service) GithubRepositoryInfo(repositoryID string) *GithubRepositoryInfo {
	return &GithubRepositoryInfo{
		RepositoryID: repositoryID,
		Branches: []GithubBranch{
			{Name: "main", LastCommitSha: uuid.New().String()},
			{Name: "dev", LastCommitSha: uuid.New().String()},
		},
		Pulls: []GithubPull{
			{Title: "Fix bug", PullNumber: rand.IntN(1000)},
			{Title: "Add feature", PullNumber: rand.IntN(1000)},
		},
		Issues: []GithubIssue{
			{Title: "Issue 1", IssueNumber: rand.IntN(1000)},
			{Title: "Issue 2", IssueNumber: rand.IntN(1000)},
		},
		Commits: []GithubCommit{
			{Sha: uuid.New().String(), Message: "Initial commit"},
			{Sha: uuid.New().String(), Message: "Update README"},
		},
	}
}
