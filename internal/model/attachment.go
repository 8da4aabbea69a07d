// Package model はドメインモデルを定義する。
package model

import "time"

// AttachmentType はGitHub添付の種別を表す。
type AttachmentType string

const (
	// AttachmentTypePullRequest はプルリクエストへの参照。
	AttachmentTypePullRequest AttachmentType = "pull_request"
	// AttachmentTypeCommit はコミットへの参照。
	AttachmentTypeCommit AttachmentType = "commit"
	// AttachmentTypeIssue はIssueへの参照。
	AttachmentTypeIssue AttachmentType = "issue"
)

// ValidAttachmentType は添付種別として有効な値かどうかを返す。
func ValidAttachmentType(t string) bool {
	switch AttachmentType(t) {
	case AttachmentTypePullRequest, AttachmentTypeCommit, AttachmentTypeIssue:
		return true
	}
	return false
}

// GithubAttachment はタスクに紐付く外部リポジトリ成果物への参照を表す。
// commit種別はShaを、pull_request/issue種別はNumberを必須とする。
type GithubAttachment struct {
	ID         string
	TaskID     string
	CardID     string
	BoardID    string
	Type       AttachmentType
	Number     int    // pull_request/issueの番号。commitでは0
	Sha        string // commitのSHA。それ以外では空
	AttachedBy string
	AttachedAt time.Time
}
