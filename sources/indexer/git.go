package indexer

import (
	"github.com/go-git/go-git/v5"

	"jiraiya/sources/tracing"
)

// HeadCommit returns the current HEAD hash of the repository at path, or an
// empty string when the path is not a git work tree.
func HeadCommit(log *tracing.Logger, path string) string {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.D("Not a git repository", tracing.Repo, path)
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		log.D("Failed to read git HEAD", tracing.Repo, path, tracing.InnerError, err.Error())
		return ""
	}

	return head.Hash().String()
}
