package appstate

import (
	"fmt"
	"strings"
)

// Permalink returns the chat permalink of a post within a team.
func Permalink(siteURL string, team *Team, postID string) string {
	base := strings.TrimSuffix(siteURL, "/")
	if team == nil || team.Name == "" {
		return fmt.Sprintf("%s/_redirect/pl/%s", base, postID)
	}
	return fmt.Sprintf("%s/%s/pl/%s", base, team.Name, postID)
}

// CommentBody returns the issue comment recorded for a post attached by
// username.
func CommentBody(username, permalink string, post *Post) string {
	if post == nil {
		return ""
	}
	return fmt.Sprintf("*@%s attached a* [message|%s] *from @%s*\n",
		username, permalink, post.Username) + post.Message
}

// ThreadRoot returns the root of the thread a post belongs to. A post that
// is not a reply is its own root.
func ThreadRoot(post *Post) string {
	if post == nil {
		return ""
	}
	if post.ParentID != "" && post.RootID != "" {
		return post.RootID
	}
	return post.ID
}
