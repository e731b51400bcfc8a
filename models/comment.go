package models

// Comment represents a reply to a post.
type Comment struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	PostID int64  `json:"postId"`
	UserID int64  `json:"userId"`
}

// CommentInput is the write payload for adding a comment under a post.
type CommentInput struct {
	Body string `json:"body"`
}

// CommentAuthorIDs returns one id per comment, in comment order. Repeated authors stay repeated.
func CommentAuthorIDs(comments []Comment) []int64 {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	return ids
}
