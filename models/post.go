package models

// Post is a blog post as returned by the backend.
// User is set when the post is requested with _expand=user, Comments with _embed=comments.
type Post struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	UserID   int64     `json:"userId"`
	User     *User     `json:"user,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}

// AuthorName returns the expanded author's username, or "" when the post was fetched without it.
func (p Post) AuthorName() string {
	if p.User == nil {
		return ""
	}
	return p.User.Username
}

// PostInput is the write payload for creating or editing a post.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
