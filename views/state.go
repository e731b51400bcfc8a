package views

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind enumerates the views the front-end can show.
type Kind int

const (
	LoggedOut Kind = iota
	PostList
	PostDetail
	NewPost
	EditPost
)

func (k Kind) String() string {
	switch k {
	case LoggedOut:
		return "LoggedOut"
	case PostList:
		return "PostList"
	case PostDetail:
		return "PostDetail"
	case NewPost:
		return "NewPost"
	case EditPost:
		return "EditPost"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// State is one view; PostID is set for PostDetail and EditPost.
type State struct {
	Kind   Kind
	PostID int64
}

func (s State) String() string {
	if s.Kind == PostDetail || s.Kind == EditPost {
		return fmt.Sprintf("%s(%d)", s.Kind, s.PostID)
	}
	return s.Kind.String()
}

// Path is the canonical front-end URL of the state.
func (s State) Path() string {
	id := strconv.FormatInt(s.PostID, 10)
	switch s.Kind {
	case PostList:
		return "/posts"
	case PostDetail:
		return "/posts/" + id
	case NewPost:
		return "/posts/new"
	case EditPost:
		return "/posts/" + id + "/edit"
	}
	return "/login"
}

// EventKind enumerates user actions and backend outcomes that move between views.
type EventKind int

const (
	LoginSucceeded EventKind = iota
	SelectPost
	CreateClicked
	UpdateClicked
	Back
	CommentAdded
	PostSaved
	Unauthorized
	LogoutRequested
)

// Event is an EventKind with its argument; only SelectPost carries a PostID.
type Event struct {
	Kind   EventKind
	PostID int64
}

// ErrInvalidTransition is returned for an event the current view does not handle.
var ErrInvalidTransition = errors.New("invalid view transition")

// Transition returns the view that follows from after ev.
func Transition(from State, ev Event) (State, error) {
	switch ev.Kind {
	case Unauthorized, LogoutRequested:
		return State{Kind: LoggedOut}, nil
	}

	switch from.Kind {
	case LoggedOut:
		if ev.Kind == LoginSucceeded {
			return State{Kind: PostList}, nil
		}
	case PostList:
		switch ev.Kind {
		case SelectPost:
			return State{Kind: PostDetail, PostID: ev.PostID}, nil
		case CreateClicked:
			return State{Kind: NewPost}, nil
		}
	case PostDetail:
		switch ev.Kind {
		case Back:
			return State{Kind: PostList}, nil
		case UpdateClicked:
			return State{Kind: EditPost, PostID: from.PostID}, nil
		case CommentAdded:
			return State{Kind: PostDetail, PostID: from.PostID}, nil
		}
	case NewPost, EditPost:
		switch ev.Kind {
		case Back, PostSaved:
			return State{Kind: PostList}, nil
		}
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev.Kind, from)
}

func (k EventKind) String() string {
	switch k {
	case LoginSucceeded:
		return "LoginSucceeded"
	case SelectPost:
		return "SelectPost"
	case CreateClicked:
		return "CreateClicked"
	case UpdateClicked:
		return "UpdateClicked"
	case Back:
		return "Back"
	case CommentAdded:
		return "CommentAdded"
	case PostSaved:
		return "PostSaved"
	case Unauthorized:
		return "Unauthorized"
	case LogoutRequested:
		return "LogoutRequested"
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}
