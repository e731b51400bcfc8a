// Package backendtest provides an in-memory stand-in for the blog REST backend, for tests.
package backendtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"

	"github.com/cppla/blogfront/models"
)

// Request is one request as seen by the fake backend.
type Request struct {
	Method        string
	Path          string
	Query         map[string][]string
	Body          string
	Authorization string
}

// Server mimics the json-server style backend: _expand, _embed and repeated id filters.
type hold struct {
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     []models.User
	passwords map[string]string
	tokens    map[string]int64
	posts     []models.Post
	comments  []models.Comment
	requests  []Request
	holds     map[string]*hold
	// FailWith forces every response to this status when non-zero.
	failWith int
}

// NewServer starts a fake backend. Close it with t.Cleanup(srv.Close).
func NewServer() *Server {
	s := &Server{
		passwords: map[string]string{},
		tokens:    map[string]int64{},
		holds:     map[string]*hold{},
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.record, s.failure, s.holdGate)
	r.POST("/users/login", s.login)
	r.GET("/users", s.listUsers)
	r.GET("/posts", s.authorized, s.listPosts)
	r.POST("/posts", s.authorized, s.createPost)
	r.GET("/posts/:id", s.authorized, s.getPost)
	r.PATCH("/posts/:id", s.authorized, s.updatePost)
	r.POST("/posts/:id/comments", s.authorized, s.createComment)
	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers a user with a password and returns it.
func (s *Server) AddUser(username, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: int64(len(s.users) + 1), Username: username}
	s.users = append(s.users, u)
	s.passwords[username] = password
	return u
}

// IssueToken returns a valid token for the user without going through login.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "token-" + strconv.FormatInt(userID, 10) + "-" + strconv.Itoa(len(s.tokens)+1)
	s.tokens[token] = userID
	return token
}

// RevokeTokens makes every issued token invalid, so authorized routes answer 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.tokens = map[string]int64{}
	s.mu.Unlock()
}

// FailWith makes every following response use status; 0 restores normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

// Hold parks every request to method and path until release is called or the
// caller gives up. entered receives when a request is parked.
func (s *Server) Hold(method, path string) (entered <-chan struct{}, release func()) {
	h := &hold{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	s.mu.Lock()
	s.holds[method+" "+path] = h
	s.mu.Unlock()
	return h.entered, func() { h.once.Do(func() { close(h.gate) }) }
}

// AddPost stores a post and returns it with its id.
func (s *Server) AddPost(userID int64, title, body string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Post{ID: int64(len(s.posts) + 1), Title: title, Body: body, UserID: userID}
	s.posts = append(s.posts, p)
	return p
}

// AddComment stores a comment and returns it with its id.
func (s *Server) AddComment(postID, userID int64, body string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Comment{ID: int64(len(s.comments) + 1), Body: body, PostID: postID, UserID: userID}
	s.comments = append(s.comments, c)
	return c
}

// SeedFake adds n users and one generated post per user.
func (s *Server) SeedFake(n int) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		u := s.AddUser(gofakeit.Username()+strconv.Itoa(i), gofakeit.Password(true, true, true, false, false, 12))
		posts = append(posts, s.AddPost(u.ID, gofakeit.Sentence(4), gofakeit.Paragraph(1, 2, 8, " ")))
	}
	return posts
}

// Posts returns a copy of the stored posts.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// Comments returns a copy of the stored comments.
func (s *Server) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comment(nil), s.comments...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo filters Requests by method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Query:         c.Request.URL.Query(),
		Body:          string(body),
		Authorization: c.GetHeader("Authorization"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) failure(c *gin.Context) {
	s.mu.Lock()
	status := s.failWith
	s.mu.Unlock()
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Server) holdGate(c *gin.Context) {
	s.mu.Lock()
	h := s.holds[c.Request.Method+" "+c.Request.URL.Path]
	s.mu.Unlock()
	if h == nil {
		c.Next()
		return
	}
	select {
	case h.entered <- struct{}{}:
	default:
	}
	select {
	case <-h.gate:
		c.Next()
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

func (s *Server) authorized(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	userID, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	c.Set("user_id", userID)
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	pw, ok := s.passwords[req.Username]
	var userID int64
	for _, u := range s.users {
		if u.Username == req.Username {
			userID = u.ID
		}
	}
	s.mu.Unlock()
	if !ok || pw != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: s.IssueToken(userID)})
}

func (s *Server) listUsers(c *gin.Context) {
	ids := c.QueryArray("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, u := range s.users {
		if len(ids) == 0 || contains(ids, strconv.FormatInt(u.ID, 10)) {
			out = append(out, u)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listPosts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.joinLocked(p, c.Query("_expand") == "user", false))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getPost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.postIndexLocked(c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.joinLocked(s.posts[idx], c.Query("_expand") == "user", c.Query("_embed") == "comments"))
}

func (s *Server) createPost(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	p := s.AddPost(c.GetInt64("user_id"), in.Title, in.Body)
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePost(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.postIndexLocked(c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	s.posts[idx].Title = in.Title
	s.posts[idx].Body = in.Body
	c.JSON(http.StatusOK, s.posts[idx])
}

func (s *Server) createComment(c *gin.Context) {
	var in models.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	idx := s.postIndexLocked(c.Param("id"))
	s.mu.Unlock()
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	postID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	c.JSON(http.StatusCreated, s.AddComment(postID, c.GetInt64("user_id"), in.Body))
}

func (s *Server) postIndexLocked(raw string) int {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return -1
	}
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) joinLocked(p models.Post, expand, embed bool) models.Post {
	if expand {
		for i := range s.users {
			if s.users[i].ID == p.UserID {
				u := s.users[i]
				p.User = &u
			}
		}
	}
	if embed {
		p.Comments = []models.Comment{}
		for _, cm := range s.comments {
			if cm.PostID == p.ID {
				p.Comments = append(p.Comments, cm)
			}
		}
	}
	return p
}

func contains(list []string, v string) bool {
	for _, it := range list {
		if it == v {
			return true
		}
	}
	return false
}
