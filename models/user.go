package models

// User is the public projection of a backend account. Passwords never reach the front-end.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginRequest is the credential payload sent to the backend login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by the backend.
type LoginResponse struct {
	Token string `json:"token"`
}

// FindUser returns the first user with the given id.
func FindUser(users []User, id int64) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
