package models

import "time"

type User struct {
	ID         int64
	Email      string
	Phone      string
	Username   string
	PassHash   []byte
	IsVerified bool
}

// PublicUser is the only user projection returned to clients.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ToName    string    `json:"to_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is an outgoing email, also the payload of the mail queue.
type Message struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
