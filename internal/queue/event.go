// Package queue defines the events exchanged over the message broker and the
// RabbitMQ publisher and consumer that move them.
package queue

// SignupQueueName is the durable queue carrying UserRegisteredEvent messages.
const SignupQueueName = "user.registered"

// UserRegisteredEvent is published after a successful signup.  It carries
// enough information for downstream consumers to audit or greet the user
// without calling back into the API.  It never contains the password hash.
type UserRegisteredEvent struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}
