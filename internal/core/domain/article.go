package domain

import (
	"errors"
	"time"
)

var ErrArticleNotFound = errors.New("article not found")
var ErrForbidden = errors.New("access forbidden")
var ErrIdempotencyInProgress = errors.New("a request with this idempotency key is in progress")

// Article is a short piece of content. Author and PublishDate are fixed at
// creation; only Title and Content change afterwards.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishDate time.Time `json:"publish_date"`
}
