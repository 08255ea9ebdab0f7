package handler

import "time"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type articleRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type listArticlesQuery struct {
	Title string `query:"title"`
	Page  int    `query:"page"  validate:"gte=0"`
	Limit int    `query:"limit" validate:"gte=0"`
}

// articleResponse is owned by the transport layer so the JSON contract does
// not follow internal changes to domain.Article.
type articleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishDate time.Time `json:"publish_date"`
}
