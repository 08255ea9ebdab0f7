package handler

import (
	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

func toArticleInput(req articleRequest) ports.ArticleInput {
	return ports.ArticleInput{Title: req.Title, Content: req.Content}
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		Author:      a.Author,
		PublishDate: a.PublishDate.UTC(),
	}
}

func toArticleResponses(items []*domain.Article) []articleResponse {
	out := make([]articleResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toArticleResponse(a))
	}
	return out
}
