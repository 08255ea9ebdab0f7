package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/article-cms/internal/api/metrics"
	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderTotalCount     = "X-Total-Count"
)

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List handles GET /articles.
//
// @Summary      List articles
// @Description  Newest first. Without limit every match is returned; the total is in X-Total-Count.
// @Tags         articles
// @Produce      json
// @Param        title  query     string  false  "Case-insensitive title substring"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {array}   articleResponse
// @Header       200    {integer} X-Total-Count  "Total matching articles"
// @Failure      400    {object}  errorResponse
// @Router       /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	var q listArticlesQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	result, err := h.service.ListArticles(c.Request().Context(), ports.ListArticlesInput{
		Title: q.Title,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(result.Total, 10))
	return c.JSON(http.StatusOK, toArticleResponses(result.Items))
}

// Get handles GET /articles/:id.
//
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  articleResponse
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	article, err := h.service.GetArticle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Create handles POST /articles. The caller becomes the author.
//
// @Summary      Create an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays return the original article with 200"
// @Param        body             body      articleRequest  true   "Title and content"
// @Success      201              {object}  articleResponse
// @Success      200              {object}  articleResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	result, err := h.service.CreateArticle(c.Request().Context(), caller, toArticleInput(req), key)
	if err != nil {
		metrics.ArticleMutationsTotal.WithLabelValues("create", mutationResult(err)).Inc()
		return err
	}

	if result.AlreadyExisted {
		metrics.ArticleMutationsTotal.WithLabelValues("create", "replay").Inc()
		return c.JSON(http.StatusOK, toArticleResponse(result.Article))
	}

	metrics.ArticleMutationsTotal.WithLabelValues("create", "ok").Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/articles/"+result.Article.ID)
	return c.JSON(http.StatusCreated, toArticleResponse(result.Article))
}

// Update handles PUT /articles/:id. Only the author or an admin may update.
//
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Article id"
// @Param        body  body      articleRequest  true  "Title and content"
// @Success      200   {object}  articleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article, err := h.service.UpdateArticle(c.Request().Context(), caller, c.Param("id"), toArticleInput(req))
	if err != nil {
		metrics.ArticleMutationsTotal.WithLabelValues("update", mutationResult(err)).Inc()
		return err
	}

	metrics.ArticleMutationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Delete handles DELETE /articles/:id. Only the author or an admin may delete.
//
// @Summary      Delete an article
// @Tags         articles
// @Security     BearerAuth
// @Param        id   path  string  true  "Article id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteArticle(c.Request().Context(), caller, c.Param("id")); err != nil {
		metrics.ArticleMutationsTotal.WithLabelValues("delete", mutationResult(err)).Inc()
		return err
	}

	metrics.ArticleMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.NoContent(http.StatusNoContent)
}

func mutationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrArticleNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrIdempotencyInProgress):
		return "conflict"
	default:
		return "error"
	}
}
