package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/StaeyKay/blog-api/internal/core/ports"
)

type ArticleHandler struct {
	articles ports.ArticleService
}

func NewArticleHandler(articles ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

func (h *ArticleHandler) Add(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Add(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, articleResponse{Message: "An article has been added successfully", Article: article})
}

// List returns the caller's own articles.
func (h *ArticleHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	articles, err := h.articles.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func (h *ArticleHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Update(c.Request().Context(), user.ID, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articleResponse{Message: "Article updated successfully", Article: article})
}

func (h *ArticleHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Article deleted successfully"})
}

func (r articleRequest) toInput() ports.ArticleInput {
	return ports.ArticleInput{
		Title:    r.Title,
		Content:  r.Content,
		Author:   r.Author,
		Category: r.Category,
		Date:     r.Date,
		ReadTime: r.ReadTime,
		Image:    r.Image,
	}
}
