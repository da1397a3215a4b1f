package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"NewsChecker/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

type brokenLinkView struct {
	ID        int64  `json:"id"`
	ArticleID int64  `json:"article_id"`
	URL       string `json:"url"`
	Fixed     bool   `json:"fixed"`
}

func toView(link domain.BrokenLink) brokenLinkView {
	return brokenLinkView{ID: link.ID, ArticleID: link.ArticleID, URL: link.URL, Fixed: link.Fixed}
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func (h *handlers) health(c *gin.Context) {
	running := h.deps.Trigger != nil && h.deps.Trigger.Running()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "parse_running": running})
}

func (h *handlers) parse(c *gin.Context) {
	if h.deps.Trigger == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody("parser is not configured"))
		return
	}
	if !h.deps.Trigger.Trigger(h.deps.RunContext) {
		c.JSON(http.StatusConflict, gin.H{"status": "already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func (h *handlers) listBrokenLinks(c *gin.Context) {
	includeFixed, err := strconv.ParseBool(c.DefaultQuery("all", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("all must be a boolean"))
		return
	}

	links, err := h.deps.BrokenLinks.ListBrokenLinks(c.Request.Context(), includeFixed)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody("list broken links failed"))
		return
	}

	items := make([]brokenLinkView, 0, len(links))
	for _, link := range links {
		items = append(items, toView(link))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *handlers) markFixed(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	ctx := c.Request.Context()
	link, err := h.deps.BrokenLinks.GetBrokenLink(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody("broken link not found"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody("load broken link failed"))
		return
	}

	if !link.Fixed {
		link.Fixed = true
		if err := h.deps.BrokenLinks.SaveBrokenLink(ctx, link); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, errorBody("save broken link failed"))
			return
		}
		h.logger.Info("broken link marked fixed", "broken_link_id", link.ID, "url", link.URL)
	}

	c.JSON(http.StatusOK, toView(link))
}
