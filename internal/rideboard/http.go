package rideboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Motolog/Motolog/internal/common/validation"
)

// RegisterRoutes 挂载共享板路由。
func RegisterRoutes(r gin.IRouter, svc *Service) {
	g := r.Group("/api/rideboard")
	g.GET("", feedHandler(svc))
	g.POST("/:id/like", toggleHandler(svc, KindLike))
	g.POST("/:id/save", toggleHandler(svc, KindSave))
	g.POST("/:id/join", toggleHandler(svc, KindJoin))
	g.POST("/:id/comment", addCommentHandler(svc))
	g.DELETE("/:id/comment/:commentId", deleteCommentHandler(svc))
}

func feedHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
		viewerID := c.Query("userId")

		feed, err := svc.Feed(c.Request.Context(), viewerID, page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, feed)
	}
}

type toggleRequest struct {
	UserID string `json:"userId"`
}

func toggleHandler(svc *Service, kind ReactionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		res, err := svc.Toggle(c.Request.Context(), c.Param("id"), req.UserID, kind)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func addCommentHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CommentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		comment, err := svc.AddComment(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

func deleteCommentHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId parameter"})
			return
		}
		err := svc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
	}
}

func writeError(c *gin.Context, err error) {
	if verr, ok := validation.AsError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not on rideboard"})
	case errors.Is(err, ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
