package trip

import (
	"errors"
	"net/http"

	"github.com/Motolog/Motolog/internal/common/validation"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载行程相关路由。
func RegisterRoutes(r gin.IRouter, svc *Service) {
	g := r.Group("/api/trip")
	g.GET("", listHandler(svc))
	g.GET("/:id", getHandler(svc))
	g.POST("", createHandler(svc))
	g.PUT("/:id", updateHandler(svc))
	g.DELETE("/:id", deleteHandler(svc))
	g.POST("/:id/share", shareHandler(svc))
	g.POST("/:id/unshare", unshareHandler(svc))
}

func listHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId parameter"})
			return
		}
		trips, err := svc.ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
	}
}

func getHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func createHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		t, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func updateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		t, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func deleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
	}
}

type shareRequest struct {
	UserID string `json:"userId"`
}

func shareHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req shareRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
			return
		}
		t, err := svc.Share(c.Request.Context(), c.Param("id"), req.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func unshareHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req shareRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
			return
		}
		t, err := svc.Unshare(c.Request.Context(), c.Param("id"), req.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func writeError(c *gin.Context, err error) {
	if verr, ok := validation.AsError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
