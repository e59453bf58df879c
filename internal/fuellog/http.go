package fuellog

import (
	"errors"
	"net/http"

	"github.com/Motolog/Motolog/internal/common/validation"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载加油记录相关路由。
func RegisterRoutes(r gin.IRouter, svc *Service) {
	g := r.Group("/api/fuel")
	g.POST("", createHandler(svc))
	g.GET("/:vehicleId", listByVehicleHandler(svc))
	g.GET("/log/:id", getHandler(svc))
	g.PUT("/log/:id", updateHandler(svc))
	g.DELETE("/log/:id", deleteHandler(svc))
}

func createHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		log, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, log)
	}
}

func listByVehicleHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := svc.ListByVehicle(c.Request.Context(), c.Query("userId"), c.Param("vehicleId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

func getHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		log, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, log)
	}
}

func updateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		log, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, log)
	}
}

func deleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "fuel log deleted"})
	}
}

func writeError(c *gin.Context, err error) {
	if verr, ok := validation.AsError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "fuel log not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
