package main

import (
	"turret-console/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/channels", h.Dashboard)
			dashboard.GET("/stats", h.DashboardStats)
			dashboard.GET("/messages", h.Messages)
			dashboard.DELETE("/messages", h.ClearMessages)
			dashboard.POST("/refresh", h.RequestRefresh)
		}

		turrets := v1.Group("/turrets")
		{
			turrets.GET("", h.ListTurrets)
			turrets.GET("/active", h.ListActiveTurrets)
			turrets.POST("", h.CreateTurret)
			turrets.PUT("/:id", h.UpdateTurret)
			turrets.DELETE("/:id", h.DeleteTurret)
		}

		devices := v1.Group("/devices")
		{
			devices.GET("", h.ListDevices)
			devices.POST("", h.CreateDevice)
			devices.POST("/upload", h.UploadDevices)
			devices.PUT("/:id", h.UpdateDevice)
			devices.DELETE("/:id", h.DeleteDevice)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/call-audit", h.CallAuditReport)
			reports.GET("/ip-phone-audit", h.IPPhoneAuditReport)
			reports.GET("/ip-phone-disconnect", h.IPPhoneDisconnectReport)
			reports.GET("/turret-disconnect", h.TurretDisconnectReport)
		}
	}
}
