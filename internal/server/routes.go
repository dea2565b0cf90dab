package server

import "github.com/gin-gonic/gin"

// SetupRoutes registers the guide API under r.
func SetupRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/tabs", h.ListTabs)
	r.GET("/tabs/:tab/columns", h.ListColumns)
	r.GET("/tabs/:tab/days/:day", h.GetDay)
	r.GET("/programs/:id", h.GetProgram)
}
