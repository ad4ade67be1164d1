package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Hospital *HospitalHandler
	Detail   *HospitalDetailHandler
	API      *APIHandler
	Validate *ValidateHandler
	SSE      *SSEHandler
}

// SetupRoutes registers every console route. sessionMw resolves the cookie
// and requireMw guards pages that need a signed-in user.
func SetupRoutes(r *gin.Engine, h *Handlers, sessionMw, requireMw gin.HandlerFunc) {
	r.GET("/health", h.Health.GetHealth)

	r.Use(sessionMw)

	r.GET("/", h.Auth.LoginPage)
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)
	r.POST("/console/validate/:form", h.Validate.Validate)

	pages := r.Group("/superadmin", requireMw)
	{
		pages.GET("", h.Hospital.List)
		pages.GET("/hospitals.csv", h.Hospital.Export)
		pages.POST("/hospitals/:id/edit", h.Hospital.Edit)
		pages.POST("/hospitals/:id/enable", h.Hospital.Enable)
		pages.POST("/hospitals/:id/disable", h.Hospital.Disable)
		pages.GET("/addhospitalbranch", h.Hospital.AddPage)
		pages.POST("/addhospitalbranch", h.Hospital.Add)

		detail := pages.Group("/hospitalbranch/:hospitalid")
		detail.GET("", h.Detail.Show)
		detail.GET("/branches.csv", h.Detail.ExportBranches)
		detail.GET("/superadmins.csv", h.Detail.ExportSuperAdmins)
		detail.POST("/superadmins", h.Detail.AddSuperAdmin)
		detail.POST("/superadmins/:id/edit", h.Detail.EditSuperAdmin)
		detail.POST("/superadmins/:id/resetpassword", h.Detail.ResetPassword)
		detail.POST("/superadmins/:id/enable", h.Detail.EnableSuperAdmin)
		detail.POST("/superadmins/:id/disable", h.Detail.DisableSuperAdmin)
	}

	api := r.Group("/console", requireMw)
	{
		api.GET("/events", h.SSE.Stream)
		api.GET("/api/profile", h.API.Profile)
		api.GET("/api/hospitals", h.API.Hospitals)
		api.GET("/api/hospitals/:hospitalid/branches", h.API.Branches)
		api.GET("/api/hospitals/:hospitalid/superadmins", h.API.SuperAdmins)
		api.GET("/api/audit", h.API.Audit)
	}
}
