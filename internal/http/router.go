package httpx

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/rahulwaghole14/mandap/internal/http/handlers"
	"github.com/rahulwaghole14/mandap/internal/http/middleware"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandlers
	Directory *handlers.DirectoryHandlers
	Contacts  *handlers.ContactHandlers
	Policies  *handlers.PolicyHandlers
}

func BuildRouter(h Handlers, authmw *middleware.AuthMW, cb *middleware.CasbinMW, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if logger != nil {
		r.Use(middleware.RequestLogger(logger))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	v := api.Group("/").Use(authmw.WithSession(), cb.Enforce())
	v.GET("/auth/me", h.Auth.Me)
	v.POST("/auth/logout", h.Auth.Logout)

	v.GET("/filters", h.Directory.Filters)
	v.GET("/companies", h.Directory.List)
	v.POST("/companies", h.Directory.Register)
	v.GET("/companies/:id/edit", h.Directory.EditForm)
	v.PUT("/companies/:id", h.Directory.Update)
	v.DELETE("/companies/:id", h.Directory.Delete)

	v.GET("/contacts", h.Contacts.List)
	v.POST("/contacts/selection/toggle", h.Contacts.Toggle)
	v.POST("/contacts/selection/all", h.Contacts.ToggleAll)
	v.POST("/contacts/send", h.Contacts.Send)

	adm := api.Group("/admin").Use(authmw.WithSession(), cb.Enforce())
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
