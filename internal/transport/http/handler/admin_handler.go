package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/service"
	httpez "geo-region-api/internal/transport/http/ez"
)

type AdminHandler struct{ svc AdminService }

func NewAdminHandler(svc AdminService) *AdminHandler { return &AdminHandler{svc: svc} }

// MountPublic registers the login route, which sits outside the JWT group.
func (h *AdminHandler) MountPublic(g *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(g), httpez.Action[loginReq, service.Token]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginReq) domain.Result[service.Token] {
			return h.svc.Login(c.Request.Context(), in.Username, in.Password)
		},
	})
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)
	httpez.RegisterAction(ez, httpez.Action[searchQuery, domain.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchQuery) domain.Result[domain.Page[domain.User]] {
			return h.svc.SearchUsers(c.Request.Context(), in.Q, in.pagination())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[pageQuery, domain.Page[domain.Region]]{
		Method: http.MethodGet,
		Path:   "/regions/orphans",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) domain.Result[domain.Page[domain.Region]] {
			return h.svc.OrphanRegions(c.Request.Context(), in.pagination())
		},
	})
}
