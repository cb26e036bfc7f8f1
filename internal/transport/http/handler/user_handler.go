package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/service"
	httpez "geo-region-api/internal/transport/http/ez"
)

type UserHandler struct{ svc UserService }

func NewUserHandler(svc UserService) *UserHandler { return &UserHandler{svc: svc} }

// MountAPI registers /users routes.
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/users"))

	httpez.RegisterAction(ez, httpez.Action[createUserReq, domain.User]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createUserReq) domain.Result[domain.User] {
			return h.svc.Create(c.Request.Context(), in.toDomain())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[pageQuery, domain.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) domain.Result[domain.Page[domain.User]] {
			return h.svc.List(c.Request.Context(), in.pagination())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) domain.Result[domain.User] {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[updateUserReq, domain.User]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateUserReq) domain.Result[domain.User] {
			return h.svc.Update(c.Request.Context(), c.Param("id"), in.toDomain())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, service.Deleted]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Message: "User deleted with success",
		Handler: func(c *gin.Context, _ *struct{}) domain.Result[service.Deleted] {
			return h.svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
