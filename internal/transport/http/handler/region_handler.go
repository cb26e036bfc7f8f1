package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/service"
	httpez "geo-region-api/internal/transport/http/ez"
)

type RegionHandler struct{ svc RegionService }

func NewRegionHandler(svc RegionService) *RegionHandler { return &RegionHandler{svc: svc} }

// MountAPI registers /regions routes.
func (h *RegionHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/regions"))

	httpez.RegisterAction(ez, httpez.Action[pointQuery, domain.Page[domain.Region]]{
		Method: http.MethodGet,
		Path:   "/containing-point",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pointQuery) domain.Result[domain.Page[domain.Region]] {
			return h.svc.ByPoint(c.Request.Context(), service.PointQuery{
				Lat: in.Lat, Lng: in.Lng, Pagination: in.pagination(),
			})
		},
	})
	httpez.RegisterAction(ez, httpez.Action[distanceQuery, domain.Page[domain.Region]]{
		Method: http.MethodGet,
		Path:   "/within-distance",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *distanceQuery) domain.Result[domain.Page[domain.Region]] {
			return h.svc.ByDistance(c.Request.Context(), service.DistanceQuery{
				Lat: in.Lat, Lng: in.Lng, Distance: in.Distance, Pagination: in.pagination(),
			})
		},
	})

	httpez.RegisterAction(ez, httpez.Action[createRegionReq, domain.Region]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createRegionReq) domain.Result[domain.Region] {
			return h.svc.Create(c.Request.Context(), in.toDomain())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[pageQuery, domain.Page[domain.Region]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) domain.Result[domain.Page[domain.Region]] {
			return h.svc.List(c.Request.Context(), in.pagination())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.Region]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) domain.Result[domain.Region] {
			return h.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})
	httpez.RegisterAction(ez, httpez.Action[updateRegionReq, domain.Region]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateRegionReq) domain.Result[domain.Region] {
			return h.svc.Update(c.Request.Context(), c.Param("id"), in.toDomain())
		},
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, service.Deleted]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Message: "Region deleted with success",
		Handler: func(c *gin.Context, _ *struct{}) domain.Result[service.Deleted] {
			return h.svc.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
