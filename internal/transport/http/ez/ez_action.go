// Package ez registers typed actions on a gin group: bind, validate, call,
// then write the result envelope.
package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	resp "geo-region-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group() *gin.RouterGroup { return e.g }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// Validator is run after binding; a failure is reported as VALIDATION_ERROR.
type Validator interface{ Validate() error }

// Action describes one endpoint. I is the bound input, O the result data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Status is the success status, 200 when zero.
	Status int
	// Message replaces the success body with {"message": Message}.
	Message string
	Handler func(c *gin.Context, in *I) domain.Result[O]
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	}
	return nil
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			resp.Abort(c, domain.CodeValidation, err.Error())
			return
		}
		if v, ok := any(&in).(Validator); ok {
			if err := v.Validate(); err != nil {
				resp.Abort(c, domain.CodeValidation, err.Error())
				return
			}
		}

		r := a.Handler(c, &in)
		if r.Success && a.Message != "" {
			resp.Message(c, a.Message)
			return
		}
		resp.Write(c, a.Status, r)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
