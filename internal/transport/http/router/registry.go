package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Modules implement any of these to be mounted on the matching group.
type (
	APIModule         interface{ MountAPI(*gin.RouterGroup) }
	AdminModule       interface{ MountAdmin(*gin.RouterGroup) }
	AdminPublicModule interface{ MountPublic(*gin.RouterGroup) }
)

// Implementing prioritizer controls mount order, lower first. Default 100.
type prioritizer interface{ Priority() int }

// Registry collects modules for one process. It is not safe for
// concurrent Register calls; build it before the engines.
type Registry struct {
	api    []APIModule
	admin  []AdminModule
	public []AdminPublicModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	r.Register(mods...)
	return r
}

// Register dispatches each module by the interfaces it implements.
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
		if m, ok := mod.(AdminPublicModule); ok {
			r.public = append(r.public, m)
		}
	}
}

func (r *Registry) MountAllAPI(g *gin.RouterGroup) {
	for _, m := range sorted(r.api) {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAllAdmin(g *gin.RouterGroup) {
	for _, m := range sorted(r.admin) {
		m.MountAdmin(g)
	}
}

func (r *Registry) MountAllPublic(g *gin.RouterGroup) {
	for _, m := range sorted(r.public) {
		m.MountPublic(g)
	}
}

func sorted[M any](mods []M) []M {
	out := append([]M(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
