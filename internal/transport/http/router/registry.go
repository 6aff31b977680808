package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// A module implements either or both interfaces.
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules may implement prioritizer; lower mounts first, default 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register files mod under the API list, the admin list or both.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.apiMods = append(r.apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.adminMods = append(r.adminMods, m)
	}
}

func (r *Registry) MountAPI(api *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func (r *Registry) MountAdmin(admin *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
