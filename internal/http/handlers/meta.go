package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

const WelcomeText = "Welcome to the MongoDB-powered Serverless API!"

type MetaHandler struct {
	routes func() gin.RoutesInfo
}

// routes is usually engine.Routes; it is read on every request so routes added
// after construction still show up.
func NewMetaHandler(routes func() gin.RoutesInfo) *MetaHandler {
	return &MetaHandler{routes: routes}
}

func (h *MetaHandler) Home(ctx *gin.Context) {
	ctx.String(http.StatusOK, WelcomeText)
}

func (h *MetaHandler) ListRoutes(ctx *gin.Context) {
	infos := h.routes()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})

	out := make([]string, 0, len(infos))
	for _, ri := range infos {
		out = append(out, fmt.Sprintf("%s -> %s (%s)", ri.Path, handlerName(ri.Handler), ri.Method))
	}

	ctx.JSON(http.StatusOK, gin.H{"routes": out})
}

// handlerName turns "github.com/x/y/handlers.(*UsersHandler).GetUser-fm" into
// "UsersHandler.GetUser".
func handlerName(full string) string {
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSuffix(name, "-fm")
	name = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(name)

	return name
}
