// Package api exposes the link suggester over HTTP: an HTML form for
// people and a JSON endpoint for tools.
package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// RegisterRoutes installs the UI, API and metrics routes on router.
func RegisterRoutes(router *gin.Engine, handler *LinkHandler, metrics http.Handler) {
	router.SetHTMLTemplate(Templates())

	router.GET("/", handler.Index)
	router.POST("/", handler.Submit)

	v1 := router.Group("/api/v1")
	v1.POST("/links", handler.SuggestLinks)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
