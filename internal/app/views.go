package app

import (
	"embed"
	"html/template"

	"github.com/JaimeStill/topk/pkg/formatting"
	"github.com/JaimeStill/topk/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app.html"

var (
	indexView    = web.ViewDef{Route: "/", Template: "index.html"}
	notFoundView = web.ViewDef{Route: "/404", Template: "not-found.html", Title: "Not Found"}
)

var funcs = template.FuncMap{
	"bytes": func(n int64) string { return formatting.FormatBytes(n, 1) },
}

func newTemplateSet(basePath string) (*web.TemplateSet, error) {
	return web.NewTemplateSet(
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		basePath,
		funcs,
		[]web.ViewDef{indexView, notFoundView},
	)
}
