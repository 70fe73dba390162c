package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var templates = mustParseTemplates()

var funcMap = template.FuncMap{
	"fmtDay": func(t time.Time) string {
		return t.Format("Monday, January 2, 2006")
	},
	"fmtShortDate": func(t time.Time) string {
		return t.Format("Jan 2")
	},
	"fmtDateParam": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"fmtMinutes": func(minutes float64) string {
		return fmt.Sprintf("%.1f minutes", minutes)
	},
	"fmtDuration": func(minutes int) string {
		if minutes < 60 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	},
}

func mustParseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	base := template.Must(template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html"))

	sets := make(map[string]*template.Template)
	for _, file := range files {
		if file == "templates/base.html" {
			continue
		}

		set := template.Must(base.Clone())
		template.Must(set.ParseFS(templateFS, file))
		sets[file[len("templates/"):]] = set
	}

	return sets
}
