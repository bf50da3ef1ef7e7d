package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/guard"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

// Pages rendered inside layout.html
const (
	pageLogin   = "login.html"
	pageTable   = "table.html"
	pageForm    = "form.html"
	pageConfirm = "confirm.html"
	pageHome    = "home.html"
	pageDetail  = "detail.html"
)

type templates map[string]*template.Template

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"contains": contains,
	"join":     strings.Join,
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// parseTemplates pairs every page with the shared layout and form inputs
func parseTemplates() (templates, error) {
	fsys := TemplateFilesFS()
	out := make(templates)
	for _, page := range []string{pageLogin, pageTable, pageForm, pageConfirm, pageHome, pageDetail} {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys, "layout.html", "fields.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

// pageData is what layout.html renders around a page body
type pageData struct {
	AppName string
	Title   string
	Menu    []guard.MenuItem
	Path    string
	Message string // dismissible error notification
	Notice  string // dismissible success notification
	Body    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	t, ok := s.templates[page]
	if !ok {
		log.Ctx(r.Context()).Error().Str("page", page).Msg("Unknown template")
		http.Error(w, apiclient.GenericMessage, http.StatusInternalServerError)
		return
	}

	data.AppName = s.config.GetAppName()
	data.Path = r.URL.Path
	if c := consoleFrom(r.Context()); c != nil && c.guard.IsAuthenticated() {
		data.Menu = c.guard.VisibleMenu(guard.Menu)
	}
	if data.Notice == "" {
		data.Notice = r.URL.Query().Get("notice")
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Ctx(r.Context()).Err(err).Str("page", page).Msg("Failed to render template")
		http.Error(w, apiclient.GenericMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
