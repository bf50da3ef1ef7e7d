package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/rs/zerolog/log"
)

// minListRows is how many rows a repeated input group offers
const minListRows = 3

type tableRow struct {
	ID    int64
	Cells []string
	Links []link
}

type tableView struct {
	Title     string
	Columns   []column
	Rows      []tableRow
	Count     int
	Page      int
	Pages     int
	Search    string
	PrevURL   string
	NextURL   string
	CreateURL string
}

type fieldView struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Values  []string
	Options []option
	Error   string
}

type formView struct {
	Title  string
	Action string
	Submit string
	Cancel string
	Fields []fieldView
}

type confirmView struct {
	Title  string
	Text   string
	Action string
	Cancel string
}

// mountResource registers the list, create, edit and delete pages of view
// under base. itemParam names the URL parameter carrying the item ID.
func (s *Server) mountResource(r chi.Router, base string, view resourceView, itemParam string) {
	item := base + "/{" + itemParam + "}"

	r.Get(base, s.ListHandler(view))
	r.Group(func(r chi.Router) {
		if view.Manage != nil {
			r.Use(s.RequireRoles(view.Manage))
		}
		if !view.NoCreate {
			r.Get(base+actionCreate, s.CreateFormHandler(view))
			r.Post(base+actionCreate, s.CreateSubmitHandler(view))
		}
		r.Get(item+actionEdit, s.EditFormHandler(view, itemParam))
		r.Post(item+actionEdit, s.EditSubmitHandler(view, itemParam))
		r.Get(item+actionDelete, s.DeleteConfirmHandler(view, itemParam))
		r.Post(item+actionDelete, s.DeleteHandler(view, itemParam))
	})
}

func (s *Server) ListHandler(view resourceView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		params := listParams(r)
		base := strings.TrimSuffix(r.URL.Path, "/")

		var parentID int64
		if view.Parent != "" {
			id, err := urlID(r, "id")
			if err != nil {
				http.NotFound(w, r)
				return
			}
			parentID = id
		}

		table := tableView{Title: view.Title, Columns: view.Columns, Search: params.Search}
		canManage := view.Manage == nil || c.guard.Allowed(view.Manage)
		if canManage && !view.NoCreate {
			table.CreateURL = base + actionCreate
		}

		var message string
		items, count, err := s.listItems(r.Context(), c, view, parentID, params)
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			log.Ctx(r.Context()).Err(err).Str("resource", view.Name).Msg("Failed to list")
			message = apiclient.UserMessage(err)
		}

		table.Rows = tableRows(view.Columns, items, func(id int64) []link {
			var links []link
			if view.RowLinks != nil {
				links = append(links, view.RowLinks(c, id)...)
			}
			if canManage {
				links = append(links,
					link{Label: "Edit", URL: fmt.Sprintf("%s/%d%s", base, id, actionEdit)},
					link{Label: "Delete", URL: fmt.Sprintf("%s/%d%s", base, id, actionDelete)},
				)
			}
			return links
		})
		paginate(&table, r.URL, params, count)

		s.render(w, r, http.StatusOK, pageTable, pageData{Title: view.Title, Message: message, Body: table})
	}
}

func (s *Server) listItems(ctx context.Context, c *console, view resourceView, parentID int64, params resources.ListParams) ([]any, int, error) {
	if view.List != nil {
		return view.List(ctx, c, parentID, params)
	}
	accessor, err := c.services.ByName(view.Name)
	if err != nil {
		return nil, 0, err
	}
	if view.Parent != "" {
		params.Filters = append(params.Filters, resources.ColumnFilter{ID: view.Parent, Value: strconv.FormatInt(parentID, 10)})
	}
	return accessor.ListAny(ctx, params)
}

// listParams reads the table state of the current URL
func listParams(r *http.Request) resources.ListParams {
	q := r.URL.Query()
	q.Del("notice")
	return resources.ParseListParams(q)
}

// tableRows lays items out under columns. links may be nil.
func tableRows(columns []column, items []any, links func(id int64) []link) []tableRow {
	rows := make([]tableRow, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		row := tableRow{ID: itemID(m)}
		for _, col := range columns {
			row.Cells = append(row.Cells, display(m[col.Key]))
		}
		if links != nil {
			row.Links = links(row.ID)
		}
		rows = append(rows, row)
	}
	return rows
}

// paginate fills the page counters and the neighbouring page links of table
func paginate(table *tableView, current *url.URL, params resources.ListParams, count int) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = resources.DefaultPageSize
	}
	table.Count = count
	table.Page = params.PageIndex + 1
	table.Pages = resources.Page[any]{Count: count}.Pages(pageSize)

	pageURL := func(page int) string {
		q := current.Query()
		q.Del("notice")
		q.Set("page", strconv.Itoa(page))
		return current.Path + "?" + q.Encode()
	}
	if table.Page > 1 {
		table.PrevURL = pageURL(table.Page - 1)
	}
	if table.Page < table.Pages {
		table.NextURL = pageURL(table.Page + 1)
	}
}

func (s *Server) CreateFormHandler(view resourceView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cancel := strings.TrimSuffix(r.URL.Path, actionCreate)
		s.showForm(w, r, http.StatusOK, "New "+strings.ToLower(view.Title), view.Fields, cancel, url.Values{}, nil, "")
	}
}

func (s *Server) CreateSubmitHandler(view resourceView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		listURL := strings.TrimSuffix(r.URL.Path, actionCreate)

		accessor, err := c.services.ByName(view.Name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		extra := url.Values{}
		if view.Parent != "" {
			extra.Set(view.Parent, chi.URLParam(r, "id"))
		}

		saved := s.submit(w, r, "New "+strings.ToLower(view.Title), view.Fields, listURL, view.Bind, extra, func(ctx context.Context, payload any) error {
			_, err := accessor.CreateAny(ctx, payload)
			return err
		})
		if saved {
			redirectWithNotice(w, r, listURL, "Created")
		}
	}
}

func (s *Server) EditFormHandler(view resourceView, itemParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		listURL := itemListURL(r.URL.Path)

		id, err := urlID(r, itemParam)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		accessor, err := c.services.ByName(view.Name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		title := "Edit " + strings.ToLower(view.Title)
		item, err := accessor.GetAny(r.Context(), id)
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			s.showForm(w, r, statusFor(err), title, view.Fields, listURL, url.Values{}, nil, apiclient.UserMessage(err))
			return
		}

		prefill := jsonValues
		if view.Prefill != nil {
			prefill = view.Prefill
		}
		s.showForm(w, r, http.StatusOK, title, view.Fields, listURL, prefill(asMap(item)), nil, "")
	}
}

func (s *Server) EditSubmitHandler(view resourceView, itemParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		listURL := itemListURL(r.URL.Path)

		id, err := urlID(r, itemParam)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		accessor, err := c.services.ByName(view.Name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		extra := url.Values{}
		if view.Parent != "" {
			extra.Set(view.Parent, chi.URLParam(r, "id"))
		}

		saved := s.submit(w, r, "Edit "+strings.ToLower(view.Title), view.Fields, listURL, view.Bind, extra, func(ctx context.Context, payload any) error {
			_, err := accessor.UpdateAny(ctx, id, payload)
			return err
		})
		if saved {
			redirectWithNotice(w, r, listURL, "Saved")
		}
	}
}

func (s *Server) DeleteConfirmHandler(view resourceView, itemParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		listURL := itemListURL(r.URL.Path)

		id, err := urlID(r, itemParam)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		accessor, err := c.services.ByName(view.Name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		confirm := confirmView{Title: "Delete " + strings.ToLower(view.Title), Action: r.URL.Path, Cancel: listURL}
		item, err := accessor.GetAny(r.Context(), id)
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			s.render(w, r, statusFor(err), pageConfirm, pageData{Title: confirm.Title, Message: apiclient.UserMessage(err), Body: confirm})
			return
		}

		name := display(asMap(item)[view.Columns[0].Key])
		confirm.Text = fmt.Sprintf("Delete %q? This cannot be undone.", name)
		s.render(w, r, http.StatusOK, pageConfirm, pageData{Title: confirm.Title, Body: confirm})
	}
}

func (s *Server) DeleteHandler(view resourceView, itemParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		listURL := itemListURL(r.URL.Path)

		id, err := urlID(r, itemParam)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		accessor, err := c.services.ByName(view.Name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if err := accessor.Delete(r.Context(), id); err != nil {
			if s.loginRequired(w, r) {
				return
			}
			confirm := confirmView{Title: "Delete " + strings.ToLower(view.Title), Action: r.URL.Path, Cancel: listURL}
			s.render(w, r, statusFor(err), pageConfirm, pageData{Title: confirm.Title, Message: apiclient.UserMessage(err), Body: confirm})
			return
		}
		redirectWithNotice(w, r, listURL, "Deleted")
	}
}

// showForm renders fields filled from values, with field errors next to their inputs
func (s *Server) showForm(w http.ResponseWriter, r *http.Request, status int, title string, fields []field, cancel string, values url.Values, fieldErrs map[string]string, message string) {
	views, err := s.fieldViews(r.Context(), fields, values, fieldErrs)
	if err != nil {
		if s.loginRequired(w, r) {
			return
		}
		log.Ctx(r.Context()).Err(err).Msg("Failed to load options")
		if message == "" {
			message = apiclient.UserMessage(err)
		}
	}

	// Errors on inputs the form does not show, e.g. a repeated group, go to the notification.
	if message == "" {
		message = unshownError(fields, fieldErrs)
	}

	view := formView{Title: title, Action: r.URL.Path, Submit: "Save", Cancel: cancel, Fields: views}
	s.render(w, r, status, pageForm, pageData{Title: title, Message: message, Body: view})
}

// fieldViews fills fields for rendering. Options that fail to load leave
// their input empty and the first failure is returned.
func (s *Server) fieldViews(ctx context.Context, fields []field, values url.Values, fieldErrs map[string]string) ([]fieldView, error) {
	c := consoleFrom(ctx)
	var firstErr error

	views := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		fv := fieldView{
			Name:   f.Name,
			Label:  f.Label,
			Type:   f.Type,
			Value:  values.Get(f.Name),
			Values: values[f.Name],
			Error:  fieldErrs[f.Name],
		}
		if f.Options != nil {
			opts, err := f.Options(ctx, c)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			fv.Options = opts
		}
		if f.Type == inputList {
			for len(fv.Values) < minListRows {
				fv.Values = append(fv.Values, "")
			}
		}
		views = append(views, fv)
	}
	return views, firstErr
}

func unshownError(fields []field, fieldErrs map[string]string) string {
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		if !hasField(fields, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return fieldErrs[names[0]]
}

func hasField(fields []field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// submit binds the posted form, merged with extra, and hands the payload to
// save. It reports whether save succeeded; otherwise the response has been written.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, title string, fields []field, cancel string, bindForm binder, extra url.Values, save func(ctx context.Context, payload any) error) bool {
	if err := r.ParseForm(); err != nil {
		s.showForm(w, r, http.StatusBadRequest, title, fields, cancel, url.Values{}, nil, apiclient.GenericMessage)
		return false
	}
	values := r.PostForm
	for key, v := range extra {
		values[key] = v
	}

	payload, fieldErrs, err := bindForm(values)
	if err != nil {
		log.Ctx(r.Context()).Err(err).Msg("Failed to decode form")
		s.showForm(w, r, http.StatusBadRequest, title, fields, cancel, values, nil, apiclient.GenericMessage)
		return false
	}
	if fieldErrs != nil {
		s.showForm(w, r, http.StatusUnprocessableEntity, title, fields, cancel, values, fieldErrs, "")
		return false
	}

	if err := save(r.Context(), payload); err != nil {
		if s.loginRequired(w, r) {
			return false
		}
		s.showForm(w, r, statusFor(err), title, fields, cancel, values, apiFieldErrors(err), apiclient.UserMessage(err))
		return false
	}
	return true
}

// loginRequired redirects to the login page when the backend pipeline gave
// up on the session during this request.
func (s *Server) loginRequired(w http.ResponseWriter, r *http.Request) bool {
	c := consoleFrom(r.Context())
	if c == nil || !c.loginRequired.Load() {
		return false
	}
	redirectToLogin(w, r)
	return true
}

// statusFor picks the console status for a failed backend call
func statusFor(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

// apiFieldErrors extracts per-field messages from a backend rejection
func apiFieldErrors(err error) map[string]string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.FieldErrors()
	}
	return nil
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, target, notice string) {
	http.Redirect(w, r, target+"?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// itemListURL maps ".../{id}/edit" and ".../{id}/delete" to the collection URL
func itemListURL(itemAction string) string {
	return path.Dir(path.Dir(itemAction))
}

func urlID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", param, chi.URLParam(r, param))
	}
	return id, nil
}
