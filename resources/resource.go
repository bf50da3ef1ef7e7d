// Package resources binds the backend's REST collections to typed services.
package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Caller is the authenticated JSON pipeline, satisfied by *apiclient.Client
type Caller interface {
	DoJSON(ctx context.Context, method, path string, query url.Values, in, out any) error
}

// Resource is a backend collection rooted at path ("lecturers/"), with
// items at path+id+"/".
type Resource[T any] struct {
	caller Caller
	path   string
}

func NewResource[T any](caller Caller, path string) *Resource[T] {
	path = strings.TrimPrefix(path, "/")
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Resource[T]{caller: caller, path: path}
}

func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s%d/", r.path, id)
}

// Action returns the path of a collection-level action such as "me/"
func (r *Resource[T]) Action(name string) string {
	return r.path + strings.Trim(name, "/") + "/"
}

func (r *Resource[T]) List(ctx context.Context, params ListParams) (Page[T], error) {
	var page Page[T]
	err := r.caller.DoJSON(ctx, http.MethodGet, r.path, params.Values(), nil, &page)
	return page, err
}

// All fetches the unpaginated collection
func (r *Resource[T]) All(ctx context.Context) ([]T, error) {
	var page Page[T]
	err := r.caller.DoJSON(ctx, http.MethodGet, r.path, nil, nil, &page)
	return page.Results, err
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.caller.DoJSON(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, in any) (T, error) {
	var item T
	err := r.caller.DoJSON(ctx, http.MethodPost, r.path, nil, in, &item)
	return item, err
}

// Update replaces the item (PUT)
func (r *Resource[T]) Update(ctx context.Context, id int64, in any) (T, error) {
	var item T
	err := r.caller.DoJSON(ctx, http.MethodPut, r.itemPath(id), nil, in, &item)
	return item, err
}

// Patch changes only the given fields
func (r *Resource[T]) Patch(ctx context.Context, id int64, fields any) (T, error) {
	var item T
	err := r.caller.DoJSON(ctx, http.MethodPatch, r.itemPath(id), nil, fields, &item)
	return item, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.caller.DoJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}
