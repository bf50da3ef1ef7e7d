package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/forms"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/rs/zerolog/log"
)

type detailRow struct {
	Label string
	Value string
}

type detailSection struct {
	Title string
	Rows  []detailRow
}

// detailAction is a button posting Name=Value to Action
type detailAction struct {
	Label  string
	Action string
	Name   string
	Value  string
	Danger bool
}

type detailView struct {
	Title    string
	Sections []detailSection
	Actions  []detailAction
	Links    []link
	Back     string
}

var bindLecturer = bind[forms.Lecturer, resources.Lecturer]()
var bindRecommendation = bind[forms.Recommendation, resources.Recommendation]()

// showList renders a read-only table of items, reporting err in the notification
func (s *Server) showList(w http.ResponseWriter, r *http.Request, title string, columns []column, items []any, count int, params resources.ListParams, err error, createURL string) {
	var message string
	if err != nil {
		if s.loginRequired(w, r) {
			return
		}
		log.Ctx(r.Context()).Err(err).Str("page", title).Msg("Failed to list")
		message = apiclient.UserMessage(err)
	}

	table := tableView{Title: title, Columns: columns, Search: params.Search, CreateURL: createURL}
	table.Rows = tableRows(columns, items, nil)
	paginate(&table, r.URL, params, count)
	s.render(w, r, http.StatusOK, pageTable, pageData{Title: title, Message: message, Body: table})
}

// MyInfoFormHandler shows the logged-in lecturer's profile, empty when none exists yet
func (s *Server) MyInfoFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		title := "My information"

		lecturer, err := c.services.Lecturers.Me(r.Context())
		switch {
		case err == nil:
			s.showForm(w, r, http.StatusOK, title+statusSuffix(lecturer.Status), lecturerFields, RouteHome, lecturerValues(asMap(lecturer)), nil, "")
		case apiclient.IsStatus(err, http.StatusNotFound):
			s.showForm(w, r, http.StatusOK, title, lecturerFields, RouteHome, url.Values{}, nil, "")
		default:
			if s.loginRequired(w, r) {
				return
			}
			s.showForm(w, r, statusFor(err), title, lecturerFields, RouteHome, url.Values{}, nil, apiclient.UserMessage(err))
		}
	}
}

// MyInfoSubmitHandler creates the profile on first save and replaces it afterwards
func (s *Server) MyInfoSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())

		saved := s.submit(w, r, "My information", lecturerFields, RouteHome, bindLecturer, nil, func(ctx context.Context, payload any) error {
			_, err := c.services.Lecturers.Me(ctx)
			switch {
			case err == nil:
				_, err = c.services.Lecturers.UpdateMe(ctx, payload)
			case apiclient.IsStatus(err, http.StatusNotFound):
				_, err = c.services.Lecturers.CreateMe(ctx, payload)
			}
			return err
		})
		if saved {
			redirectWithNotice(w, r, RouteMyInfo, "Saved")
		}
	}
}

func statusSuffix(status string) string {
	if status == "" {
		return ""
	}
	return " (" + status + ")"
}

// MyAccountHandler shows the logged-in account
func (s *Server) MyAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		view := detailView{
			Title: "My account",
			Links: []link{{Label: "Change password", URL: RoutePasswordReset}},
		}

		user, err := c.services.Users.Me(r.Context())
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			s.render(w, r, statusFor(err), pageDetail, pageData{Title: view.Title, Message: apiclient.UserMessage(err), Body: view})
			return
		}

		rows := []detailRow{
			{Label: "Username", Value: user.Username},
			{Label: "Email", Value: user.Email},
			{Label: "Roles", Value: strings.Join(user.Groups, ", ")},
			{Label: "Active", Value: display(user.IsActive)},
		}
		if user.LecturerStr != "" {
			rows = append(rows, detailRow{Label: "Lecturer", Value: user.LecturerStr})
		}
		view.Sections = []detailSection{{Rows: rows}}
		s.render(w, r, http.StatusOK, pageDetail, pageData{Title: view.Title, Body: view})
	}
}

func (s *Server) MyEvaluationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		params := listParams(r)
		page, err := c.services.Evaluations.Me(r.Context(), params)
		s.showList(w, r, "My evaluations", evaluationColumns, anySlice(page.Results), page.Count, params, err, "")
	}
}

func (s *Server) MySchedulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		schedules, err := c.services.Schedules.Me(r.Context())
		s.showList(w, r, "My schedule", lecturerSchedulesView.Columns, anySlice(schedules), len(schedules), resources.ListParams{}, err, "")
	}
}

func (s *Server) MyRecommendationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		params := listParams(r)
		page, err := c.services.Recommendations.Me(r.Context(), params)
		s.showList(w, r, "My recommendations", recommendationColumns, anySlice(page.Results), page.Count, params, err, RouteMyRecommendationsCreate)
	}
}

func (s *Server) MyRecommendationFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.showForm(w, r, http.StatusOK, "New recommendation", recommendationFields, RouteMyRecommendations, url.Values{}, nil, "")
	}
}

// MyRecommendationSubmitHandler files a recommendation awaiting review
func (s *Server) MyRecommendationSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		extra := url.Values{"status": {resources.RecommendationUnchecked}}

		saved := s.submit(w, r, "New recommendation", recommendationFields, RouteMyRecommendations, bindRecommendation, extra, func(ctx context.Context, payload any) error {
			_, err := c.services.Recommendations.CreateMe(ctx, payload)
			return err
		})
		if saved {
			redirectWithNotice(w, r, RouteMyRecommendations, "Recommendation sent")
		}
	}
}
