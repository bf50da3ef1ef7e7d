package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/rs/zerolog/log"
)

// RegistrationsHandler lists registrations awaiting a decision
func (s *Server) RegistrationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		params := listParams(r)

		var message string
		page, err := c.services.Lecturers.Potential(r.Context(), params)
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			log.Ctx(r.Context()).Err(err).Msg("Failed to list registrations")
			message = apiclient.UserMessage(err)
		}

		table := tableView{Title: "Registrations", Columns: lecturerColumns, Search: params.Search}
		table.Rows = tableRows(lecturerColumns, anySlice(page.Results), func(id int64) []link {
			return []link{{Label: "Check", URL: checkURL(id)}}
		})
		paginate(&table, r.URL, params, page.Count)
		s.render(w, r, http.StatusOK, pageTable, pageData{Title: table.Title, Message: message, Body: table})
	}
}

func checkURL(id int64) string {
	return fmt.Sprintf("/lecturers/check/%d", id)
}

// CheckPageHandler shows a registration read-only with the decisions that can be taken on it
func (s *Server) CheckPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.showCheck(w, r, http.StatusOK, "")
	}
}

func (s *Server) showCheck(w http.ResponseWriter, r *http.Request, status int, message string) {
	c := consoleFrom(r.Context())
	id, err := urlID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	view := detailView{Title: "Lecturer info", Back: RouteLecturerRegistrations}
	lecturer, err := c.services.Lecturers.Get(r.Context(), id)
	if err != nil {
		if s.loginRequired(w, r) {
			return
		}
		s.render(w, r, statusFor(err), pageDetail, pageData{Title: view.Title, Message: apiclient.UserMessage(err), Body: view})
		return
	}

	base := checkURL(id)
	view.Sections = lecturerSections(lecturer)
	view.Actions = []detailAction{
		{Label: "Accept", Action: base + "/status", Name: "status", Value: resources.StatusValid},
		{Label: "Reject", Action: base + "/status", Name: "status", Value: resources.StatusRejected, Danger: true},
		{Label: "Sign contract", Action: base + "/sign_contract"},
	}
	s.render(w, r, status, pageDetail, pageData{Title: view.Title, Message: message, Body: view})
}

// CheckStatusHandler records the outcome of a registration check
func (s *Server) CheckStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		id, err := urlID(r, "id")
		if err != nil {
			http.NotFound(w, r)
			return
		}

		status := r.PostFormValue("status")
		if status != resources.StatusValid && status != resources.StatusRejected {
			s.showCheck(w, r, http.StatusBadRequest, apiclient.GenericMessage)
			return
		}

		if _, err := c.services.Lecturers.SetStatus(r.Context(), id, status); err != nil {
			if s.loginRequired(w, r) {
				return
			}
			s.showCheck(w, r, statusFor(err), apiclient.UserMessage(err))
			return
		}
		log.Ctx(r.Context()).Info().Int64("lecturer_id", id).Str("status", status).Msg("Registration checked")
		redirectWithNotice(w, r, checkURL(id), status)
	}
}

// SignContractHandler promotes a potential lecturer to a contracted one
func (s *Server) SignContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		id, err := urlID(r, "id")
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if err := c.services.Lecturers.SignContract(r.Context(), id); err != nil {
			if s.loginRequired(w, r) {
				return
			}
			s.showCheck(w, r, statusFor(err), apiclient.UserMessage(err))
			return
		}
		log.Ctx(r.Context()).Info().Int64("lecturer_id", id).Msg("Contract signed")
		redirectWithNotice(w, r, RouteLecturerRegistrations, "Contract signed")
	}
}

// lecturerSections lays a profile out for reading
func lecturerSections(l resources.Lecturer) []detailSection {
	personal := detailSection{Title: "Personal", Rows: []detailRow{
		{Label: "Full name", Value: l.Name},
		{Label: "Email", Value: l.Email},
		{Label: "Phone number", Value: l.PhoneNumber},
		{Label: "Gender", Value: l.Gender},
		{Label: "Date of birth", Value: l.DOB},
		{Label: "Ethnicity", Value: l.Ethnic},
		{Label: "Religion", Value: l.Religion},
		{Label: "Hometown", Value: l.Hometown},
		{Label: "Address", Value: l.Address},
		{Label: "Status", Value: l.Status},
	}}

	work := detailSection{Title: "Work", Rows: []detailRow{
		{Label: "Degree", Value: l.Degree},
		{Label: "Title", Value: strings.TrimSpace(l.Title + " " + l.TitleDetail)},
		{Label: "Workplace", Value: l.Workplace},
		{Label: "Work position", Value: l.WorkPosition},
		{Label: "Quota code", Value: l.QuotaCode},
		{Label: "Years of experience", Value: display(float64(l.YearsOfExperience))},
		{Label: "Foreign languages", Value: l.ExpLanguage},
		{Label: "Computer skills", Value: l.ExpComputer},
		{Label: "Courses", Value: strings.Join(l.CourseNames, ", ")},
	}}
	if l.RecommenderDetails != nil {
		work.Rows = append(work.Rows, detailRow{Label: "Recommended by", Value: l.RecommenderDetails.FullName})
	}

	sections := []detailSection{personal, work}

	for _, degree := range []string{resources.DegreeBachelor, resources.DegreeMaster, resources.DegreeDoctor} {
		record := l.ExpAcademic[resources.DegreeAbbreviations[degree]]
		if record == nil {
			continue
		}
		sections = append(sections, detailSection{Title: degree, Rows: []detailRow{
			{Label: "School", Value: record.SchoolName},
			{Label: "Major", Value: record.Major},
			{Label: "Period", Value: record.From + " - " + record.To},
			{Label: "Granted at", Value: record.DegreeGrantedAt},
		}})
	}

	if len(l.ExpWork) > 0 {
		history := detailSection{Title: "Work history"}
		for _, e := range l.ExpWork {
			history.Rows = append(history.Rows, detailRow{Label: e.From + " - " + e.To, Value: e.Organization})
		}
		sections = append(sections, history)
	}

	if len(l.PublishedWorks) > 0 {
		published := detailSection{Title: "Published works"}
		for _, p := range l.PublishedWorks {
			published.Rows = append(published.Rows, detailRow{Label: p.Year, Value: p.Name + ", " + p.Place})
		}
		sections = append(sections, published)
	}

	if l.Researches != "" {
		sections = append(sections, detailSection{Title: "Research", Rows: []detailRow{{Value: l.Researches}}})
	}
	return sections
}
