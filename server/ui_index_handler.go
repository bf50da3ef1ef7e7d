package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type stat struct {
	Label string
	Value int
}

type bar struct {
	Label string
	Value string
	Width int // percent of the widest bar
}

type chart struct {
	Title string
	Bars  []bar
}

// potentialView is what an applicant sees of their own registration
type potentialView struct {
	HasInfo bool
	Status  string
}

type homeView struct {
	Stats     []stat
	Charts    []chart
	Potential *potentialView
}

// HomeHandler renders the dashboard for the visitor's role
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := consoleFrom(r.Context())
		role, _ := c.guard.DecodeRole()

		var view homeView
		var err error
		switch {
		case role == users.RolePotentialLecturer:
			view.Potential, err = potentialHome(r.Context(), c)
		case role.Valid():
			view, err = staffHome(r.Context(), c, role)
		}

		var message string
		if err != nil {
			if s.loginRequired(w, r) {
				return
			}
			log.Ctx(r.Context()).Err(err).Str("role", string(role)).Msg("Failed to load home page")
			message = apiclient.UserMessage(err)
		}
		s.render(w, r, http.StatusOK, pageHome, pageData{Title: "Home", Message: message, Body: view})
	}
}

func potentialHome(ctx context.Context, c *console) (*potentialView, error) {
	lecturer, err := c.services.Lecturers.Me(ctx)
	if apiclient.IsStatus(err, http.StatusNotFound) {
		return &potentialView{}, nil
	}
	if err != nil {
		return &potentialView{}, err
	}
	return &potentialView{HasInfo: lecturer.Status != "", Status: lecturer.Status}, nil
}

// staffHome loads the statistics concurrently; any failure fails the page
func staffHome(ctx context.Context, c *console, role users.RoleType) (homeView, error) {
	var (
		courseCounts []resources.CourseLecturerCount
		degrees      []resources.DegreeShare
		titles       []resources.TitleShare
		all          int
		potential    int
		unchecked    int
		pending      int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		courseCounts, err = c.services.Courses.LecturerCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		degrees, err = c.services.Lecturers.DegreeCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		titles, err = c.services.Lecturers.TitleCount(ctx)
		return err
	})
	g.Go(func() (err error) {
		all, err = c.services.Lecturers.CountAll(ctx)
		return err
	})

	managesLecturers := role == users.RoleITFaculty || role == users.RoleEducationDepartment
	if managesLecturers {
		g.Go(func() (err error) {
			potential, err = c.services.Lecturers.CountPotential(ctx)
			return err
		})
	}
	switch role {
	case users.RoleITFaculty:
		g.Go(func() (err error) {
			unchecked, err = c.services.Recommendations.CountUnchecked(ctx)
			return err
		})
	case users.RoleEducationDepartment:
		g.Go(func() (err error) {
			pending, err = c.services.Lecturers.CountPending(ctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return homeView{}, err
	}

	view := homeView{Stats: []stat{{Label: "Lecturers in service", Value: all}}}
	if managesLecturers {
		view.Stats = append(view.Stats, stat{Label: "Registrations awaiting review", Value: potential})
	}
	switch role {
	case users.RoleITFaculty:
		view.Stats = append(view.Stats, stat{Label: "Recommendations awaiting review", Value: unchecked})
	case users.RoleEducationDepartment:
		view.Stats = append(view.Stats, stat{Label: "Registrations found valid", Value: pending})
	}

	perCourse := chart{Title: "Lecturers per course"}
	for _, cc := range courseCounts {
		perCourse.Bars = append(perCourse.Bars, bar{Label: cc.Name, Value: strconv.Itoa(cc.LecturerCount)})
	}
	byDegree := chart{Title: "Lecturers by degree"}
	for _, d := range degrees {
		byDegree.Bars = append(byDegree.Bars, bar{Label: d.Degree, Value: percent(d.Percentage)})
	}
	byTitle := chart{Title: "Lecturers by title"}
	for _, t := range titles {
		byTitle.Bars = append(byTitle.Bars, bar{Label: t.Title, Value: percent(t.Percentage)})
	}

	scaleBars(&perCourse, func(i int) float64 { return float64(courseCounts[i].LecturerCount) })
	scaleBars(&byDegree, func(i int) float64 { return degrees[i].Percentage })
	scaleBars(&byTitle, func(i int) float64 { return titles[i].Percentage })
	view.Charts = []chart{perCourse, byDegree, byTitle}
	return view, nil
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// scaleBars sizes every bar against the largest value
func scaleBars(ch *chart, value func(i int) float64) {
	var largest float64
	for i := range ch.Bars {
		if v := value(i); v > largest {
			largest = v
		}
	}
	if largest == 0 {
		return
	}
	for i := range ch.Bars {
		ch.Bars[i].Width = int(value(i) / largest * 100)
	}
}
