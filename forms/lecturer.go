package forms

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-lecturer-console/resources"
)

// Education is one degree's record
type Education struct {
	SchoolName      string
	Major           string
	From            string
	To              string
	DegreeGrantedAt string
}

func (e Education) record() *resources.AcademicRecord {
	return &resources.AcademicRecord{
		SchoolName:      e.SchoolName,
		Major:           e.Major,
		From:            e.From,
		To:              e.To,
		DegreeGrantedAt: e.DegreeGrantedAt,
	}
}

// Lecturer is the profile form. Repeated rows (work history, published works)
// arrive as parallel lists; education is flattened per degree with cn_, ths_
// and ts_ prefixed inputs.
type Lecturer struct {
	Name                       string  `json:"name" validate:"notblank"`
	Email                      string  `json:"email" validate:"required,email"`
	Phone                      string  `json:"phone" validate:"required,phone"`
	Gender                     string  `json:"gender" validate:"notblank"`
	DOB                        string  `json:"dob" validate:"omitempty,datetime=2006-01-02,notfuture"`
	Ethnic                     string  `json:"ethnic" validate:"notblank"`
	Religion                   string  `json:"religion" validate:"notblank"`
	Hometown                   string  `json:"hometown" validate:"notblank"`
	Degree                     string  `json:"degree" validate:"required,oneof='Cử nhân' 'Thạc sĩ' 'Tiến sĩ'"`
	Title                      string  `json:"title"`
	TitleDetail                string  `json:"title_detail" validate:"notblank"`
	TitleGrantedAt             string  `json:"title_granted_at" validate:"omitempty,datetime=2006-01-02"`
	Address                    string  `json:"address" validate:"notblank"`
	WorkPosition               string  `json:"work_position" validate:"notblank"`
	Workplace                  string  `json:"workplace" validate:"notblank"`
	QuotaCode                  string  `json:"quota_code"`
	OtherQuotaCode             string  `json:"other_quota_code"`
	SalaryCoefficient          float64 `json:"salary_coefficient" validate:"min=0"`
	SalaryCoefficientGrantedAt string  `json:"salary_coefficient_granted_at" validate:"omitempty,datetime=2006-01-02"`
	RecruitedAt                string  `json:"recruited_at" validate:"omitempty,datetime=2006-01-02"`
	YearsOfExperience          int     `json:"years_of_experience" validate:"min=0"`
	ExpLanguage                string  `json:"exp_language"`
	ExpComputer                string  `json:"exp_computer"`
	Researches                 string  `json:"researches"`
	Courses                    []int64 `json:"courses"`
	Recommender                *int64  `json:"recommender"`

	WorkFrom         []string `json:"exp_work_from"`
	WorkTo           []string `json:"exp_work_to"`
	WorkOrganization []string `json:"exp_work_organization"`

	PublishedName  []string `json:"published_work_name"`
	PublishedYear  []string `json:"published_work_year"`
	PublishedPlace []string `json:"published_work_place"`

	CNSchoolName       string `json:"cn_school_name"`
	CNMajor            string `json:"cn_major"`
	CNFrom             string `json:"cn_from"`
	CNTo               string `json:"cn_to"`
	CNDegreeGrantedAt  string `json:"cn_degree_granted_at"`
	ThSSchoolName      string `json:"ths_school_name"`
	ThSMajor           string `json:"ths_major"`
	ThSFrom            string `json:"ths_from"`
	ThSTo              string `json:"ths_to"`
	ThSDegreeGrantedAt string `json:"ths_degree_granted_at"`
	TSSchoolName       string `json:"ts_school_name"`
	TSMajor            string `json:"ts_major"`
	TSFrom             string `json:"ts_from"`
	TSTo               string `json:"ts_to"`
	TSDegreeGrantedAt  string `json:"ts_degree_granted_at"`
}

// educationFor lists the degrees whose education record the chosen degree requires
func educationFor(degree string) []string {
	switch degree {
	case resources.DegreeDoctor:
		return []string{resources.DegreeBachelor, resources.DegreeMaster, resources.DegreeDoctor}
	case resources.DegreeMaster:
		return []string{resources.DegreeBachelor, resources.DegreeMaster}
	default:
		return []string{resources.DegreeBachelor}
	}
}

func (f Lecturer) education(degree string) Education {
	switch degree {
	case resources.DegreeDoctor:
		return Education{f.TSSchoolName, f.TSMajor, f.TSFrom, f.TSTo, f.TSDegreeGrantedAt}
	case resources.DegreeMaster:
		return Education{f.ThSSchoolName, f.ThSMajor, f.ThSFrom, f.ThSTo, f.ThSDegreeGrantedAt}
	default:
		return Education{f.CNSchoolName, f.CNMajor, f.CNFrom, f.CNTo, f.CNDegreeGrantedAt}
	}
}

func lecturerStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(Lecturer)

	if f.QuotaCode == OtherQuotaCode && strings.TrimSpace(f.OtherQuotaCode) == "" {
		sl.ReportError(f.OtherQuotaCode, "other_quota_code", "OtherQuotaCode", "other_quota_code", "")
	}

	for _, degree := range educationFor(f.Degree) {
		prefix := strings.ToLower(resources.DegreeAbbreviations[degree]) + "_"
		edu := f.education(degree)
		required := []struct {
			name  string
			value string
		}{
			{"school_name", edu.SchoolName},
			{"major", edu.Major},
			{"from", edu.From},
			{"to", edu.To},
			{"degree_granted_at", edu.DegreeGrantedAt},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				sl.ReportError(r.value, prefix+r.name, r.name, "required_for", degree)
			}
		}
	}

	for i := 0; i < rows(f.WorkFrom, f.WorkTo, f.WorkOrganization); i++ {
		if at(f.WorkFrom, i) == "" || at(f.WorkTo, i) == "" || at(f.WorkOrganization, i) == "" {
			sl.ReportError(f.WorkOrganization, "exp_work", "WorkOrganization", "required", "")
			break
		}
	}
	for i := 0; i < rows(f.PublishedName, f.PublishedYear, f.PublishedPlace); i++ {
		if at(f.PublishedName, i) == "" || at(f.PublishedYear, i) == "" || at(f.PublishedPlace, i) == "" {
			sl.ReportError(f.PublishedName, "published_works", "PublishedName", "required", "")
			break
		}
	}
}

// Payload builds the backend lecturer document
func (f Lecturer) Payload() resources.Lecturer {
	out := resources.Lecturer{
		Name:                       f.Name,
		Email:                      f.Email,
		PhoneNumber:                f.Phone,
		Gender:                     f.Gender,
		DOB:                        f.DOB,
		Ethnic:                     f.Ethnic,
		Religion:                   f.Religion,
		Hometown:                   f.Hometown,
		Degree:                     f.Degree,
		Title:                      f.Title,
		TitleDetail:                f.TitleDetail,
		TitleGrantedAt:             f.TitleGrantedAt,
		Address:                    f.Address,
		WorkPosition:               f.WorkPosition,
		Workplace:                  f.Workplace,
		QuotaCode:                  f.QuotaCode,
		SalaryCoefficient:          f.SalaryCoefficient,
		SalaryCoefficientGrantedAt: f.SalaryCoefficientGrantedAt,
		RecruitedAt:                f.RecruitedAt,
		YearsOfExperience:          f.YearsOfExperience,
		ExpLanguage:                f.ExpLanguage,
		ExpComputer:                f.ExpComputer,
		Researches:                 f.Researches,
		Courses:                    f.Courses,
		Recommender:                f.Recommender,
		ExpAcademic:                make(map[string]*resources.AcademicRecord),
	}
	if f.QuotaCode == OtherQuotaCode {
		out.QuotaCode = f.OtherQuotaCode
	}

	for _, degree := range educationFor(f.Degree) {
		out.ExpAcademic[resources.DegreeAbbreviations[degree]] = f.education(degree).record()
	}

	for i := 0; i < rows(f.WorkFrom, f.WorkTo, f.WorkOrganization); i++ {
		out.ExpWork = append(out.ExpWork, resources.WorkExperience{
			From:         at(f.WorkFrom, i),
			To:           at(f.WorkTo, i),
			Organization: at(f.WorkOrganization, i),
		})
	}
	for i := 0; i < rows(f.PublishedName, f.PublishedYear, f.PublishedPlace); i++ {
		out.PublishedWorks = append(out.PublishedWorks, resources.PublishedWork{
			Name:  at(f.PublishedName, i),
			Year:  at(f.PublishedYear, i),
			Place: at(f.PublishedPlace, i),
		})
	}
	return out
}

func rows(cols ...[]string) int {
	n := 0
	for _, c := range cols {
		n = max(n, len(c))
	}
	return n
}

func at(col []string, i int) string {
	if i < len(col) {
		return strings.TrimSpace(col[i])
	}
	return ""
}
