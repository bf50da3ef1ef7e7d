package resources

// Dates travel as YYYY-MM-DD strings, times as RFC 3339 strings; the console
// only displays and forwards them.

// Lecturer statuses as the backend stores them
const (
	StatusPending  = "Chờ duyệt"
	StatusValid    = "Hồ sơ hợp lệ"
	StatusRejected = "Hồ sơ bị từ chối"
)

// Recommendation statuses besides the two final lecturer ones
const (
	RecommendationUnchecked  = "Chưa duyệt hồ sơ"
	RecommendationContacting = "Đang liên hệ"
)

// Degree names and the abbreviations keying AcademicRecord entries
const (
	DegreeBachelor = "Cử nhân"
	DegreeMaster   = "Thạc sĩ"
	DegreeDoctor   = "Tiến sĩ"
)

var DegreeAbbreviations = map[string]string{
	DegreeBachelor: "CN",
	DegreeMaster:   "ThS",
	DegreeDoctor:   "TS",
}

type WorkExperience struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Organization string `json:"organization"`
}

type AcademicRecord struct {
	SchoolName      string `json:"school_name"`
	Major           string `json:"major"`
	From            string `json:"from"`
	To              string `json:"to"`
	DegreeGrantedAt string `json:"degree_granted_at"`
}

type PublishedWork struct {
	Name  string `json:"name"`
	Year  string `json:"year"`
	Place string `json:"place"`
}

type Recommender struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Lecturer struct {
	ID                         int64                      `json:"id,omitempty"`
	Name                       string                     `json:"name"`
	Email                      string                     `json:"email"`
	PhoneNumber                string                     `json:"phone_number"`
	Gender                     string                     `json:"gender"`
	DOB                        string                     `json:"dob,omitempty"`
	Ethnic                     string                     `json:"ethnic"`
	Religion                   string                     `json:"religion"`
	Hometown                   string                     `json:"hometown"`
	Degree                     string                     `json:"degree"`
	Title                      string                     `json:"title,omitempty"`
	TitleDetail                string                     `json:"title_detail,omitempty"`
	TitleGrantedAt             string                     `json:"title_granted_at,omitempty"`
	Address                    string                     `json:"address"`
	WorkPosition               string                     `json:"work_position"`
	Workplace                  string                     `json:"workplace"`
	QuotaCode                  string                     `json:"quota_code,omitempty"`
	SalaryCoefficient          float64                    `json:"salary_coefficient,omitempty"`
	SalaryCoefficientGrantedAt string                     `json:"salary_coefficient_granted_at,omitempty"`
	RecruitedAt                string                     `json:"recruited_at,omitempty"`
	YearsOfExperience          int                        `json:"years_of_experience,omitempty"`
	ExpLanguage                string                     `json:"exp_language,omitempty"`
	ExpComputer                string                     `json:"exp_computer,omitempty"`
	ExpWork                    []WorkExperience           `json:"exp_work,omitempty"`
	ExpAcademic                map[string]*AcademicRecord `json:"exp_academic,omitempty"`
	Researches                 string                     `json:"researches,omitempty"`
	PublishedWorks             []PublishedWork            `json:"published_works,omitempty"`
	Courses                    []int64                    `json:"courses,omitempty"`
	CourseNames                []string                   `json:"course_names,omitempty"`
	Recommender                *int64                     `json:"recommender,omitempty"`
	RecommenderDetails         *Recommender               `json:"recommender_details,omitempty"`
	Status                     string                     `json:"status,omitempty"`
	User                       *int64                     `json:"user"`
}

type Course struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Credits     int    `json:"credits"`
}

type Class struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Course       int64  `json:"course"`
	CourseName   string `json:"course_name,omitempty"`
	Lecturer     int64  `json:"lecturer"`
	LecturerName string `json:"lecturer_name,omitempty"`
	Semester     int    `json:"semester"`
	Year         string `json:"year"`
}

type Schedule struct {
	ID         int64  `json:"id,omitempty"`
	Lecturer   int64  `json:"lecturer,omitempty"`
	Course     int64  `json:"course"`
	CourseName string `json:"course_name,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Place      string `json:"place"`
	Notes      string `json:"notes,omitempty"`
}

type Evaluation struct {
	ID       int64  `json:"id,omitempty"`
	Lecturer int64  `json:"lecturer"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

type Recommendation struct {
	ID                 int64        `json:"id,omitempty"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	PhoneNumber        string       `json:"phone_number"`
	Workplace          string       `json:"workplace"`
	Content            string       `json:"content"`
	Courses            []int64      `json:"courses,omitempty"`
	CourseNames        []string     `json:"course_names,omitempty"`
	Status             string       `json:"status,omitempty"`
	RecommenderDetails *Recommender `json:"recommender_details,omitempty"`
}

type DocumentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Document struct {
	ID               int64  `json:"id,omitempty"`
	Name             string `json:"name"`
	DocumentType     string `json:"document_type"`
	DocumentTypeName string `json:"document_type_name,omitempty"`
	FileLink         string `json:"file_link"`
	PublishedAt      string `json:"published_at,omitempty"`
	ValidAt          string `json:"valid_at,omitempty"`
	PublishedBy      string `json:"published_by,omitempty"`
	SignedBy         string `json:"signed_by,omitempty"`
}

// DegreeShare is one slice of the degree distribution chart
type DegreeShare struct {
	Degree     string  `json:"degree"`
	Percentage float64 `json:"percentage"`
}

type TitleShare struct {
	Title      string  `json:"title"`
	Percentage float64 `json:"percentage"`
}

// CourseLecturerCount is one bar of the lecturers-per-course chart
type CourseLecturerCount struct {
	Name          string `json:"name"`
	LecturerCount int    `json:"lecturer_count"`
}
