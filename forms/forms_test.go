package forms_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-lecturer-console/forms"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/stretchr/testify/require"
)

func fixNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := forms.NowTimeFunc
	forms.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { forms.NowTimeFunc = prev })
}

func TestCheck_Login(t *testing.T) {
	require.Nil(t, forms.Check(forms.Login{UsernameOrEmail: "alice", Password: "x"}))

	errs := forms.Check(forms.Login{UsernameOrEmail: "   "})
	require.Contains(t, errs, "username_or_email")
	require.Contains(t, errs, "password")
	require.Equal(t, "username_or_email cannot be blank", errs["username_or_email"])
}

func TestCheck_Register(t *testing.T) {
	valid := forms.Register{Username: "alice", Email: "alice@example.com", Password: "Str0ng!pw", Password2: "Str0ng!pw"}

	tests := []struct {
		name   string
		mutate func(*forms.Register)
		field  string
	}{
		{"valid", func(*forms.Register) {}, ""},
		{"bad email", func(f *forms.Register) { f.Email = "alice" }, "email"},
		{"weak password", func(f *forms.Register) { f.Password, f.Password2 = "password", "password" }, "password"},
		{"mismatch", func(f *forms.Register) { f.Password2 = "Other!pw1" }, "password2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			errs := forms.Check(f)
			if tt.field == "" {
				require.Nil(t, errs)
				return
			}
			require.Contains(t, errs, tt.field)
		})
	}

	errs := forms.Check(forms.Register{Username: "a", Email: "a@b.co", Password: "Str0ng!pw", Password2: "nope"})
	require.Equal(t, "Passwords must match", errs["password2"])
}

func TestCheck_PasswordReset(t *testing.T) {
	require.Nil(t, forms.Check(forms.PasswordReset{Token: "t", NewPassword: "Str0ng!pw", RetypeNewPassword: "Str0ng!pw"}))

	errs := forms.Check(forms.PasswordReset{Token: "t", NewPassword: "Str0ng!pw", RetypeNewPassword: "Str0ng!pX"})
	require.Contains(t, errs, "retype_new_password")
}

func TestCheck_Course(t *testing.T) {
	require.Nil(t, forms.Check(forms.Course{Name: "Algorithms", Code: "CS101"}))
	errs := forms.Check(forms.Course{Name: "Algorithms", Code: "CS101", Credits: -1})
	require.Contains(t, errs, "credits")
}

func TestCheck_Class(t *testing.T) {
	valid := forms.Class{Name: "A1", Course: 1, Lecturer: 2, Semester: 2, Year: "2024-2025"}
	require.Nil(t, forms.Check(valid))

	valid.Semester = 3
	require.Contains(t, forms.Check(valid), "semester")
}

func TestCheck_DatesNotInFuture(t *testing.T) {
	fixNow(t, time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC))

	ev := forms.Evaluation{Lecturer: 1, Title: "Mid-term", Date: "2024-05-10", Type: "Good", Content: "ok"}
	require.Nil(t, forms.Check(ev), "today is allowed")

	ev.Date = "2024-05-11"
	errs := forms.Check(ev)
	require.Equal(t, "date cannot be in the future", errs["date"])

	ev.Date = "10/05/2024"
	require.Contains(t, forms.Check(ev), "date")
}

func TestCheck_Document(t *testing.T) {
	fixNow(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	valid := forms.Document{
		Name:         "Decision 12",
		DocumentType: "1",
		FileLink:     "https://drive.example.com/d/12",
		PublishedAt:  "2024-01-01",
		ValidAt:      "2024-01-15",
		PublishedBy:  "Faculty",
		SignedBy:     "Dean",
	}
	require.Nil(t, forms.Check(valid))

	before := valid
	before.ValidAt = "2023-12-31"
	errs := forms.Check(before)
	require.Equal(t, "valid_at cannot be before published_at", errs["valid_at"])

	link := valid
	link.FileLink = "drive/12"
	require.Contains(t, forms.Check(link), "file_link")
}

func TestCheck_Recommendation(t *testing.T) {
	valid := forms.Recommendation{Name: "Bob", Email: "bob@example.com", PhoneNumber: "+84901234567", Workplace: "HCMUS", Content: "Strong candidate"}
	require.Nil(t, forms.Check(valid))

	valid.PhoneNumber = "12-34"
	require.Equal(t, "phone_number must be a valid phone number", forms.Check(valid)["phone_number"])
}

func TestCheck_User(t *testing.T) {
	valid := forms.User{Username: "carol", Email: "carol@example.com", Groups: []string{"lecturer"}}
	require.Nil(t, forms.Check(valid), "password is optional")

	unknown := valid
	unknown.Groups = []string{"admin"}
	require.NotEmpty(t, forms.Check(unknown))

	none := valid
	none.Groups = nil
	require.Contains(t, forms.Check(none), "groups")
}

func validLecturer() forms.Lecturer {
	return forms.Lecturer{
		Name:              "Nguyen Van A",
		Email:             "a@example.com",
		Phone:             "0901234567",
		Gender:            "Nam",
		Ethnic:            "Kinh",
		Religion:          "Không",
		Hometown:          "Hà Nội",
		Degree:            resources.DegreeBachelor,
		TitleDetail:       "Giảng viên",
		Address:           "1 Main St",
		WorkPosition:      "Lecturer",
		Workplace:         "HCMUS",
		CNSchoolName:      "HCMUS",
		CNMajor:           "CS",
		CNFrom:            "2010",
		CNTo:              "2014",
		CNDegreeGrantedAt: "2014-06-01",
	}
}

func TestCheck_LecturerDegreeFields(t *testing.T) {
	require.Nil(t, forms.Check(validLecturer()))

	master := validLecturer()
	master.Degree = resources.DegreeMaster
	errs := forms.Check(master)
	require.Contains(t, errs, "ths_school_name")
	require.NotContains(t, errs, "ts_school_name")

	doctor := validLecturer()
	doctor.Degree = resources.DegreeDoctor
	doctor.CNMajor = ""
	errs = forms.Check(doctor)
	require.Contains(t, errs, "cn_major")
	require.Contains(t, errs, "ths_major")
	require.Contains(t, errs, "ts_major")

	unknown := validLecturer()
	unknown.Degree = "Kỹ sư"
	require.Contains(t, forms.Check(unknown), "degree")
}

func TestCheck_LecturerQuotaAndRows(t *testing.T) {
	l := validLecturer()
	l.QuotaCode = forms.OtherQuotaCode
	require.Contains(t, forms.Check(l), "other_quota_code")

	l.OtherQuotaCode = "V.07.01.03"
	require.Nil(t, forms.Check(l))
	require.Equal(t, "V.07.01.03", l.Payload().QuotaCode)

	l.WorkFrom = []string{"2015", "2018"}
	l.WorkTo = []string{"2018", ""}
	l.WorkOrganization = []string{"FPT", "VNG"}
	require.Contains(t, forms.Check(l), "exp_work")
}

func TestLecturer_Payload(t *testing.T) {
	l := validLecturer()
	l.Degree = resources.DegreeMaster
	l.ThSSchoolName, l.ThSMajor, l.ThSFrom, l.ThSTo, l.ThSDegreeGrantedAt = "HCMUT", "AI", "2015", "2017", "2017-09-01"
	l.PublishedName = []string{"Paper"}
	l.PublishedYear = []string{"2020"}
	l.PublishedPlace = []string{"Journal"}

	p := l.Payload()
	require.Equal(t, "0901234567", p.PhoneNumber)
	require.Len(t, p.ExpAcademic, 2)
	require.Equal(t, "HCMUT", p.ExpAcademic["ThS"].SchoolName)
	require.Equal(t, "HCMUS", p.ExpAcademic["CN"].SchoolName)
	require.Equal(t, []resources.PublishedWork{{Name: "Paper", Year: "2020", Place: "Journal"}}, p.PublishedWorks)
}

func TestDecode(t *testing.T) {
	values := url.Values{
		"name":     {" Algorithms "},
		"code":     {"CS101"},
		"credits":  {"4"},
		"ignored":  {"x"},
		"semester": {""},
	}
	var course forms.Course
	require.NoError(t, forms.Decode(values, &course))
	require.Equal(t, forms.Course{Name: "Algorithms", Code: "CS101", Credits: 4}, course)

	var rec forms.Recommendation
	require.NoError(t, forms.Decode(url.Values{"courses": {"1", "3"}}, &rec))
	require.Equal(t, []int64{1, 3}, rec.Courses)

	var user forms.User
	require.NoError(t, forms.Decode(url.Values{"groups": {"lecturer"}, "lecturer": {"7"}, "is_active": {"true"}}, &user))
	require.Equal(t, []string{"lecturer"}, user.Groups)
	require.NotNil(t, user.Lecturer)
	require.Equal(t, int64(7), *user.Lecturer)
	require.True(t, user.IsActive)

	var l forms.Lecturer
	require.NoError(t, forms.Decode(url.Values{"exp_work_from": {"2015", ""}, "exp_work_to": {"2018", "2020"}}, &l))
	require.Equal(t, []string{"2015", ""}, l.WorkFrom, "positions preserved")
}

func TestFieldErrors_Error(t *testing.T) {
	fe := forms.FieldErrors{"b": "second", "a": "first"}
	require.Equal(t, "a: first; b: second", fe.Error())
	require.Equal(t, "first", fe.First())
}

func TestSchedule_Payload(t *testing.T) {
	s := forms.Schedule{Course: 1, Start: "08:00", End: "10:30", FromDate: "2024-09-01", ToDate: "2024-12-31", Place: "A101"}
	require.Nil(t, forms.Check(s))
	p := s.Payload()
	require.Equal(t, "2024-09-01T08:00:00", p.Start)
	require.Equal(t, "2024-12-31T10:30:00", p.End)
}
