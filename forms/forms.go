package forms

import (
	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/users"
)

// OtherQuotaCode is the quota choice that asks for a free-text code
const OtherQuotaCode = "Khác (nhập cụ thể)"

type Login struct {
	UsernameOrEmail string `json:"username_or_email" validate:"notblank"`
	Password        string `json:"password" validate:"required"`
}

type Register struct {
	Username  string `json:"username" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strongpassword"`
	Password2 string `json:"password2" validate:"required"`
}

func (f Register) Payload() resources.RegisterRequest {
	return resources.RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordReset struct {
	Token             string `json:"token" validate:"required"`
	NewPassword       string `json:"new_password" validate:"required,strongpassword"`
	RetypeNewPassword string `json:"retype_new_password" validate:"required"`
}

type Course struct {
	Name        string `json:"name" validate:"notblank"`
	Code        string `json:"code" validate:"notblank"`
	Description string `json:"description"`
	Credits     int    `json:"credits" validate:"min=0"`
}

func (f Course) Payload() resources.Course {
	return resources.Course{Name: f.Name, Code: f.Code, Description: f.Description, Credits: f.Credits}
}

type Class struct {
	Name     string `json:"name" validate:"notblank"`
	Course   int64  `json:"course" validate:"required"`
	Lecturer int64  `json:"lecturer" validate:"required"`
	Semester int    `json:"semester" validate:"min=1,max=2"`
	Year     string `json:"year" validate:"notblank"`
}

func (f Class) Payload() resources.Class {
	return resources.Class{Name: f.Name, Course: f.Course, Lecturer: f.Lecturer, Semester: f.Semester, Year: f.Year}
}

type Evaluation struct {
	Lecturer int64  `json:"lecturer" validate:"required"`
	Title    string `json:"title" validate:"notblank"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02,notfuture"`
	Type     string `json:"type" validate:"notblank"`
	Content  string `json:"content" validate:"notblank"`
}

func (f Evaluation) Payload() resources.Evaluation {
	return resources.Evaluation{Lecturer: f.Lecturer, Title: f.Title, Date: f.Date, Type: f.Type, Content: f.Content}
}

type Recommendation struct {
	Name        string  `json:"name" validate:"notblank"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber string  `json:"phone_number" validate:"required,phone"`
	Workplace   string  `json:"workplace" validate:"notblank"`
	Content     string  `json:"content" validate:"notblank"`
	Courses     []int64 `json:"courses"`
	Status      string  `json:"status"`
}

func (f Recommendation) Payload() resources.Recommendation {
	return resources.Recommendation{
		Name:        f.Name,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Workplace:   f.Workplace,
		Content:     f.Content,
		Courses:     f.Courses,
		Status:      f.Status,
	}
}

type Document struct {
	Name         string `json:"name" validate:"notblank"`
	DocumentType string `json:"document_type" validate:"required"`
	FileLink     string `json:"file_link" validate:"required,http_url"`
	PublishedAt  string `json:"published_at" validate:"required,datetime=2006-01-02,notfuture"`
	ValidAt      string `json:"valid_at" validate:"required,datetime=2006-01-02"`
	PublishedBy  string `json:"published_by" validate:"notblank"`
	SignedBy     string `json:"signed_by" validate:"notblank"`
}

func (f Document) Payload() resources.Document {
	return resources.Document{
		Name:         f.Name,
		DocumentType: f.DocumentType,
		FileLink:     f.FileLink,
		PublishedAt:  f.PublishedAt,
		ValidAt:      f.ValidAt,
		PublishedBy:  f.PublishedBy,
		SignedBy:     f.SignedBy,
	}
}

type Schedule struct {
	Lecturer int64  `json:"lecturer"`
	Course   int64  `json:"course" validate:"required"`
	Start    string `json:"start" validate:"required,datetime=15:04"`
	End      string `json:"end" validate:"required,datetime=15:04"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"required,datetime=2006-01-02"`
	Place    string `json:"place" validate:"notblank"`
	Notes    string `json:"notes"`
}

// Payload combines the date range and the daily times into backend timestamps
func (f Schedule) Payload() resources.Schedule {
	return resources.Schedule{
		Lecturer: f.Lecturer,
		Course:   f.Course,
		Start:    f.FromDate + "T" + f.Start + ":00",
		End:      f.ToDate + "T" + f.End + ":00",
		Place:    f.Place,
		Notes:    f.Notes,
	}
}

// User is the account form; Password is optional when editing
type User struct {
	Username string   `json:"username" validate:"notblank"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"omitempty,strongpassword"`
	Groups   []string `json:"groups" validate:"required,min=1,dive,role"`
	Lecturer *int64   `json:"lecturer"`
	IsActive bool     `json:"is_active"`
}

// UserPayload is the account body the backend accepts
type UserPayload struct {
	users.User
	Password string `json:"password,omitempty"`
}

func (f User) Payload() UserPayload {
	return UserPayload{
		User: users.User{
			Username: f.Username,
			Email:    f.Email,
			Groups:   f.Groups,
			Lecturer: f.Lecturer,
			IsActive: f.IsActive,
		},
		Password: f.Password,
	}
}

func registerStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(Register)
	if f.Password2 != "" && f.Password2 != f.Password {
		sl.ReportError(f.Password2, "password2", "Password2", "passwords_match", "")
	}
}

func passwordResetStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(PasswordReset)
	if f.RetypeNewPassword != "" && f.RetypeNewPassword != f.NewPassword {
		sl.ReportError(f.RetypeNewPassword, "retype_new_password", "RetypeNewPassword", "passwords_match", "")
	}
}

func documentStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(Document)
	published, ok1 := parseDate(f.PublishedAt)
	valid, ok2 := parseDate(f.ValidAt)
	if ok1 && ok2 && valid.Before(published) {
		sl.ReportError(f.ValidAt, "valid_at", "ValidAt", "not_before", "published_at")
	}
}
