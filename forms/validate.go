// Package forms declares the console's input forms and validates them before
// anything reaches the network.
package forms

import (
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/users"
)

const dateLayout = "2006-01-02"

// NowTimeFunc is overridden in tests
var NowTimeFunc = time.Now

var (
	Validate   *validator.Validate
	Translator ut.Translator

	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,14}$`)
)

// custom validation tags and their messages
var customMessages = map[string]string{
	"notblank":         "{0} cannot be blank",
	"phone":            "{0} must be a valid phone number",
	"strongpassword":   "{0} must be at least 8 characters with an uppercase letter, a lowercase letter, a number and a special character",
	"notfuture":        "{0} cannot be in the future",
	"role":             "{0} must only contain known roles",
	"passwords_match":  "Passwords must match",
	"not_before":       "{0} cannot be before {1}",
	"required_for":     "{0} is required for this degree",
	"other_quota_code": "{0} is required when quota code is Other",
}

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation("notblank", notBlank)
	_ = Validate.RegisterValidation("phone", phone)
	_ = Validate.RegisterValidation("strongpassword", strongPassword)
	_ = Validate.RegisterValidation("notfuture", notFuture)
	_ = Validate.RegisterValidation("role", knownRole)

	Validate.RegisterStructValidation(registerStructValidation, Register{})
	Validate.RegisterStructValidation(passwordResetStructValidation, PasswordReset{})
	Validate.RegisterStructValidation(documentStructValidation, Document{})
	Validate.RegisterStructValidation(lecturerStructValidation, Lecturer{})

	for tag, text := range customMessages {
		registerTranslation(tag, text)
	}
}

func registerTranslation(tag, text string) {
	register := func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}
	translate := func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(fe.Tag(), fe.Field(), fe.Param())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
	_ = Validate.RegisterTranslation(tag, Translator, register, translate)
}

// FieldErrors maps a field's JSON name to its first validation message
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the alphabetically first failing field
func (fe FieldErrors) First() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return fe[keys[0]]
}

// Check validates v and returns nil when it is valid
func Check(v any) FieldErrors {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return FieldErrors{"": err.Error()}
	}

	fieldErrs := make(FieldErrors, len(vErrs))
	for _, vErr := range vErrs {
		if _, seen := fieldErrs[vErr.Field()]; !seen {
			fieldErrs[vErr.Field()] = vErr.Translate(Translator)
		}
	}
	return fieldErrs
}

// Decode fills dst from submitted form values keyed by JSON field names.
// An empty single input is skipped; repeated inputs keep their positions so
// parallel lists stay aligned. Numbers and booleans are converted from text.
func Decode(values url.Values, dst any) error {
	input := make(map[string]any, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			if v := strings.TrimSpace(vals[0]); v != "" {
				input[key] = v
			}
		default:
			trimmed := make([]string, len(vals))
			for i, v := range vals {
				trimmed[i] = strings.TrimSpace(v)
			}
			input[key] = trimmed
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Custom validators

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func phone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func strongPassword(fl validator.FieldLevel) bool {
	return users.ValidatePasswordStrength(fl.Field().String()) == nil
}

// notFuture accepts an empty value; pair it with required where needed
func notFuture(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return false
	}
	now := NowTimeFunc()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !day.After(today)
}

func knownRole(fl validator.FieldLevel) bool {
	return users.RoleType(fl.Field().String()).Valid()
}

func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, raw)
	return t, err == nil
}
