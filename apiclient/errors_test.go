package apiclient_test

import (
	"fmt"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/apiclient"
	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first field in document order", `{"zeta":["z first"],"alpha":["a second"]}`, "z first"},
		{"string value", `{"detail":"No active account found with the given credentials"}`, "No active account found with the given credentials"},
		{"nested object", `{"lecturer":{"phone_number":["Enter a valid phone number."]}}`, "Enter a valid phone number."},
		{"non field errors list", `["Lecturer already signed the contract."]`, "Lecturer already signed the contract."},
		{"skips empty values", `{"a":[""],"b":"x"}`, "x"},
		{"skips non-string members", `{"code":400,"detail":"bad thing"}`, "bad thing"},
		{"skips nested values without text", `{"meta":{"count":2,"ok":true},"errors":["first"]}`, "first"},
		{"object inside array without text", `[{"id":1},{"name":["Required."]}]`, "Required."},
		{"null and empty members", `{"a":null,"b":[],"c":{},"d":"  ","e":"found"}`, "found"},
		{"only numbers", `{"code":400}`, apiclient.GenericMessage},
		{"empty object", `{}`, apiclient.GenericMessage},
		{"not json", `<html>Bad Gateway</html>`, apiclient.GenericMessage},
		{"empty body", ``, apiclient.GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &apiclient.APIError{StatusCode: 400, Body: []byte(tt.body)}
			require.Equal(t, tt.want, err.Message())
		})
	}
}

func TestAPIError_FieldErrors(t *testing.T) {
	err := &apiclient.APIError{StatusCode: 400, Body: []byte(`{"code":400,"name":[{"x":1},"Name taken."],"email":[""]}`)}
	require.Equal(t, map[string]string{"name": "Name taken."}, err.FieldErrors())
}

func TestUserMessage(t *testing.T) {
	require.Empty(t, apiclient.UserMessage(nil))
	require.Equal(t, apiclient.SessionExpiredMessage, apiclient.UserMessage(fmt.Errorf("load: %w", errors.ErrNoRefreshToken)))
	require.Equal(t, apiclient.GenericMessage, apiclient.UserMessage(fmt.Errorf("dial tcp: connection refused")))
	require.Equal(t, "request already in progress", apiclient.UserMessage(errors.ErrDuplicateSubmission))

	wrapped := fmt.Errorf("save course: %w", &apiclient.APIError{StatusCode: 400, Body: []byte(`{"code":["course with this code already exists."]}`)})
	require.Equal(t, "course with this code already exists.", apiclient.UserMessage(wrapped))
}
