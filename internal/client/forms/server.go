package forms

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
)

// ServerError maps a failed submit to the form field it concerns. field is
// empty when the message belongs in the form banner.
//
// A field named by the backend wins; otherwise a message mentioning the
// email is attached to the email field.
func ServerError(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	message = client.UserMessage(err)

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return "", message
	}
	if apiErr.Message != "" && apiErr.Kind() == client.KindValidation {
		message = apiErr.Message
	}
	if apiErr.Field != "" {
		return apiErr.Field, message
	}
	if strings.Contains(strings.ToLower(apiErr.Message), FieldEmail) {
		return FieldEmail, apiErr.Message
	}
	return "", message
}
