package storefront

import (
	"context"
	"net/url"
	"strings"

	"github.com/goliatone/go-formflow/pkg/submit"
)

// Account is the user record returned by a successful sign-up.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUpClient registers accounts with the hosted auth service.
type SignUpClient interface {
	SignUp(ctx context.Context, email, password string) (Account, error)
}

// SignUpValues prefills the sign-up form from query parameters ("email",
// "password").
func SignUpValues(query url.Values) map[string]any {
	values := map[string]any{}
	for _, key := range []string{"email", "password"} {
		if v := query.Get(key); v != "" {
			values[key] = v
		}
	}
	return values
}

// SignUpRedirect returns the "from" query parameter, defaulting to "/".
// Only same-site paths are honoured.
func SignUpRedirect(query url.Values) string {
	from := strings.TrimSpace(query.Get("from"))
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/"
	}
	return from
}

// SignUpOperation returns the operation submitting the sign-up form. The
// outcome navigates to redirect.
func SignUpOperation(client SignUpClient, redirect string) submit.Operation {
	return submit.OperationFunc(func(ctx context.Context, payload submit.Payload) (submit.Outcome, error) {
		account, err := client.SignUp(ctx, stringValue(payload["email"]), stringValue(payload["password"]))
		if err != nil {
			return submit.Outcome{}, err
		}
		return submit.Outcome{
			Record:     map[string]any{"id": account.ID, "email": account.Email},
			NavigateTo: redirect,
		}, nil
	})
}
