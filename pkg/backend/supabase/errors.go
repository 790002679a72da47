package supabase

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formflow/pkg/backend"
	"github.com/goliatone/go-formflow/pkg/submit"
)

var messagePaths = []string{"msg", "message", "error_description", "error"}

// parseError maps an error response onto *submit.Error. Auth endpoints use
// msg/error_description, PostgREST uses message/details/hint/code.
func parseError(status int, body []byte) *submit.Error {
	doc := gjson.ParseBytes(body)
	code := firstString(doc, "code", "error_code")
	details := firstString(doc, "details")

	if code == backend.UniqueViolationCode {
		return backend.UniqueViolation(details, constraintName(firstString(doc, "message")), status, nil)
	}

	message := firstString(doc, messagePaths...)
	if message == "" && status == http.StatusTooManyRequests {
		message = "Too many requests, please wait a moment."
	}
	out := &submit.Error{
		Message: message,
		Code:    code,
		Status:  status,
	}
	if errs := doc.Get("errors"); errs.IsObject() {
		out.Fields = make(map[string][]string)
		errs.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() {
				for _, item := range value.Array() {
					out.Fields[key.String()] = append(out.Fields[key.String()], item.String())
				}
			} else {
				out.Fields[key.String()] = append(out.Fields[key.String()], value.String())
			}
			return true
		})
	}
	return out
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := doc.Get(path); v.Exists() && v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// `duplicate key value violates unique constraint "products_slug_key"`
func constraintName(message string) string {
	start := strings.Index(message, `"`)
	end := strings.LastIndex(message, `"`)
	if start < 0 || end <= start {
		return ""
	}
	return message[start+1 : end]
}
