package backend

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formflow/pkg/submit"
)

// UniqueViolationCode is the SQLSTATE of unique constraint violations.
const UniqueViolationCode = "23505"

// "Key (slug)=(lamp) already exists."
var keyDetail = regexp.MustCompile(`Key \(([^)]+)\)=\((.*)\) already exists`)

// UniqueViolation converts a unique constraint violation into a submission
// error naming the conflicting column. detail is the server detail line;
// constraint is used when detail does not name the column.
func UniqueViolation(detail, constraint string, status int, cause error) *submit.Error {
	column := ""
	if m := keyDetail.FindStringSubmatch(detail); len(m) == 3 {
		column = strings.TrimSpace(m[1])
	}
	if column == "" {
		column = columnFromConstraint(constraint)
	}
	out := &submit.Error{
		Message: "duplicate value",
		Code:    UniqueViolationCode,
		Status:  status,
		Err:     cause,
	}
	if column != "" && !strings.Contains(column, ",") {
		out.Message = fmt.Sprintf("duplicate %s", column)
		out.Fields = map[string][]string{column: {"already taken"}}
	}
	return out
}

// products_slug_key -> slug
func columnFromConstraint(constraint string) string {
	name := strings.TrimSuffix(constraint, "_key")
	if name == constraint {
		return ""
	}
	if idx := strings.LastIndex(name, "_"); idx >= 0 {
		return name[idx+1:]
	}
	return ""
}
