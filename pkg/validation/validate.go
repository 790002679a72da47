package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Validate checks values against def and returns the messages per field.
// Absent optional fields are skipped; absent required fields only get
// CodeRequired. A value of the wrong type stops further checks for that field.
func Validate(def model.FormDefinition, values map[string]any, opts ...Option) Errors {
	cfg := newOptions(opts)
	errs := make(Errors)
	for _, field := range def.Fields {
		if !cfg.includes(field.Name) {
			continue
		}
		for _, issue := range checkField(field, values[field.Name]) {
			errs.add(field.Name, cfg.translator.Translate(issue.code, issue.params(field)))
		}
	}
	return errs
}

// Field validates a single value against field.
func Field(field model.Field, value any, opts ...Option) []string {
	cfg := newOptions(opts)
	issues := checkField(field, value)
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, cfg.translator.Translate(issue.code, issue.params(field)))
	}
	return out
}

type issue struct {
	code  string
	extra map[string]any
}

func (i issue) params(field model.Field) map[string]any {
	out := map[string]any{"field": field.Name, "label": field.DisplayLabel()}
	for key, value := range i.extra {
		out[key] = value
	}
	return out
}

func checkField(field model.Field, value any) []issue {
	if IsEmpty(value) {
		if field.Required {
			return []issue{{code: CodeRequired}}
		}
		return nil
	}

	rules := collectRules(field)
	switch field.Kind {
	case model.FieldKindNumber:
		n, ok := ToFloat(value)
		if !ok {
			return []issue{{code: CodeNotNumber}}
		}
		return rules.checkNumber(n)
	case model.FieldKindInteger:
		n, ok := ToInt(value)
		if !ok {
			return []issue{{code: CodeNotInteger}}
		}
		return rules.checkNumber(float64(n))
	case model.FieldKindBoolean:
		if _, ok := ToBool(value); !ok {
			return []issue{{code: CodeNotBoolean}}
		}
		return nil
	case model.FieldKindEnum:
		if len(field.Options) > 0 && !containsOption(field.Options, value) {
			return []issue{{code: CodeNotAllowed}}
		}
		return nil
	case model.FieldKindList:
		items, ok := ToList(value)
		if !ok {
			return []issue{{code: CodeNotAllowed}}
		}
		if len(items) == 0 {
			if field.Required {
				return []issue{{code: CodeRequired}}
			}
			return nil
		}
		return rules.checkList(field.Options, items)
	case model.FieldKindReference:
		if !validReference(value) {
			return []issue{{code: CodeInvalidRef}}
		}
		if n, ok := ToFloat(value); ok {
			return rules.checkNumber(n)
		}
		return nil
	default:
		text, ok := ToText(value)
		if !ok {
			return []issue{{code: CodeNotText}}
		}
		return rules.checkText(field.Format, text)
	}
}

type bound struct {
	value     float64
	exclusive bool
}

type compiledRules struct {
	min, max       *bound
	minLen, maxLen *int
	pattern        *regexp.Regexp
	patternErr     bool
	patternExpr    string
}

func collectRules(field model.Field) compiledRules {
	var rules compiledRules
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(rule.Params["value"]); ok {
				rules.min = &bound{value: val, exclusive: rule.Params["exclusive"] == "true"}
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(rule.Params["value"]); ok {
				rules.max = &bound{value: val, exclusive: rule.Params["exclusive"] == "true"}
			}
		case model.ValidationRuleMinLength:
			if val, err := strconv.Atoi(strings.TrimSpace(rule.Params["value"])); err == nil {
				rules.minLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, err := strconv.Atoi(strings.TrimSpace(rule.Params["value"])); err == nil {
				rules.maxLen = &val
			}
		case model.ValidationRulePattern:
			expr := rule.Params["pattern"]
			if expr == "" {
				continue
			}
			rules.patternExpr = expr
			re, err := regexp.Compile(expr)
			if err != nil {
				rules.patternErr = true
				continue
			}
			rules.pattern = re
		}
	}
	return rules
}

func (r compiledRules) checkNumber(n float64) []issue {
	var out []issue
	if r.min != nil && (n < r.min.value || (r.min.exclusive && n == r.min.value)) {
		out = append(out, r.rangeIssue())
	} else if r.max != nil && (n > r.max.value || (r.max.exclusive && n == r.max.value)) {
		out = append(out, r.rangeIssue())
	}
	return out
}

func (r compiledRules) rangeIssue() issue {
	extra := map[string]any{}
	if r.min != nil {
		extra["min"] = r.min.value
	}
	if r.max != nil {
		extra["max"] = r.max.value
	}
	return issue{code: CodeOutOfRange, extra: extra}
}

func (r compiledRules) checkText(format, text string) []issue {
	var out []issue
	length := utf8.RuneCountInString(text)
	if r.minLen != nil && length < *r.minLen {
		out = append(out, issue{code: CodeTooShort, extra: map[string]any{"limit": *r.minLen}})
	}
	if r.maxLen != nil && length > *r.maxLen {
		out = append(out, issue{code: CodeTooLong, extra: map[string]any{"limit": *r.maxLen}})
	}
	switch {
	case r.patternErr:
		out = append(out, issue{code: CodeInvalidPattern, extra: map[string]any{"pattern": r.patternExpr}})
	case r.pattern != nil && !r.pattern.MatchString(text):
		out = append(out, issue{code: CodePatternMismatch, extra: map[string]any{"pattern": r.patternExpr}})
	}
	if format == model.FormatEmail && !validEmail(text) {
		out = append(out, issue{code: CodeInvalidEmail})
	}
	return out
}

func (r compiledRules) checkList(options []any, items []any) []issue {
	var out []issue
	if r.minLen != nil && len(items) < *r.minLen {
		out = append(out, issue{code: CodeTooFewItems, extra: map[string]any{"limit": *r.minLen}})
	}
	if r.maxLen != nil && len(items) > *r.maxLen {
		out = append(out, issue{code: CodeTooManyItems, extra: map[string]any{"limit": *r.maxLen}})
	}
	if len(options) > 0 {
		for _, item := range items {
			if !containsOption(options, item) {
				out = append(out, issue{code: CodeNotAllowed, extra: map[string]any{"value": item}})
				break
			}
		}
	}
	return out
}

// containsOption compares by string form so an option declared as 1 matches
// the raw input "1".
func containsOption(options []any, value any) bool {
	want := fmt.Sprint(value)
	for _, option := range options {
		if fmt.Sprint(option) == want {
			return true
		}
	}
	return false
}

func validReference(value any) bool {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	default:
		n, ok := ToInt(v)
		return ok && n >= 0
	}
}

func validEmail(text string) bool {
	addr, err := mail.ParseAddress(text)
	if err != nil || addr.Address != strings.TrimSpace(text) {
		return false
	}
	at := strings.LastIndex(addr.Address, "@")
	return at > 0 && strings.Contains(addr.Address[at+1:], ".")
}
