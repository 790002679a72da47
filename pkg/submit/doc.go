// Package submit drives the validate-then-submit sequence for one form
// instance. A Coordinator wraps a form.Controller and an Operation (the
// external call, e.g. "insert product" or "sign up"), allows at most one
// submission in flight, projects the form values into a Payload and records
// the outcome as a form.Result. Failures never escape as Go errors: they
// become a Failure result plus a Notification for the host to display.
package submit
