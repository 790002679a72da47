package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/i18n"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/submit"
)

func postDefinition() model.FormDefinition {
	def := model.MustDefinition("posts",
		model.Field{Name: "title", Label: "Title", Kind: model.FieldKindText, Required: true},
		model.Field{Name: "price", Label: "Price", Kind: model.FieldKindNumber, Required: true,
			Validations: []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}}}},
		model.Field{Name: "published", Kind: model.FieldKindBoolean},
	)
	def.Title = "Post"
	def.Metadata = map[string]string{"redirect": "/posts"}
	return def
}

type captured struct {
	payloads []submit.Payload
}

func newTestServer(t *testing.T, op submit.Operation, options ...Option) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	reg := NewRegistry()
	reg.MustRegister(Entry{
		Definition: postDefinition(),
		Operation: func(*http.Request) (submit.Operation, error) {
			return submit.OperationFunc(func(ctx context.Context, payload submit.Payload) (submit.Outcome, error) {
				c.payloads = append(c.payloads, payload)
				return op.Execute(ctx, payload)
			}), nil
		},
		Initial: func(r *http.Request) map[string]any {
			if title := r.URL.Query().Get("title"); title != "" {
				return map[string]any{"title": title}
			}
			return nil
		},
	})
	srv := httptest.NewServer(New(reg, options...).Handler())
	t.Cleanup(srv.Close)
	return srv, c
}

func succeed() submit.Operation {
	return submit.OperationFunc(func(context.Context, submit.Payload) (submit.Outcome, error) {
		return submit.Outcome{}, nil
	})
}

func post(t *testing.T, url, body string, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestListAndShow(t *testing.T) {
	srv, _ := newTestServer(t, succeed())

	resp, err := http.Get(srv.URL + "/forms")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []formSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, []formSummary{{ID: "posts", Title: "Post", Fields: 3}}, list)

	resp, err = http.Get(srv.URL + "/forms/posts?title=Hello")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var show struct {
		Fields []struct {
			Name   string `json:"name"`
			Widget string `json:"widget"`
			Value  any    `json:"value"`
		} `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&show))
	require.Len(t, show.Fields, 3)
	assert.Equal(t, "Hello", show.Fields[0].Value)
	assert.Equal(t, "number", show.Fields[1].Widget)
	assert.Equal(t, "checkbox", show.Fields[2].Widget)

	resp, err = http.Get(srv.URL + "/forms/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidate(t *testing.T) {
	srv, _ := newTestServer(t, succeed())

	resp, body := post(t, srv.URL+"/forms/posts/validate", `{"title":"","price":-5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, map[string]any{
		"title": []any{"required"},
		"price": []any{"out of range"},
	}, body["errors"])

	_, body = post(t, srv.URL+"/forms/posts/validate?field=price", `{"title":"","price":3}`)
	assert.Equal(t, true, body["valid"])
}

func TestValidate_Localised(t *testing.T) {
	bundle, err := i18n.New()
	require.NoError(t, err)
	srv, _ := newTestServer(t, succeed(), WithTranslations(bundle))

	_, body := post(t, srv.URL+"/forms/posts/validate", `{"price":1}`, "Accept-Language", "es")
	assert.Equal(t, map[string]any{"title": []any{"Title es obligatorio"}}, body["errors"])
}

func TestSubmit_Success(t *testing.T) {
	srv, c := newTestServer(t, succeed())

	resp, body := post(t, srv.URL+"/forms/posts/submit", `{"title":"Hello","price":"12.5","published":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "/posts", body["navigateTo"])
	require.Len(t, c.payloads, 1)
	assert.Equal(t, submit.Payload{"title": "Hello", "price": 12.5, "published": true}, c.payloads[0])
}

func TestSubmit_ValidationBlocksOperation(t *testing.T) {
	srv, c := newTestServer(t, succeed())

	resp, body := post(t, srv.URL+"/forms/posts/submit", `{"title":"","price":-5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "idle", body["status"])
	assert.Empty(t, c.payloads)
}

func TestSubmit_FailureCarriesMessageAndFieldErrors(t *testing.T) {
	op := submit.OperationFunc(func(context.Context, submit.Payload) (submit.Outcome, error) {
		return submit.Outcome{}, &submit.Error{
			Message: "duplicate title",
			Fields:  map[string][]string{"body.title": {"already used"}},
		}
	})
	srv, _ := newTestServer(t, op)

	resp, body := post(t, srv.URL+"/forms/posts/submit", `{"title":"Hello","price":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "failure", body["status"])
	assert.Equal(t, "duplicate title", body["message"])
	assert.Equal(t, map[string]any{"title": []any{"already used"}}, body["errors"])
	assert.Equal(t, []any{map[string]any{
		"title":       "Error",
		"description": "duplicate title",
		"status":      "failure",
	}}, body["notifications"])
}

func TestSubmit_FallbackMessageLocalised(t *testing.T) {
	bundle, err := i18n.New()
	require.NoError(t, err)
	op := submit.OperationFunc(func(context.Context, submit.Payload) (submit.Outcome, error) {
		return submit.Outcome{}, &submit.Error{}
	})
	srv, _ := newTestServer(t, op, WithTranslations(bundle))

	_, body := post(t, srv.URL+"/forms/posts/submit", `{"title":"Hello","price":1}`, "Accept-Language", "es")
	assert.Equal(t, "Algo salió mal, inténtalo de nuevo.", body["message"])
}

func TestSubmit_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, succeed())
	resp, body := post(t, srv.URL+"/forms/posts/submit", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid JSON body")
}

func TestRateLimit(t *testing.T) {
	limiter := NewClientLimiter(0.001, 2, time.Minute)
	srv, _ := newTestServer(t, succeed(), WithRateLimit(limiter))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/forms")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientLimiter_Cleanup(t *testing.T) {
	limiter := NewClientLimiter(1, 1, time.Minute)
	now := time.Unix(0, 0)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	now = now.Add(2 * time.Minute)
	limiter.Cleanup()
	assert.Empty(t, limiter.limiters)
}

func TestMetricsEndpoint(t *testing.T) {
	recorder := metrics.New(false)
	srv, _ := newTestServer(t, succeed(), WithMetrics(recorder))

	post(t, srv.URL+"/forms/posts/submit", `{"title":"Hello","price":1}`)
	post(t, srv.URL+"/forms/posts/submit", `{"title":""}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	text := buf.String()
	assert.Contains(t, text, `formflow_submissions_total{form="posts",outcome="success"} 1`)
	assert.Contains(t, text, `formflow_validation_failures_total{form="posts"} 1`)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	entry := Entry{Definition: postDefinition(), Operation: func(*http.Request) (submit.Operation, error) { return nil, nil }}
	require.NoError(t, reg.Register(entry))
	assert.Error(t, reg.Register(entry))
	assert.Error(t, reg.Register(Entry{Definition: model.FormDefinition{ID: "x"}}))
	assert.True(t, reg.Has("posts"))

	_, err := reg.Get("nope")
	assert.True(t, errors.Is(err, ErrFormNotFound))
	assert.Equal(t, []string{"posts"}, reg.List())
}
