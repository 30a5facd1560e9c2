package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var complete = Explanation{
	Conceptual:     "Force changes motion.",
	Visual:         "A block with two arrows.",
	Mathematical:   "`F = ma`",
	ProblemSolving: "Draw a free body diagram.",
	Experiment:     "Push an eraser and a book.",
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"Beginner", Beginner},
		{"intermediate", Intermediate},
		{" ADVANCED ", Advanced},
		{"مبتدئ", Beginner},
		{"متقدم", Advanced},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("expert")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestRequestJSON(t *testing.T) {
	data, err := json.Marshal(Request{Topic: "Newton's second law", Level: Intermediate})
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"Newton's second law","level":"متوسط"}`, string(data))

	var back Request
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Intermediate, back.Level)

	_, err = json.Marshal(Request{Topic: "x"})
	assert.Error(t, err)
}

func TestRequestValidate(t *testing.T) {
	assert.Error(t, Request{Level: Beginner}.Validate())
	assert.ErrorIs(t, Request{Topic: "waves"}.Validate(), ErrInvalidLevel)
	assert.NoError(t, Request{Topic: "waves", Level: Advanced}.Validate())
}

func TestExplain(t *testing.T) {
	var got Request
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(complete)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	e, err := c.Explain(context.Background(), Request{Topic: "Newton's second law", Level: Beginner})
	require.NoError(t, err)

	assert.Equal(t, complete, *e)
	assert.Equal(t, "Newton's second law", got.Topic)
	assert.Equal(t, Beginner, got.Level)
	assert.Equal(t, "Bearer secret", auth)
	assert.Len(t, e.Sections(), 5)
	assert.Equal(t, "Problem solving", e.Sections()[3].Title)
}

func TestExplainRejectsIncompleteResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"conceptual":"a","visual":"b","mathematical":"c","problemSolving":"d"}`},
		{"empty field", `{"conceptual":"a","visual":"b","mathematical":"c","problemSolving":"d","experiment":"  "}`},
		{"wrong type", `{"conceptual":"a","visual":"b","mathematical":3,"problemSolving":"d","experiment":"e"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "").Explain(context.Background(), Request{Topic: "t", Level: Beginner})
			assert.ErrorIs(t, err, ErrIncompleteExplanation)
		})
	}
}

func TestExplainServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing topic or level"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Explain(context.Background(), Request{Topic: "t", Level: Beginner})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing topic or level")
	assert.Contains(t, err.Error(), "400")
}

func TestExplainValidatesBeforeSending(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Explain(context.Background(), Request{Topic: ""})
	assert.Error(t, err)
	assert.False(t, called)
}
