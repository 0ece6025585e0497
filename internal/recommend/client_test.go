package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobchat/internal/profile"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{URL: server.URL, SiteKey: "site-key"}, nil)
	require.NoError(t, err)

	return client
}

func TestRecommendSendsPayload(t *testing.T) {
	var got Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "site-key", r.Header.Get("X-Site-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"matches": [{"rank": 1, "title": "Working student logistics", "company": "ACME", "location": "Gummersbach", "url": "https://example.com/1", "reasons": ["close", "logistics"]}]}`)
	})

	store := profile.NewStore(profile.DefaultDefaults())
	store.Set(profile.FieldPlace, "Gummersbach")
	store.Set(profile.FieldSearchType, profile.SearchWorkingStudent)
	store.Set(profile.FieldRadius, 50)
	store.Set(profile.FieldHours, 18)
	store.Set(profile.FieldKeywords, "logistics")

	matches, err := client.Recommend(context.Background(), BuildRequest(store.Get(), DefaultFallback()))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "1", matches[0].Rank)
	assert.Equal(t, 1, matches[0].RankKey())
	assert.Equal(t, "ACME", matches[0].Company)
	assert.Equal(t, []string{"close", "logistics"}, matches[0].Reasons)

	assert.Equal(t, "Gummersbach", got.Profile.Place)
	assert.Equal(t, 18, got.Profile.HoursPerWeek)
	assert.Equal(t, "working-student", got.Filter.SearchType)
	assert.Equal(t, 50, got.Filter.RadiusKm)
	assert.Equal(t, "logistics", got.Filter.Keywords)
}

func TestRecommendUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"statusCode": 200, "body": "{\"matches\": [{\"rank\": \"2\", \"title\": \"Intern\"}, {\"title\": \"No rank\"}]}"}`)
	})

	matches, err := client.Recommend(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 2, matches[0].RankKey())
	assert.Equal(t, UnrankedKey, matches[1].RankKey())
}

func TestRecommendFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non success status",
			status: http.StatusBadGateway,
			body:   strings.Repeat("x", 500),
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusBadGateway, statusErr.Code)
				assert.True(t, strings.HasPrefix(err.Error(), "HTTP 502: xxx"))
				assert.LessOrEqual(t, len(err.Error()), len("HTTP 502: ")+200+len("..."))
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   "<html>oops</html>",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotJSON)
			},
		},
		{
			name:   "envelope body not json",
			status: http.StatusOK,
			body:   `{"body": "internal error"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotJSON)
			},
		},
		{
			name:   "top level array",
			status: http.StatusOK,
			body:   `[1, 2]`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnexpectedShape)
			},
		},
		{
			name:   "matches not an array",
			status: http.StatusOK,
			body:   `{"matches": "none"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnexpectedShape)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			matches, err := client.Recommend(context.Background(), Request{})
			require.Error(t, err)
			assert.Nil(t, matches)
			tt.check(t, err)
		})
	}
}

func TestRecommendMissingMatchesMeansEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"note": "nothing found"}`)
	})

	matches, err := client.Recommend(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRecommendNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client, err := New(Config{URL: server.URL}, nil)
	require.NoError(t, err)

	_, err = client.Recommend(context.Background(), Request{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotJSON))
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{URL: "  "}, nil)
	require.Error(t, err)
}
