package clubelo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leaguesim/internal/clubelo"
)

func TestFetchRatings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2025-06-01", r.URL.Path)
		w.Write([]byte("Rank,Team,Country,Elo\n1,Liverpool,ENG,2040.1\n2,Brest,FRA,1480\n"))
	}))
	defer srv.Close()

	c := clubelo.New(clubelo.WithBaseURL(srv.URL))

	ratings, err := c.FetchRatings(context.Background(), "2025-06-01")

	require.NoError(t, err)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 2040.1, ratings["Liverpool"])
	assert.Equal(t, 1480.0, ratings["Brest"])
}

func TestFetchRatings_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := clubelo.New(clubelo.WithBaseURL(srv.URL))

	_, err := c.FetchRatings(context.Background(), "2025-06-01")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchRatings_BadCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("club,points\nA,10\n"))
	}))
	defer srv.Close()

	c := clubelo.New(clubelo.WithBaseURL(srv.URL))

	_, err := c.FetchRatings(context.Background(), "2025-06-01")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
}
