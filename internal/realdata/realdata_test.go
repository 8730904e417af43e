package realdata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leaguesim/internal/realdata"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRatings(t *testing.T) {
	path := writeCSV(t, "elo.csv", "Rank,Team,Elo\n1, Real Madrid ,2010.5\n2,Aston Villa,1801\n")

	ratings, err := realdata.LoadRatings(path)

	require.NoError(t, err)
	assert.Len(t, ratings, 2)
	assert.Equal(t, 2010.5, ratings["Real Madrid"], "names and headers should be trimmed and matched case-insensitively")
	assert.Equal(t, 1801.0, ratings["Aston Villa"])
}

func TestParseRatings_MissingColumn(t *testing.T) {
	_, err := realdata.ParseRatings(strings.NewReader("club,rating\nA,1500\n"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
}

func TestParseRatings_BadValue(t *testing.T) {
	_, err := realdata.ParseRatings(strings.NewReader("team,elo\nA,not-a-number\n"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadPhaseResults(t *testing.T) {
	path := writeCSV(t, "results.csv", "team,group\nLiverpool,top8\nBarcelona,top8\nBenfica,9-24\n")

	res, err := realdata.LoadPhaseResults(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Liverpool", "Barcelona"}, res.Top8)
	assert.Equal(t, []string{"Liverpool", "Barcelona", "Benfica"}, res.Top24, "top8 teams belong to the top 24 too")
}

func TestLoadPhaseResults_UnknownGroup(t *testing.T) {
	path := writeCSV(t, "results.csv", "team,group\nLiverpool,top16\n")

	_, err := realdata.LoadPhaseResults(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown group")
}

func TestCountWeak(t *testing.T) {
	ratings := map[string]float64{"A": 1400, "B": 1600, "C": 1499.9}

	weak := realdata.CountWeak([]string{"A", "B", "C", "Unknown"}, ratings, 1500)

	assert.Equal(t, 2, weak, "only known teams below the threshold count")
}
