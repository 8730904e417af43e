// Package realdata loads real-season snapshots (club Elo ratings and final
// league-phase placements) so simulated weak-team rates can be checked
// against one observed season.
package realdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vytor/leaguesim/internal/errors"
)

// Placement group labels in phase-result files. Teams in the top8 group are
// also part of the top 24.
const (
	GroupTop8 = "top8"
	GroupRest = "9-24"
)

// PhaseResults is the final placement of one real league phase.
type PhaseResults struct {
	Top8  []string
	Top24 []string
}

// LoadRatings reads a ratings snapshot CSV with team and elo columns
// (located by header name, case-insensitive) and returns name to rating.
func LoadRatings(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigurationError("ratings_csv", fmt.Sprintf("cannot open %s: %v", path, err))
	}
	defer f.Close()
	return ParseRatings(f)
}

// ParseRatings parses a ratings snapshot from a reader.
func ParseRatings(r io.Reader) (map[string]float64, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewConfigurationError("ratings_csv", fmt.Sprintf("cannot read header: %v", err))
	}
	teamCol, eloCol := findColumn(header, "team"), findColumn(header, "elo")
	if teamCol < 0 || eloCol < 0 {
		return nil, errors.NewConfigurationError("ratings_csv", "header must name team and elo columns")
	}

	out := make(map[string]float64)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewConfigurationError("ratings_csv", fmt.Sprintf("line %d: %v", line, err))
		}
		team := strings.TrimSpace(record[teamCol])
		if team == "" {
			continue
		}
		elo, err := strconv.ParseFloat(strings.TrimSpace(record[eloCol]), 64)
		if err != nil {
			return nil, errors.NewConfigurationError("ratings_csv", fmt.Sprintf("line %d: bad elo %q", line, record[eloCol]))
		}
		out[team] = elo
	}
	return out, nil
}

// LoadPhaseResults reads a phase-results CSV with team and group columns,
// where group is top8 or 9-24.
func LoadPhaseResults(path string) (*PhaseResults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigurationError("results_csv", fmt.Sprintf("cannot open %s: %v", path, err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewConfigurationError("results_csv", fmt.Sprintf("cannot read header: %v", err))
	}
	teamCol, groupCol := findColumn(header, "team"), findColumn(header, "group")
	if teamCol < 0 || groupCol < 0 {
		return nil, errors.NewConfigurationError("results_csv", "header must name team and group columns")
	}

	res := &PhaseResults{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewConfigurationError("results_csv", fmt.Sprintf("line %d: %v", line, err))
		}
		team := strings.TrimSpace(record[teamCol])
		switch group := strings.TrimSpace(record[groupCol]); group {
		case GroupTop8:
			res.Top8 = append(res.Top8, team)
			res.Top24 = append(res.Top24, team)
		case GroupRest:
			res.Top24 = append(res.Top24, team)
		default:
			return nil, errors.NewConfigurationError("results_csv", fmt.Sprintf("line %d: unknown group %q", line, group))
		}
	}
	return res, nil
}

// CountWeak counts the listed teams whose rating falls below the threshold.
// Teams missing from the ratings map are not counted.
func CountWeak(teams []string, ratings map[string]float64, threshold float64) int {
	weak := 0
	for _, t := range teams {
		if elo, ok := ratings[t]; ok && elo < threshold {
			weak++
		}
	}
	return weak
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
