// Package stats computes the aggregate views of an import: presents owed per
// month and per-town age percentiles. Both work on plain read models and do
// no I/O.
package stats

import (
	"math"
	"sort"
	"time"

	"census/internal/citizen/models"
)

// Percentiles reported per town.
const (
	P50 = 50.0
	P75 = 75.0
	P99 = 99.0
)

// BirthdayPresents counts, for every citizen and month, how many of the
// citizen's relatives were born in that month. Each stored edge
// (owner, relative) adds one present to the owner under the relative's birth
// month. Edges whose endpoints are not in infos are ignored.
func BirthdayPresents(infos []models.BirthInfo, edges []models.Edge) models.BirthdayStats {
	byStorage := make(map[models.StorageID]models.BirthInfo, len(infos))
	for _, info := range infos {
		byStorage[info.StorageID] = info
	}

	var counts [12]map[models.CitizenID]int
	for _, e := range edges {
		owner, ok := byStorage[e.CitizenRef]
		if !ok {
			continue
		}
		relative, ok := byStorage[e.RelativeRef]
		if !ok {
			continue
		}
		m := relative.BirthDate.Month() - 1
		if counts[m] == nil {
			counts[m] = make(map[models.CitizenID]int)
		}
		counts[m][owner.CitizenID]++
	}

	out := models.NewBirthdayStats()
	for i, perCitizen := range counts {
		ids := make([]models.CitizenID, 0, len(perCitizen))
		for id := range perCitizen {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		for _, id := range ids {
			out.Add(time.Month(i+1), models.PresentCount{CitizenID: id, Presents: perCitizen[id]})
		}
	}
	return out
}

// TownAgePercentiles groups citizens by town and reports the 50th, 75th and
// 99th percentile of their whole-year ages at now. Towns are ordered by name.
func TownAgePercentiles(rows []models.TownBirthDate, now time.Time) []models.TownAgeStat {
	ages := make(map[string][]float64)
	for _, row := range rows {
		ages[row.Town] = append(ages[row.Town], float64(row.BirthDate.AgeAt(now)))
	}

	towns := make([]string, 0, len(ages))
	for town := range ages {
		towns = append(towns, town)
	}
	sort.Strings(towns)

	out := make([]models.TownAgeStat, 0, len(towns))
	for _, town := range towns {
		sorted := ages[town]
		sort.Float64s(sorted)
		out = append(out, models.TownAgeStat{
			Town: town,
			P50:  Percentile(sorted, P50),
			P75:  Percentile(sorted, P75),
			P99:  Percentile(sorted, P99),
		})
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of an ascending slice by
// linear interpolation between the closest ranks: rank = p/100*(n-1). It
// returns NaN for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if hi >= n {
		hi = n - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
