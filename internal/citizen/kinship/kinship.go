// Package kinship keeps the relatives graph of an import symmetric.
//
// Validate checks the graph of a new batch and produces the directed links to
// store. Diff computes the edge changes that move one citizen's relatives to a
// requested set without breaking symmetry.
package kinship

import (
	"fmt"
	"strconv"

	"census/internal/citizen/models"
	"census/internal/citizen/validation"
	"census/pkg/platform/sets"
)

const (
	summaryBatch = "invalid relationships"
	summaryPatch = "invalid relatives"
)

// Validate checks citizen_id uniqueness, that every relative is part of the
// batch and that every relationship is declared on both sides. All problems
// are reported together.
//
// The result holds one link per declared direction, so a mutual pair yields
// two links and a citizen listing itself yields one.
func Validate(citizens []models.Citizen) ([]models.Link, error) {
	errs := validation.Errors{}

	declared := make(map[models.CitizenID]map[models.CitizenID]struct{}, len(citizens))
	duplicate := make(map[int]bool)
	for i, c := range citizens {
		if _, seen := declared[c.CitizenID]; seen {
			errs.Add(citizenPath(i, models.FieldCitizenID), fmt.Sprintf("Duplicate citizen_id %d.", c.CitizenID))
			duplicate[i] = true
			continue
		}
		relatives := make(map[models.CitizenID]struct{}, len(c.Relatives))
		for _, rel := range c.Relatives {
			relatives[rel] = struct{}{}
		}
		declared[c.CitizenID] = relatives
	}

	links := make([]models.Link, 0)
	for i, c := range citizens {
		if duplicate[i] {
			continue
		}
		path := citizenPath(i, models.FieldRelatives)
		for _, rel := range sets.Duplicates(c.Relatives) {
			errs.Add(path, fmt.Sprintf("Relative %d is listed more than once.", rel))
		}
		for _, rel := range sets.Dedupe(c.Relatives) {
			back, ok := declared[rel]
			if !ok {
				errs.Add(path, fmt.Sprintf("Unknown relative %d.", rel))
				continue
			}
			if _, mutual := back[c.CitizenID]; !mutual {
				errs.Add(path, fmt.Sprintf("Relative %d does not list citizen %d.", rel, c.CitizenID))
				continue
			}
			links = append(links, models.Link{CitizenID: c.CitizenID, RelativeID: rel})
		}
	}

	if err := errs.Err(summaryBatch); err != nil {
		return nil, err
	}
	return links, nil
}

// Diff computes the change that turns current into requested for the citizen
// stored under citizen. Both lists hold citizen_ids of the same import and
// are treated as sets. Every requested id must resolve through ids.
//
// Each added relative contributes both directed edges (one for a self
// reference); each removed relative is to be deleted in both directions.
func Diff(citizen models.StorageID, current, requested []models.CitizenID, ids *models.IDMap) (models.RelativesDiff, error) {
	errs := validation.Errors{}
	for i, rel := range requested {
		if _, ok := ids.StorageID(rel); !ok {
			errs.Add(models.FieldRelatives+"."+strconv.Itoa(i), fmt.Sprintf("Unknown relative %d.", rel))
		}
	}
	if err := errs.Err(summaryPatch); err != nil {
		return models.RelativesDiff{}, err
	}

	diff := models.RelativesDiff{
		Citizen: citizen,
		Add:     []models.Edge{},
		Remove:  []models.StorageID{},
	}
	for _, rel := range sets.Difference(requested, current) {
		sid, _ := ids.StorageID(rel)
		diff.Add = append(diff.Add, models.Edge{CitizenRef: citizen, RelativeRef: sid})
		if sid != citizen {
			diff.Add = append(diff.Add, models.Edge{CitizenRef: sid, RelativeRef: citizen})
		}
	}
	for _, rel := range sets.Difference(current, requested) {
		if sid, ok := ids.StorageID(rel); ok {
			diff.Remove = append(diff.Remove, sid)
		}
	}
	return diff, nil
}

func citizenPath(i int, field string) string {
	return "citizens." + strconv.Itoa(i) + "." + field
}
