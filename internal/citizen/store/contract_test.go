package store_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"census/internal/citizen/models"
	"census/internal/citizen/ports"
	"census/pkg/platform/sentinel"
)

// StoreContractSuite holds the behaviour every ports.Store implementation
// must share. Concrete suites embed it and set tx in their setup.
type StoreContractSuite struct {
	suite.Suite
	tx ports.Transactor
}

func makeCitizen(id models.CitizenID, town string, birth models.Date, relatives ...models.CitizenID) models.Citizen {
	if relatives == nil {
		relatives = []models.CitizenID{}
	}
	return models.Citizen{
		CitizenID: id,
		Town:      town,
		Street:    "Льва Толстого",
		Building:  "16к7стр5",
		Apartment: int64(id) + 6,
		Name:      "Иванов Иван Иванович",
		BirthDate: birth,
		Gender:    models.GenderMale,
		Relatives: relatives,
	}
}

func links(pairs ...[2]models.CitizenID) []models.Link {
	var out []models.Link
	for _, p := range pairs {
		out = append(out, models.Link{CitizenID: p[0], RelativeID: p[1]})
		if p[0] != p[1] {
			out = append(out, models.Link{CitizenID: p[1], RelativeID: p[0]})
		}
	}
	return out
}

func (s *StoreContractSuite) createImport(citizens []models.Citizen, l []models.Link) models.ImportID {
	s.T().Helper()
	var importID models.ImportID
	err := s.tx.RunInTx(context.Background(), func(store ports.Store) error {
		var err error
		importID, err = store.CreateImport(context.Background(), citizens, l)
		return err
	})
	s.Require().NoError(err)
	return importID
}

func (s *StoreContractSuite) read(fn func(store ports.Store) error) {
	s.T().Helper()
	s.Require().NoError(s.tx.RunReadOnly(context.Background(), fn))
}

func (s *StoreContractSuite) familyImport() models.ImportID {
	return s.createImport([]models.Citizen{
		makeCitizen(3, "Москва", models.NewDate(1986, time.December, 26)),
		makeCitizen(1, "Москва", models.NewDate(1990, time.March, 1), 2),
		makeCitizen(2, "Керчь", models.NewDate(1992, time.May, 10), 1),
	}, links([2]models.CitizenID{1, 2}))
}

func (s *StoreContractSuite) TestCreateAndGetCitizens() {
	ctx := context.Background()
	importID := s.familyImport()
	s.Positive(int64(importID))

	s.read(func(store ports.Store) error {
		citizens, err := store.GetCitizens(ctx, importID)
		s.Require().NoError(err)
		s.Require().Len(citizens, 3)

		s.Equal(models.CitizenID(1), citizens[0].CitizenID)
		s.Equal([]models.CitizenID{2}, citizens[0].Relatives)
		s.Equal([]models.CitizenID{1}, citizens[1].Relatives)
		s.Equal([]models.CitizenID{}, citizens[2].Relatives)
		s.Equal("26.12.1986", citizens[2].BirthDate.String())
		s.Equal("Льва Толстого", citizens[2].Street)
		s.Equal(int64(9), citizens[2].Apartment)
		return nil
	})
}

func (s *StoreContractSuite) TestImportIDsIncrease() {
	first := s.familyImport()
	second := s.familyImport()
	s.Greater(int64(second), int64(first))

	// citizen_id is unique per import only
	s.read(func(store ports.Store) error {
		a, err := store.GetCitizen(context.Background(), first, 1)
		s.Require().NoError(err)
		b, err := store.GetCitizen(context.Background(), second, 1)
		s.Require().NoError(err)
		s.Equal(a.CitizenID, b.CitizenID)
		return nil
	})
}

func (s *StoreContractSuite) TestMissingImport() {
	ctx := context.Background()
	s.read(func(store ports.Store) error {
		_, err := store.GetCitizens(ctx, 999999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = store.GetCitizen(ctx, 999999, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = store.ResolveIDs(ctx, 999999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = store.ListBirthInfos(ctx, 999999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = store.ListTownBirthDates(ctx, 999999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
}

func (s *StoreContractSuite) TestUpdateCitizenFields() {
	ctx := context.Background()
	importID := s.familyImport()
	town := "Санкт-Петербург"
	birth := models.NewDate(2000, time.February, 29)

	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		return store.UpdateCitizenFields(ctx, importID, 3, &models.CitizenPatch{Town: &town, BirthDate: &birth})
	})
	s.Require().NoError(err)

	s.read(func(store ports.Store) error {
		c, err := store.GetCitizen(ctx, importID, 3)
		s.Require().NoError(err)
		s.Equal(town, c.Town)
		s.Equal("29.02.2000", c.BirthDate.String())
		s.Equal("Иванов Иван Иванович", c.Name)
		return nil
	})

	s.Run("unknown citizen", func() {
		err := s.tx.RunInTx(ctx, func(store ports.Store) error {
			return store.UpdateCitizenFields(ctx, importID, 42, &models.CitizenPatch{Town: &town})
		})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *StoreContractSuite) TestRelativeEdges() {
	ctx := context.Background()
	importID := s.familyImport()

	var ids *models.IDMap
	s.read(func(store ports.Store) error {
		var err error
		ids, err = store.ResolveIDs(ctx, importID)
		s.Require().NoError(err)
		s.Equal(3, ids.Len())
		return nil
	})
	one, _ := ids.StorageID(1)
	two, _ := ids.StorageID(2)
	three, _ := ids.StorageID(3)

	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		if err := store.RemoveRelatives(ctx, one, []models.StorageID{two}); err != nil {
			return err
		}
		return store.AddRelativeEdges(ctx, []models.Edge{
			{CitizenRef: one, RelativeRef: three},
			{CitizenRef: three, RelativeRef: one},
		})
	})
	s.Require().NoError(err)

	s.read(func(store ports.Store) error {
		rel, err := store.GetRelativeStorageIDs(ctx, one)
		s.Require().NoError(err)
		s.Equal([]models.StorageID{three}, rel)

		rel, err = store.GetRelativeStorageIDs(ctx, two)
		s.Require().NoError(err)
		s.Empty(rel)

		edges, err := store.ListEdges(ctx, importID)
		s.Require().NoError(err)
		s.ElementsMatch([]models.Edge{
			{CitizenRef: one, RelativeRef: three},
			{CitizenRef: three, RelativeRef: one},
		}, edges)
		return nil
	})
}

func (s *StoreContractSuite) TestDuplicateEdgeConflicts() {
	ctx := context.Background()
	importID := s.familyImport()

	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		ids, err := store.ResolveIDs(ctx, importID)
		if err != nil {
			return err
		}
		one, _ := ids.StorageID(1)
		two, _ := ids.StorageID(2)
		return store.AddRelativeEdges(ctx, []models.Edge{{CitizenRef: one, RelativeRef: two}})
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *StoreContractSuite) TestFailedTransactionLeavesNoTrace() {
	ctx := context.Background()
	importID := s.familyImport()
	boom := errors.New("boom")
	town := "Тверь"

	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		if err := store.UpdateCitizenFields(ctx, importID, 1, &models.CitizenPatch{Town: &town}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	s.read(func(store ports.Store) error {
		c, err := store.GetCitizen(ctx, importID, 1)
		s.Require().NoError(err)
		s.Equal("Москва", c.Town)
		return nil
	})
}

func (s *StoreContractSuite) TestDuplicateCitizenIDRollsBackImport() {
	ctx := context.Background()
	var created models.ImportID
	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		var err error
		created, err = store.CreateImport(ctx, []models.Citizen{
			makeCitizen(1, "Москва", models.NewDate(1990, time.March, 1)),
			makeCitizen(1, "Москва", models.NewDate(1990, time.March, 1)),
		}, nil)
		return err
	})
	s.ErrorIs(err, sentinel.ErrConflict)

	if created > 0 {
		s.read(func(store ports.Store) error {
			_, err := store.GetCitizens(ctx, created)
			s.ErrorIs(err, sentinel.ErrNotFound)
			return nil
		})
	}
}

func (s *StoreContractSuite) TestReadModels() {
	ctx := context.Background()
	importID := s.familyImport()

	s.read(func(store ports.Store) error {
		infos, err := store.ListBirthInfos(ctx, importID)
		s.Require().NoError(err)
		s.Len(infos, 3)

		towns, err := store.ListTownBirthDates(ctx, importID)
		s.Require().NoError(err)
		s.Require().Len(towns, 3)
		s.Equal("Керчь", towns[0].Town)
		s.Equal("Москва", towns[2].Town)

		edges, err := store.ListEdges(ctx, importID)
		s.Require().NoError(err)
		s.Len(edges, 2)
		return nil
	})
}

func (s *StoreContractSuite) TestSelfReference() {
	ctx := context.Background()
	importID := s.createImport([]models.Citizen{
		makeCitizen(1, "Москва", models.NewDate(1990, time.March, 1), 1),
	}, links([2]models.CitizenID{1, 1}))

	s.read(func(store ports.Store) error {
		c, err := store.GetCitizen(ctx, importID, 1)
		s.Require().NoError(err)
		s.Equal([]models.CitizenID{1}, c.Relatives)
		return nil
	})
}

func (s *StoreContractSuite) TestImportVersion() {
	ctx := context.Background()
	importID := s.familyImport()
	other := s.familyImport()

	s.read(func(store ports.Store) error {
		v, err := store.GetImportVersion(ctx, importID)
		s.Require().NoError(err)
		s.Equal(models.ImportVersion(0), v)
		return nil
	})

	var bumped models.ImportVersion
	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		var err error
		bumped, err = store.BumpImportVersion(ctx, importID)
		return err
	})
	s.Require().NoError(err)
	s.Equal(models.ImportVersion(1), bumped)

	s.read(func(store ports.Store) error {
		v, err := store.GetImportVersion(ctx, importID)
		s.Require().NoError(err)
		s.Equal(models.ImportVersion(1), v)

		v, err = store.GetImportVersion(ctx, other)
		s.Require().NoError(err)
		s.Equal(models.ImportVersion(0), v, "versions are per import")

		_, err = store.GetImportVersion(ctx, 999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		return nil
	})
}

func (s *StoreContractSuite) TestFailedTransactionKeepsVersion() {
	ctx := context.Background()
	importID := s.familyImport()
	boom := errors.New("boom")

	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		if _, err := store.BumpImportVersion(ctx, importID); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	err = s.tx.RunInTx(ctx, func(store ports.Store) error {
		_, err := store.BumpImportVersion(ctx, 999)
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.read(func(store ports.Store) error {
		v, err := store.GetImportVersion(ctx, importID)
		s.Require().NoError(err)
		s.Equal(models.ImportVersion(0), v)
		return nil
	})
}
