package validation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"census/internal/citizen/models"
	dErrors "census/pkg/domain-errors"
	"census/pkg/requestcontext"
)

var fixedNow = time.Date(2019, time.August, 20, 12, 0, 0, 0, time.UTC)

const validCitizen = `{
	"citizen_id": 1,
	"town": "Москва",
	"street": "Льва Толстого",
	"building": "16к7стр5",
	"apartment": 7,
	"name": "Иванов Иван Иванович",
	"birth_date": "26.12.1986",
	"gender": "male",
	"relatives": [2]
}`

type ValidationSuite struct {
	suite.Suite
	ctx context.Context
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func (s *ValidationSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), fixedNow)
}

func (s *ValidationSuite) decodeImportErrors(body string) Errors {
	s.T().Helper()
	_, err := DecodeImport(s.ctx, []byte(body))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	errs, ok := FromError(err)
	s.Require().True(ok)
	return errs
}

func (s *ValidationSuite) decodePatchErrors(body string) Errors {
	s.T().Helper()
	_, err := DecodePatch(s.ctx, []byte(body))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	errs, ok := FromError(err)
	s.Require().True(ok)
	return errs
}

func withField(field, value string) string {
	return `{"citizens":[` + replaceField(validCitizen, field, value) + `]}`
}

// replaceField swaps the value of one field of validCitizen.
func replaceField(doc, field, value string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, `"`+field+`":`) {
			suffix := ""
			if strings.HasSuffix(trimmed, ",") {
				suffix = ","
			}
			lines[i] = "\t\"" + field + "\": " + value + suffix
		}
	}
	return strings.Join(lines, "\n")
}

func (s *ValidationSuite) TestDecodeImport() {
	s.Run("valid batch decodes", func() {
		body := `{"citizens":[` + validCitizen + `,` + replaceField(replaceField(validCitizen, "citizen_id", "2"), "relatives", "[1]") + `]}`
		req, err := DecodeImport(s.ctx, []byte(body))
		s.Require().NoError(err)
		s.Require().Len(req.Citizens, 2)
		c := req.Citizens[0]
		s.Equal(models.CitizenID(1), c.CitizenID)
		s.Equal("Москва", c.Town)
		s.Equal(int64(7), c.Apartment)
		s.Equal(models.GenderMale, c.Gender)
		s.Equal("26.12.1986", c.BirthDate.String())
		s.Equal([]models.CitizenID{2}, c.Relatives)
		s.True(req.FieldsChecked())
	})

	s.Run("empty relatives decode to empty slice", func() {
		req, err := DecodeImport(s.ctx, []byte(withField("relatives", "[]")))
		s.Require().NoError(err)
		s.NotNil(req.Citizens[0].Relatives)
		s.Empty(req.Citizens[0].Relatives)
	})

	s.Run("envelope problems", func() {
		cases := map[string]struct {
			body string
			path string
			msg  string
		}{
			"not json":        {`{"citizens":`, SchemaKey, MsgInvalidJSON},
			"array body":      {`[]`, SchemaKey, MsgObject},
			"missing list":    {`{}`, envelopeField, MsgRequired},
			"empty list":      {`{"citizens":[]}`, envelopeField, MsgEmptyList},
			"null list":       {`{"citizens":null}`, envelopeField, MsgNull},
			"list not array":  {`{"citizens":{}}`, envelopeField, MsgList},
			"citizen is list": {`{"citizens":[[]]}`, "citizens.0", MsgObject},
		}
		for name, tc := range cases {
			s.Run(name, func() {
				errs := s.decodeImportErrors(tc.body)
				s.Contains(errs[tc.path], tc.msg)
			})
		}
	})

	s.Run("unknown top level field", func() {
		errs := s.decodeImportErrors(`{"citizens":[` + validCitizen + `],"extra":1}`)
		s.Equal([]string{MsgUnknownField}, errs["extra"])
	})

	s.Run("empty citizen object lists every missing field", func() {
		errs := s.decodeImportErrors(`{"citizens":[{}]}`)
		for _, field := range models.CitizenFields {
			s.Equal([]string{MsgRequired}, errs["citizens.0."+field], field)
		}
		s.Len(errs, len(models.CitizenFields))
	})

	s.Run("unknown citizen field", func() {
		body := `{"citizens":[` + strings.Replace(validCitizen, `"citizen_id": 1,`, `"citizen_id": 1, "age": 30,`, 1) + `]}`
		errs := s.decodeImportErrors(body)
		s.Equal([]string{MsgUnknownField}, errs["citizens.0.age"])
	})

	s.Run("field type and value rules", func() {
		cases := []struct {
			field string
			value string
			path  string
			msg   string
		}{
			{"citizen_id", `"1"`, "citizen_id", MsgInteger},
			{"citizen_id", `1.0`, "citizen_id", MsgInteger},
			{"citizen_id", `1e2`, "citizen_id", MsgInteger},
			{"citizen_id", `true`, "citizen_id", MsgInteger},
			{"citizen_id", `0`, "citizen_id", MsgPositive},
			{"citizen_id", `-3`, "citizen_id", MsgPositive},
			{"citizen_id", `null`, "citizen_id", MsgNull},
			{"apartment", `0`, "apartment", MsgPositive},
			{"apartment", `"7"`, "apartment", MsgInteger},
			{"town", `""`, "town", MsgLength},
			{"town", `12`, "town", MsgString},
			{"street", `"` + strings.Repeat("ж", 257) + `"`, "street", MsgLength},
			{"building", `null`, "building", MsgNull},
			{"name", `["a"]`, "name", MsgString},
			{"gender", `"other"`, "gender", MsgGender},
			{"gender", `"Male"`, "gender", MsgGender},
			{"birth_date", `"1.1.2019"`, "birth_date", MsgDate},
			{"birth_date", `"2019-01-01"`, "birth_date", MsgDate},
			{"birth_date", `"31.02.2019"`, "birth_date", MsgDate},
			{"birth_date", `"20.08.2019"`, "birth_date", MsgPastDate},
			{"birth_date", `"01.01.2030"`, "birth_date", MsgPastDate},
			{"relatives", `"2"`, "relatives", MsgList},
			{"relatives", `[0]`, "relatives.0", MsgPositive},
			{"relatives", `[2, "3"]`, "relatives.1", MsgInteger},
		}
		for _, tc := range cases {
			s.Run(tc.field+"="+tc.value, func() {
				errs := s.decodeImportErrors(withField(tc.field, tc.value))
				s.Equal([]string{tc.msg}, errs["citizens.0."+tc.path])
			})
		}
	})

	s.Run("boundary values accepted", func() {
		body := replaceField(validCitizen, "town", `"`+strings.Repeat("ж", 256)+`"`)
		body = replaceField(body, "birth_date", `"19.08.2019"`)
		_, err := DecodeImport(s.ctx, []byte(`{"citizens":[`+body+`]}`))
		s.NoError(err)
	})

	s.Run("errors of several citizens are all reported", func() {
		second := replaceField(replaceField(validCitizen, "citizen_id", "2"), "gender", `"x"`)
		first := replaceField(validCitizen, "apartment", "0")
		errs := s.decodeImportErrors(`{"citizens":[` + first + `,` + second + `]}`)
		s.Contains(errs, "citizens.0.apartment")
		s.Contains(errs, "citizens.1.gender")
	})
}

func (s *ValidationSuite) TestDecodePatch() {
	s.Run("partial fields decode", func() {
		p, err := DecodePatch(s.ctx, []byte(`{"name":"Иванова Мария Леонидовна","town":"Москва","relatives":[]}`))
		s.Require().NoError(err)
		s.Equal("Иванова Мария Леонидовна", *p.Name)
		s.Equal("Москва", *p.Town)
		s.Require().NotNil(p.Relatives)
		s.Empty(*p.Relatives)
		s.Nil(p.Street)
		s.Nil(p.BirthDate)
	})

	s.Run("citizen_id is rejected before anything else", func() {
		errs := s.decodePatchErrors(`{"citizen_id":1,"town":""}`)
		s.Equal(Errors{models.FieldCitizenID: {MsgImmutableID}}, errs)
	})

	s.Run("citizen_id with null value is still rejected", func() {
		errs := s.decodePatchErrors(`{"citizen_id":null}`)
		s.Contains(errs, models.FieldCitizenID)
	})

	s.Run("empty patch rejected", func() {
		errs := s.decodePatchErrors(`{}`)
		s.Equal([]string{MsgEmptyPatch}, errs[SchemaKey])
	})

	s.Run("field rules apply to sent fields only", func() {
		errs := s.decodePatchErrors(`{"apartment":0,"birth_date":"01.01.2099","gender":null,"foo":1}`)
		s.Equal([]string{MsgPositive}, errs["apartment"])
		s.Equal([]string{MsgPastDate}, errs["birth_date"])
		s.Equal([]string{MsgNull}, errs["gender"])
		s.Equal([]string{MsgUnknownField}, errs["foo"])
		s.Len(errs, 4)
	})

	s.Run("non object body", func() {
		errs := s.decodePatchErrors(`"town"`)
		s.Equal([]string{MsgObject}, errs[SchemaKey])
	})
}

func (s *ValidationSuite) TestValidatePatch() {
	s.Run("empty patch", func() {
		errs := ValidatePatch(&models.CitizenPatch{}, fixedNow)
		s.Contains(errs, SchemaKey)
	})

	s.Run("valid patch", func() {
		g := models.GenderFemale
		errs := ValidatePatch(&models.CitizenPatch{Gender: &g}, fixedNow)
		s.True(errs.Empty())
	})
}

func (s *ValidationSuite) TestValidateCitizen() {
	c := models.Citizen{
		CitizenID: 1,
		Town:      "Керчь",
		Street:    "Иосифа Бродского",
		Building:  "2",
		Apartment: 11,
		Name:      "Романова Мария Леонидовна",
		BirthDate: models.NewDate(1986, time.April, 23),
		Gender:    models.GenderFemale,
		Relatives: []models.CitizenID{},
	}
	s.True(ValidateCitizen(c, fixedNow).Empty())

	c.BirthDate = models.Date{}
	c.Apartment = -1
	errs := ValidateCitizen(c, fixedNow)
	s.Equal([]string{MsgRequired}, errs[models.FieldBirthDate])
	s.Equal([]string{MsgPositive}, errs[models.FieldApartment])
}

func TestErrors(t *testing.T) {
	s := Errors{}
	if err := s.Err("nothing"); err != nil {
		t.Fatalf("expected nil error for empty set, got %v", err)
	}

	inner := Errors{}
	inner.Add("town", MsgRequired)
	inner.Add("", MsgObject)
	s.Merge("citizens.2", inner)

	if got := s["citizens.2.town"]; len(got) != 1 || got[0] != MsgRequired {
		t.Fatalf("unexpected merged entry: %v", got)
	}
	if got := s["citizens.2"]; len(got) != 1 || got[0] != MsgObject {
		t.Fatalf("unexpected whole-object entry: %v", got)
	}

	err := s.Err("invalid")
	if !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
	if _, ok := FromError(err); !ok {
		t.Fatalf("expected field detail to be recoverable")
	}
}
