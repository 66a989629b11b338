package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"census/internal/citizen/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCitizen applies the value rules to a decoded citizen: positive
// ids and apartment, text lengths, gender literal and a birth date strictly
// before the UTC date of now.
func ValidateCitizen(c models.Citizen, now time.Time) Errors {
	errs := Errors{}
	structErrors(c, errs)
	if c.BirthDate.IsZero() {
		errs.Add(models.FieldBirthDate, MsgRequired)
	} else {
		checkBirthDate(models.FieldBirthDate, c.BirthDate, now, errs)
	}
	return errs
}

// ValidatePatch applies the value rules to the fields a patch sets.
func ValidatePatch(p *models.CitizenPatch, now time.Time) Errors {
	errs := Errors{}
	if p.IsEmpty() {
		errs.Add(SchemaKey, MsgEmptyPatch)
		return errs
	}
	checkPatchFields(p, now, errs)
	return errs
}

func checkPatchFields(p *models.CitizenPatch, now time.Time, errs Errors) {
	present := make(map[string]bool)
	for _, name := range p.PresentFields() {
		present[name] = true
	}
	draft := Errors{}
	structErrors(p.Draft(), draft)
	for path, msgs := range draft {
		if present[fieldRoot(path)] {
			errs[path] = append(errs[path], msgs...)
		}
	}
	if p.BirthDate != nil {
		checkBirthDate(models.FieldBirthDate, *p.BirthDate, now, errs)
	}
}

func structErrors(c models.Citizen, errs Errors) {
	err := validate.Struct(c)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(SchemaKey, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(fieldPath(fe), message(fe))
	}
}

func checkBirthDate(path string, d models.Date, now time.Time, errs Errors) {
	if !d.Before(models.DateOf(now)) {
		errs.Add(path, MsgPastDate)
	}
}

// fieldPath turns "Citizen.relatives[2]" into "relatives.2".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func fieldRoot(path string) string {
	root, _, _ := strings.Cut(path, ".")
	return root
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return MsgPositive
	case "min", "max":
		return MsgLength
	case "oneof":
		return MsgGender
	default:
		return "Invalid value."
	}
}
