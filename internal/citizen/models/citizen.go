package models

// Gender is one of the two accepted literal values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Wire names of citizen fields, in the order they are reported.
const (
	FieldCitizenID = "citizen_id"
	FieldTown      = "town"
	FieldStreet    = "street"
	FieldBuilding  = "building"
	FieldApartment = "apartment"
	FieldName      = "name"
	FieldBirthDate = "birth_date"
	FieldGender    = "gender"
	FieldRelatives = "relatives"
)

// CitizenFields lists every field a citizen must carry on import.
var CitizenFields = []string{
	FieldCitizenID,
	FieldTown,
	FieldStreet,
	FieldBuilding,
	FieldApartment,
	FieldName,
	FieldBirthDate,
	FieldGender,
	FieldRelatives,
}

// MaxTextLength bounds town, street, building and name.
const MaxTextLength = 256

// Citizen is a person record scoped to one import.
//
// Invariants:
//   - CitizenID is positive and unique within the import
//   - Town, Street, Building and Name are non-empty and at most 256 characters
//   - Apartment is positive
//   - BirthDate is strictly before the current UTC date
//   - Relatives reference citizens of the same import, and the relation is symmetric
type Citizen struct {
	CitizenID CitizenID   `json:"citizen_id" validate:"gt=0"`
	Town      string      `json:"town" validate:"min=1,max=256"`
	Street    string      `json:"street" validate:"min=1,max=256"`
	Building  string      `json:"building" validate:"min=1,max=256"`
	Apartment int64       `json:"apartment" validate:"gt=0"`
	Name      string      `json:"name" validate:"min=1,max=256"`
	BirthDate Date        `json:"birth_date"`
	Gender    Gender      `json:"gender" validate:"oneof=male female"`
	Relatives []CitizenID `json:"relatives" validate:"dive,gt=0"`
}

// CreateImportRequest is a decoded batch of citizens.
type CreateImportRequest struct {
	Citizens []Citizen

	fieldsChecked bool
}

// MarkFieldsChecked records that every citizen already passed the field
// rules, as validation.DecodeImport does before returning a request.
func (r *CreateImportRequest) MarkFieldsChecked() { r.fieldsChecked = true }

// FieldsChecked reports whether MarkFieldsChecked was called. Requests
// built by hand start unchecked.
func (r *CreateImportRequest) FieldsChecked() bool { return r.fieldsChecked }

// CitizenPatch carries the fields of a partial update. Nil means "not sent".
// citizen_id has no slot here: it can never be patched.
type CitizenPatch struct {
	Town      *string
	Street    *string
	Building  *string
	Apartment *int64
	Name      *string
	BirthDate *Date
	Gender    *Gender
	Relatives *[]CitizenID
}

// IsEmpty reports whether the patch sets nothing.
func (p *CitizenPatch) IsEmpty() bool {
	return !p.HasFieldUpdates() && p.Relatives == nil
}

// HasFieldUpdates reports whether the patch touches any column besides relatives.
func (p *CitizenPatch) HasFieldUpdates() bool {
	return p.Town != nil || p.Street != nil || p.Building != nil || p.Apartment != nil ||
		p.Name != nil || p.BirthDate != nil || p.Gender != nil
}

// PresentFields returns the wire names of the fields the patch sets.
func (p *CitizenPatch) PresentFields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Town != nil, FieldTown)
	add(p.Street != nil, FieldStreet)
	add(p.Building != nil, FieldBuilding)
	add(p.Apartment != nil, FieldApartment)
	add(p.Name != nil, FieldName)
	add(p.BirthDate != nil, FieldBirthDate)
	add(p.Gender != nil, FieldGender)
	add(p.Relatives != nil, FieldRelatives)
	return out
}

// ApplyFields copies the non-relationship fields of the patch onto c.
func (p *CitizenPatch) ApplyFields(c *Citizen) {
	if p.Town != nil {
		c.Town = *p.Town
	}
	if p.Street != nil {
		c.Street = *p.Street
	}
	if p.Building != nil {
		c.Building = *p.Building
	}
	if p.Apartment != nil {
		c.Apartment = *p.Apartment
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.BirthDate != nil {
		c.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
}

// Draft returns a citizen carrying the patch values, for field-rule checks.
func (p *CitizenPatch) Draft() Citizen {
	var c Citizen
	p.ApplyFields(&c)
	if p.Relatives != nil {
		c.Relatives = *p.Relatives
	}
	return c
}
