package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"census/internal/citizen/models"
	"census/pkg/requestcontext"
)

const (
	envelopeField = "citizens"

	summaryImport = "invalid import"
	summaryPatch  = "invalid citizen patch"
)

// DecodeImport decodes and validates a POST /imports body. The envelope must
// be an object holding a non-empty "citizens" array. Values are never
// coerced: integers must be integer literals and strings must be strings.
func DecodeImport(ctx context.Context, body []byte) (*models.CreateImportRequest, error) {
	now := requestcontext.Now(ctx)
	errs := Errors{}

	root, ok := decodeObject(body, errs)
	if !ok {
		return nil, errs.Err(summaryImport)
	}
	for _, key := range sortedKeys(root) {
		if key != envelopeField {
			errs.Add(key, MsgUnknownField)
		}
	}

	raw, present := root[envelopeField]
	if !present {
		errs.Add(envelopeField, MsgRequired)
		return nil, errs.Err(summaryImport)
	}
	items, ok := decodeArray(envelopeField, raw, errs)
	if !ok {
		return nil, errs.Err(summaryImport)
	}
	if len(items) == 0 {
		errs.Add(envelopeField, MsgEmptyList)
		return nil, errs.Err(summaryImport)
	}

	citizens := make([]models.Citizen, 0, len(items))
	for i, item := range items {
		c, cerrs := decodeCitizen(item, now)
		errs.Merge(envelopeField+"."+strconv.Itoa(i), cerrs)
		citizens = append(citizens, c)
	}
	if err := errs.Err(summaryImport); err != nil {
		return nil, err
	}
	req := &models.CreateImportRequest{Citizens: citizens}
	req.MarkFieldsChecked()
	return req, nil
}

// DecodePatch decodes and validates a PATCH body. A citizen_id key fails the
// request before anything else is looked at; an empty object is rejected.
func DecodePatch(ctx context.Context, body []byte) (*models.CitizenPatch, error) {
	errs := Errors{}

	root, ok := decodeObject(body, errs)
	if !ok {
		return nil, errs.Err(summaryPatch)
	}
	if _, present := root[models.FieldCitizenID]; present {
		return nil, Single(models.FieldCitizenID, MsgImmutableID, summaryPatch)
	}
	if len(root) == 0 {
		return nil, Single(SchemaKey, MsgEmptyPatch, summaryPatch)
	}

	patch, _ := decodeFields(root, errs)
	// Fields that failed to decode stay nil and are skipped by the rules.
	checkPatchFields(&patch, requestcontext.Now(ctx), errs)
	if err := errs.Err(summaryPatch); err != nil {
		return nil, err
	}
	return &patch, nil
}

func decodeCitizen(raw json.RawMessage, now time.Time) (models.Citizen, Errors) {
	errs := Errors{}
	var c models.Citizen

	obj, ok := asObject(raw)
	if !ok {
		errs.Add("", MsgObject)
		return c, errs
	}

	patch, failed := decodeFields(obj, errs)
	if v, present := obj[models.FieldCitizenID]; present {
		if id, ok := decodeInt(models.FieldCitizenID, v, errs); ok {
			c.CitizenID = models.CitizenID(id)
		} else {
			failed[models.FieldCitizenID] = true
		}
	}
	for _, name := range models.CitizenFields {
		if _, present := obj[name]; !present {
			errs.Add(name, MsgRequired)
			failed[name] = true
		}
	}

	draft := patch.Draft()
	draft.CitizenID = c.CitizenID
	c = draft
	if c.Relatives == nil {
		c.Relatives = []models.CitizenID{}
	}

	for path, msgs := range ValidateCitizen(c, now) {
		if failed[fieldRoot(path)] {
			continue
		}
		errs[path] = append(errs[path], msgs...)
	}
	return c, errs
}

// decodeFields decodes every patchable field present in obj. Keys that are
// not citizen fields are reported as unknown; citizen_id is left to the
// caller. It returns the set of fields that failed to decode.
func decodeFields(obj map[string]json.RawMessage, errs Errors) (models.CitizenPatch, map[string]bool) {
	var p models.CitizenPatch
	failed := make(map[string]bool)

	for _, key := range sortedKeys(obj) {
		raw := obj[key]
		ok := true
		switch key {
		case models.FieldCitizenID:
			continue
		case models.FieldTown:
			p.Town, ok = stringField(key, raw, errs)
		case models.FieldStreet:
			p.Street, ok = stringField(key, raw, errs)
		case models.FieldBuilding:
			p.Building, ok = stringField(key, raw, errs)
		case models.FieldName:
			p.Name, ok = stringField(key, raw, errs)
		case models.FieldApartment:
			var v int64
			if v, ok = decodeInt(key, raw, errs); ok {
				p.Apartment = &v
			}
		case models.FieldBirthDate:
			var d models.Date
			if d, ok = decodeDate(key, raw, errs); ok {
				p.BirthDate = &d
			}
		case models.FieldGender:
			var s *string
			if s, ok = stringField(key, raw, errs); ok {
				g := models.Gender(*s)
				p.Gender = &g
			}
		case models.FieldRelatives:
			var ids []models.CitizenID
			if ids, ok = decodeIDs(key, raw, errs); ok {
				p.Relatives = &ids
			}
		default:
			errs.Add(key, MsgUnknownField)
		}
		if !ok {
			failed[key] = true
		}
	}
	return p, failed
}

func decodeObject(body []byte, errs Errors) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		errs.Add(SchemaKey, MsgInvalidJSON)
		return nil, false
	}
	obj, ok := asObject(trimmed)
	if !ok {
		errs.Add(SchemaKey, MsgObject)
		return nil, false
	}
	return obj, true
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func decodeArray(path string, raw json.RawMessage, errs Errors) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		errs.Add(path, MsgNull)
		return nil, false
	}
	if len(raw) == 0 || raw[0] != '[' {
		errs.Add(path, MsgList)
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		errs.Add(path, MsgList)
		return nil, false
	}
	return items, true
}

func stringField(path string, raw json.RawMessage, errs Errors) (*string, bool) {
	s, ok := decodeString(path, raw, errs)
	if !ok {
		return nil, false
	}
	return &s, true
}

func decodeString(path string, raw json.RawMessage, errs Errors) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		errs.Add(path, MsgNull)
		return "", false
	}
	var s string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		errs.Add(path, MsgString)
		return "", false
	}
	return s, true
}

func decodeInt(path string, raw json.RawMessage, errs Errors) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		errs.Add(path, MsgNull)
		return 0, false
	}
	if !isIntLiteral(raw) {
		errs.Add(path, MsgInteger)
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		errs.Add(path, MsgInteger)
		return 0, false
	}
	return v, true
}

func decodeDate(path string, raw json.RawMessage, errs Errors) (models.Date, bool) {
	s, ok := decodeString(path, raw, errs)
	if !ok {
		return models.Date{}, false
	}
	d, err := models.ParseDate(s)
	if err != nil {
		errs.Add(path, MsgDate)
		return models.Date{}, false
	}
	return d, true
}

func decodeIDs(path string, raw json.RawMessage, errs Errors) ([]models.CitizenID, bool) {
	items, ok := decodeArray(path, raw, errs)
	if !ok {
		return nil, false
	}
	ids := make([]models.CitizenID, 0, len(items))
	valid := true
	for i, item := range items {
		v, ok := decodeInt(path+"."+strconv.Itoa(i), item, errs)
		if !ok {
			valid = false
			continue
		}
		ids = append(ids, models.CitizenID(v))
	}
	if !valid {
		return nil, false
	}
	return ids, true
}

func isNull(raw []byte) bool {
	return string(raw) == "null"
}

// isIntLiteral accepts JSON numbers without fraction or exponent. The input
// is already known to be valid JSON.
func isIntLiteral(raw []byte) bool {
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return false
	}
	return !bytes.ContainsAny(raw, ".eE")
}

func sortedKeys(obj map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
