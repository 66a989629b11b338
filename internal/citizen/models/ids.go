package models

import (
	"strconv"
)

// ImportID identifies an import. Allocated by the store, positive, never reused.
type ImportID int64

// CitizenID is the caller-chosen key of a citizen, unique only within its import.
type CitizenID int64

// StorageID is the internal row identifier of a citizen. It is globally unique
// and never exposed to API clients.
type StorageID int64

// ImportVersion counts committed changes to an import. It starts at 0 and
// every patch raises it, so a version names exactly one state of the import.
type ImportVersion int64

func (id ImportID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id CitizenID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseImportID parses a path segment into an ImportID. Only positive
// decimal integers are accepted.
func ParseImportID(s string) (ImportID, bool) {
	v, ok := parsePositive(s)
	return ImportID(v), ok
}

// ParseCitizenID parses a path segment into a CitizenID. Only positive
// decimal integers are accepted.
func ParseCitizenID(s string) (CitizenID, bool) {
	v, ok := parsePositive(s)
	return CitizenID(v), ok
}

func parsePositive(s string) (int64, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
