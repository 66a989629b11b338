package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// BirthInfo is the read model behind the birthday view.
type BirthInfo struct {
	StorageID StorageID
	CitizenID CitizenID
	BirthDate Date
}

// TownBirthDate is the read model behind the age percentile view.
type TownBirthDate struct {
	Town      string
	BirthDate Date
}

// PresentCount says how many presents a citizen buys in a month: one per
// relative born in that month.
type PresentCount struct {
	CitizenID CitizenID `json:"citizen_id"`
	Presents  int       `json:"presents"`
}

// BirthdayStats groups present counts by month. All twelve months are
// always present and serialize as keys "1" to "12".
type BirthdayStats struct {
	months [12][]PresentCount
}

func NewBirthdayStats() BirthdayStats {
	var s BirthdayStats
	for i := range s.months {
		s.months[i] = []PresentCount{}
	}
	return s
}

// Add appends an entry to the given month.
func (s *BirthdayStats) Add(month time.Month, pc PresentCount) {
	s.months[month-1] = append(s.months[month-1], pc)
}

// Month returns the entries of the given month.
func (s BirthdayStats) Month(month time.Month) []PresentCount {
	return s.months[month-1]
}

func (s BirthdayStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entries := range s.months {
		if i > 0 {
			buf.WriteByte(',')
		}
		if entries == nil {
			entries = []PresentCount{}
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", strconv.Itoa(i+1))
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *BirthdayStats) UnmarshalJSON(data []byte) error {
	var raw map[string][]PresentCount
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewBirthdayStats()
	for key, entries := range raw {
		month, err := strconv.Atoi(key)
		if err != nil || month < 1 || month > 12 {
			return fmt.Errorf("invalid month key %q", key)
		}
		if entries != nil {
			out.months[month-1] = entries
		}
	}
	*s = out
	return nil
}

// TownAgeStat holds age percentiles of one town.
type TownAgeStat struct {
	Town string  `json:"town"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P99  float64 `json:"p99"`
}
