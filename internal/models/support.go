// Package models defines the persistent entities of the TiepBuoc platform:
// public applications, approved donors and students, the per-category
// inventory tables and the admin-side support records.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SupportType is one category of assistance a donor can offer or a student
// can need.
type SupportType string

const (
	// SupportLaptop is a donated (or needed) laptop.
	SupportLaptop SupportType = "laptop"
	// SupportMotorbike is a donated (or needed) motorbike.
	SupportMotorbike SupportType = "motorbike"
	// SupportComponents covers spare parts: RAM, SSD, chargers, screens.
	SupportComponents SupportType = "components"
	// SupportTuition is tuition money, pledged once or on a schedule.
	SupportTuition SupportType = "tuition"
)

// AllSupportTypes lists every known support category in display order.
var AllSupportTypes = []SupportType{SupportLaptop, SupportMotorbike, SupportComponents, SupportTuition}

// IsValid reports whether t is a known support category.
func (t SupportType) IsValid() bool {
	switch t {
	case SupportLaptop, SupportMotorbike, SupportComponents, SupportTuition:
		return true
	}
	return false
}

// SupportTypeList is a set of support categories stored as a JSON array in a
// text column. Order is preserved; duplicates are not.
type SupportTypeList []SupportType

// Contains reports whether the list includes t.
func (l SupportTypeList) Contains(t SupportType) bool {
	for _, v := range l {
		if v == t {
			return true
		}
	}
	return false
}

// Union returns the set union of l and other, keeping l's order and appending
// other's new entries in their original order.
func (l SupportTypeList) Union(other SupportTypeList) SupportTypeList {
	out := make(SupportTypeList, 0, len(l)+len(other))
	out = append(out, l...)
	for _, t := range other {
		if !out.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Value implements driver.Valuer, serializing the list as a JSON array.
func (l SupportTypeList) Value() (driver.Value, error) {
	if l == nil {
		l = SupportTypeList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *SupportTypeList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for SupportTypeList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// ParseAmount converts a money field stored as free text (VND, no separators
// enforced) into an integer amount. Unparsable or empty values count as 0,
// matching the reporting rules.
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
