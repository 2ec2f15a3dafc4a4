package models

import "strings"

// RequiredFields lists the contact fields collected from every candidate,
// in the order they are asked for when missing.
var RequiredFields = []string{"name", "email", "phone"}

// CandidateDetails maps a contact field name to its extracted value.
// Keys are drawn from RequiredFields; values may be blank until collected.
type CandidateDetails map[string]string

// Merge returns a copy of d with the incoming values applied on top.
// Keys outside RequiredFields are ignored; fields are never removed.
func (d CandidateDetails) Merge(updates CandidateDetails) CandidateDetails {
	merged := make(CandidateDetails, len(RequiredFields))
	for k, v := range d {
		merged[k] = v
	}
	for _, field := range RequiredFields {
		if v, ok := updates[field]; ok {
			merged[field] = v
		}
	}
	return merged
}

// HasField reports whether the field is present with a non-blank value.
func (d CandidateDetails) HasField(name string) bool {
	return strings.TrimSpace(d[name]) != ""
}

// IsEmpty reports whether no field carries a usable value.
func (d CandidateDetails) IsEmpty() bool {
	for _, field := range RequiredFields {
		if d.HasField(field) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (d CandidateDetails) Clone() CandidateDetails {
	c := make(CandidateDetails, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
