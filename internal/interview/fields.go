package interview

import "hireloop/interview/internal/models"

// MissingFields returns the required contact fields whose value is absent or
// blank, in declaration order. Pure function, recomputed after every merge.
func MissingFields(details models.CandidateDetails) []string {
	var missing []string
	for _, field := range models.RequiredFields {
		if !details.HasField(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
