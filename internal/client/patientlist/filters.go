package patientlist

import (
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/utils"
	"strings"
	"time"
)

type DateScope string

const (
	DateScopeAll   DateScope = "all"
	DateScopeToday DateScope = "today"
)

// Filters narrows an already fetched list. A zero Filters keeps everything.
type Filters struct {
	// Status keeps one status; empty keeps all.
	Status models.PatientStatus
	Search string
	// DateScope today keeps rows whose visit date is now's calendar day.
	DateScope    DateScope
	MatchDisease bool
}

// ApplyFilters returns a new slice and never modifies patients.
func ApplyFilters(patients []models.Patient, filters Filters, now time.Time) []models.Patient {
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	filtered := make([]models.Patient, 0, len(patients))
	for _, patient := range patients {
		if filters.Status != "" && patient.Status != filters.Status {
			continue
		}
		if filters.DateScope == DateScopeToday && !visitedOn(patient, now) {
			continue
		}
		if search != "" && !matchesSearch(patient, search, filters.MatchDisease) {
			continue
		}
		filtered = append(filtered, patient)
	}
	return filtered
}

func matchesSearch(patient models.Patient, search string, matchDisease bool) bool {
	if strings.Contains(strings.ToLower(patient.Name), search) {
		return true
	}
	return matchDisease && strings.Contains(strings.ToLower(patient.Disease), search)
}

// visitedOn is false for dates that do not parse.
func visitedOn(patient models.Patient, day time.Time) bool {
	visit, ok := utils.ParseDateIn(patient.VisitDate, day.Location())
	return ok && utils.SameDay(visit, day)
}
