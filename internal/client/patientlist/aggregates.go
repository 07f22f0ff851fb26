package patientlist

import (
	"medrec-service/internal/app/models"
	"medrec-service/internal/pkg/utils"
	"time"
)

type Aggregates struct {
	Total       int
	ByStatus    map[models.PatientStatus]int
	TotalVisits int
	// TodayActive counts Active patients whose visit date is today.
	TodayActive int
	// ThisWeek and PreviousWeek count rows created in the week starting on
	// the most recent Sunday and in the week before it.
	ThisWeek      int
	PreviousWeek  int
	GrowthPercent float64
}

func ComputeAggregates(patients []models.Patient, now time.Time) Aggregates {
	agg := Aggregates{
		Total:    len(patients),
		ByStatus: make(map[models.PatientStatus]int, len(models.PatientStatuses)),
	}
	for _, status := range models.PatientStatuses {
		agg.ByStatus[status] = 0
	}

	weekStart := utils.StartOfWeek(now)
	previousWeekStart := weekStart.AddDate(0, 0, -7)

	for _, patient := range patients {
		agg.ByStatus[patient.Status]++
		agg.TotalVisits += patient.VisitCount

		if patient.Status == models.PatientStatusActive && visitedOn(patient, now) {
			agg.TodayActive++
		}

		if patient.CreatedAt.IsZero() {
			continue
		}
		createdAt := patient.CreatedAt.In(now.Location())
		switch {
		case !createdAt.Before(weekStart):
			agg.ThisWeek++
		case !createdAt.Before(previousWeekStart):
			agg.PreviousWeek++
		}
	}

	agg.GrowthPercent = growth(agg.ThisWeek, agg.PreviousWeek)
	return agg
}

// growth is 100 when the previous week was empty and this week is not.
func growth(current, previous int) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}
