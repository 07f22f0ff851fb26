package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/followup"
	"medrec-service/internal/client/guard"
	"medrec-service/internal/client/patientlist"
	"medrec-service/internal/client/sdk"

	"github.com/olekukonko/tablewriter"
)

var errNotSignedIn = errors.New("not signed in, run `dashboard signin` first")

// route renders view when the current user holds one of allowed. Anyone
// else lands on their own home view instead.
func (d *dashboard) route(ctx context.Context, out io.Writer, allowed []models.Role, view func(models.CurrentUser) error) error {
	state := d.sync.State()
	decision, err := d.guard.Decide(state, allowed...)
	if err != nil {
		return err
	}

	switch decision.Outcome {
	case guard.RenderLoading:
		fmt.Fprintln(out, "Loading session...")
		return nil
	case guard.Redirect:
		if decision.Target == d.guard.SignIn() {
			return errNotSignedIn
		}
		fmt.Fprintf(out, "Redirected to %s\n\n", decision.Target)
		return d.renderHome(ctx, out, *state.CurrentUser)
	}
	return view(*state.CurrentUser)
}

func (d *dashboard) renderHome(ctx context.Context, out io.Writer, user models.CurrentUser) error {
	switch user.Role {
	case models.RoleAdmin:
		return d.renderAdminHome(ctx, out, user)
	default:
		return d.renderDoctorHome(ctx, out, user)
	}
}

// renderDoctorHome is the /doctor view: today's follow-ups and the list.
func (d *dashboard) renderDoctorHome(ctx context.Context, out io.Writer, user models.CurrentUser) error {
	d.renderFollowUps(ctx, out, user)
	if err := d.patients.Fetch(ctx, user); err != nil {
		fmt.Fprintf(out, "Could not load patients: %s\n", sdk.Message(err))
	}
	renderPatients(out, d.patients.Snapshot().Patients)
	return nil
}

// renderAdminHome is the /dashboard view: hospital-wide statistics.
func (d *dashboard) renderAdminHome(ctx context.Context, out io.Writer, user models.CurrentUser) error {
	if err := d.patients.Fetch(ctx, user); err != nil {
		fmt.Fprintf(out, "Could not load patients: %s\n", sdk.Message(err))
	}
	patients := d.patients.Snapshot().Patients
	renderAggregates(out, patientlist.ComputeAggregates(patients, d.now()))
	return nil
}

func (d *dashboard) renderFollowUps(ctx context.Context, out io.Writer, user models.CurrentUser) {
	alert, err := d.followups.Load(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(out, "Could not load follow-ups: %s\n\n", sdk.Message(err))
		return
	}
	if alert.Visible {
		fmt.Fprintf(out, "You have %d patient(s) due for follow-up today (%s).\n\n", alert.Count, alert.Date)
	}
}

// watchFollowUps polls today's follow-ups until ctx ends or the user types
// q. Typing d hides the alert until a later poll still finds patients due.
func (d *dashboard) watchFollowUps(ctx context.Context, in io.Reader, out io.Writer, user models.CurrentUser) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var outMu sync.Mutex
	printf := func(format string, args ...interface{}) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		d.followups.Run(ctx, user.ID, d.cfg.FollowUpPollInterval, func(alert followup.Alert) {
			if alert.Visible {
				printf("%d patient(s) due for follow-up today (%s). Type d to dismiss, q to quit.\n", alert.Count, alert.Date)
				return
			}
			printf("No follow-ups due today (%s).\n", alert.Date)
		})
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	defer func() {
		cancel()
		<-polled
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			switch strings.ToLower(line) {
			case "d", "dismiss":
				d.followups.Dismiss()
				printf("Follow-up alert dismissed.\n")
			case "q", "quit":
				return
			}
		}
	}
}

func renderPatients(out io.Writer, patients []models.Patient) {
	if len(patients) == 0 {
		fmt.Fprintln(out, "No patients.")
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Name", "Age", "Gender", "Disease", "Visit Date", "Visits", "Status", "Follow-Up"})
	for _, p := range patients {
		followUp := "-"
		if p.FollowUpDate != nil {
			followUp = *p.FollowUpDate
		}
		table.Append([]string{
			p.ID,
			p.Name,
			strconv.Itoa(p.Age),
			string(p.Gender),
			p.Disease,
			p.VisitDate,
			strconv.Itoa(p.VisitCount),
			string(p.Status),
			followUp,
		})
	}
	table.Render()
}

func renderAggregates(out io.Writer, agg patientlist.Aggregates) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total patients", strconv.Itoa(agg.Total)})
	for _, status := range models.PatientStatuses {
		table.Append([]string{string(status), strconv.Itoa(agg.ByStatus[status])})
	}
	table.Append([]string{"Total visits", strconv.Itoa(agg.TotalVisits)})
	table.Append([]string{"Active visits today", strconv.Itoa(agg.TodayActive)})
	table.Append([]string{"New this week", strconv.Itoa(agg.ThisWeek)})
	table.Append([]string{"New last week", strconv.Itoa(agg.PreviousWeek)})
	table.Append([]string{"Weekly growth", fmt.Sprintf("%.1f%%", agg.GrowthPercent)})
	table.Render()
}
