package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/patientlist"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/utils"

	"github.com/spf13/cobra"
)

var bothRoles = []models.Role{models.RoleDoctor, models.RoleAdmin}

var (
	listStatus  string
	listSearch  string
	listToday   bool
	listDisease bool

	newPatient   patientlist.NewPatient
	newGender    string
	newStatus    string
	followUpDate string

	followupsWatch bool
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List and manage patients",
}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patients in your scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, bothRoles, func(user models.CurrentUser) error {
			if err := dash.patients.Fetch(ctx, user); err != nil {
				fmt.Fprintf(out, "Could not load patients: %s\n", sdk.Message(err))
			}
			filters := patientlist.Filters{
				Status:       models.PatientStatus(listStatus),
				Search:       listSearch,
				DateScope:    patientlist.DateScopeAll,
				MatchDisease: listDisease,
			}
			if listToday {
				filters.DateScope = patientlist.DateScopeToday
			}
			renderPatients(out, patientlist.ApplyFilters(dash.patients.Snapshot().Patients, filters, dash.now()))
			return nil
		})
	},
}

var patientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a patient",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, bothRoles, func(user models.CurrentUser) error {
			input := newPatient
			input.Gender = models.Gender(newGender)
			input.Status = models.PatientStatus(newStatus)
			input.FollowUpDate = followUpDate
			if input.VisitDate == "" {
				input.VisitDate = utils.FormatDate(dash.now())
			}
			if user.Role == models.RoleDoctor {
				input.DoctorID = user.ID
			}

			created, err := dash.patients.Create(ctx, input)
			if err != nil {
				return errors.New(sdk.Message(err))
			}
			fmt.Fprintf(out, "Added %s (%s).\n", created.Name, created.ID)
			return nil
		})
	},
}

var patientsStatusCmd = &cobra.Command{
	Use:   "status <patient-id> <Active|Discharged|Follow-Up>",
	Short: "Change a patient's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, bothRoles, func(user models.CurrentUser) error {
			updated, err := dash.patients.UpdateStatus(ctx, args[0], models.PatientStatus(args[1]), followUpDate)
			if err != nil {
				return errors.New(sdk.Message(err))
			}
			fmt.Fprintf(out, "%s is now %s.\n", updated.Name, updated.Status)
			return nil
		})
	},
}

var patientsRemoveCmd = &cobra.Command{
	Use:   "rm <patient-id>",
	Short: "Delete a patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, bothRoles, func(user models.CurrentUser) error {
			if err := dash.patients.Delete(ctx, args[0]); err != nil {
				return errors.New(sdk.Message(err))
			}
			fmt.Fprintf(out, "Deleted %s.\n", args[0])
			return nil
		})
	},
}

var patientsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every patient as CSV (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, []models.Role{models.RoleAdmin}, func(user models.CurrentUser) error {
			export, err := dash.client.ExportPatients(ctx)
			if err != nil {
				return errors.New(sdk.Message(err))
			}
			fmt.Fprintf(out, "Exported %d patients to %s\n%s\n", export.Count, export.ObjectName, export.URL)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Hospital-wide statistics (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, []models.Role{models.RoleAdmin}, func(user models.CurrentUser) error {
			return dash.renderAdminHome(ctx, out, user)
		})
	},
}

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "Today's follow-ups (doctor)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()
		out := cmd.OutOrStdout()

		return dash.route(ctx, out, []models.Role{models.RoleDoctor}, func(user models.CurrentUser) error {
			if followupsWatch {
				watchCtx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
				defer stop()
				dash.watchFollowUps(watchCtx, cmd.InOrStdin(), out, user)
				return nil
			}

			alert, err := dash.followups.Load(ctx, user.ID)
			if err != nil {
				return errors.New(sdk.Message(err))
			}
			if alert.Count == 0 {
				fmt.Fprintf(out, "No follow-ups due today (%s).\n", alert.Date)
				return nil
			}
			fmt.Fprintf(out, "%d patient(s) due for follow-up today (%s).\n", alert.Count, alert.Date)
			return nil
		})
	},
}

func init() {
	patientsListCmd.Flags().StringVar(&listStatus, "status", "", "Active, Discharged or Follow-Up")
	patientsListCmd.Flags().StringVar(&listSearch, "search", "", "case-insensitive name search")
	patientsListCmd.Flags().BoolVar(&listToday, "today", false, "only visits dated today")
	patientsListCmd.Flags().BoolVar(&listDisease, "match-disease", false, "search also matches disease")

	flags := patientsAddCmd.Flags()
	flags.StringVar(&newPatient.Name, "name", "", "patient name")
	flags.IntVar(&newPatient.Age, "age", 0, "age in years")
	flags.StringVar(&newGender, "gender", string(models.GenderOther), "Male, Female or Other")
	flags.StringVar(&newPatient.Email, "email", "", "contact email")
	flags.StringVar(&newPatient.Address, "address", "", "home address")
	flags.StringVar(&newPatient.Disease, "disease", "", "diagnosed disease")
	flags.StringVar(&newPatient.DiseaseDescription, "description", "", "disease description")
	flags.StringVar(&newPatient.VisitDate, "visit-date", "", "YYYY-MM-DD (default today)")
	flags.IntVar(&newPatient.VisitCount, "visits", 1, "number of visits")
	flags.StringVar(&newPatient.DoctorNotes, "notes", "", "doctor notes")
	flags.StringVar(&newPatient.DoctorID, "doctor-id", "", "assigned doctor (admin only)")
	flags.StringVar(&newStatus, "status", string(models.PatientStatusActive), "Active, Discharged or Follow-Up")
	flags.StringVar(&followUpDate, "follow-up-date", "", "YYYY-MM-DD, required for Follow-Up")
	_ = patientsAddCmd.MarkFlagRequired("name")

	patientsStatusCmd.Flags().StringVar(&followUpDate, "follow-up-date", "", "YYYY-MM-DD, required for Follow-Up")

	followupsCmd.Flags().BoolVar(&followupsWatch, "watch", false, "keep polling; type d to dismiss the alert, q to quit")

	patientsCmd.AddCommand(patientsListCmd, patientsAddCmd, patientsStatusCmd, patientsRemoveCmd, patientsExportCmd)
}
