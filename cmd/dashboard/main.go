package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"medrec-service/internal/app/config"
	"medrec-service/internal/app/drivers/logger"
	"medrec-service/internal/client/authsync"
	"medrec-service/internal/client/followup"
	"medrec-service/internal/client/guard"
	"medrec-service/internal/client/patientlist"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/client/sessionstore"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL    string
	storePath string
	verbose   bool

	dash *dashboard
)

// dashboard is everything a command needs, built once per invocation.
type dashboard struct {
	cfg       *config.ClientConfig
	log       *zap.Logger
	location  *time.Location
	kv        *sessionstore.SQLite
	client    *sdk.Client
	sync      *authsync.Synchronizer
	guard     *guard.Guard
	patients  *patientlist.Controller
	followups *followup.Notifier
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Hospital patient records from the terminal",
	Long: `dashboard signs doctors and admins in against the medrec backend and
renders their role's views: the doctor's patient list with today's follow-ups,
and the admin overview with hospital-wide statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		dash, err = openDashboard(cmd.Context())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dash != nil {
			dash.close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL (default from DASHBOARD_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "local session database (default from DASHBOARD_STORE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(signinCmd, signupCmd, signoutCmd, whoamiCmd)
	rootCmd.AddCommand(patientsCmd, statsCmd, followupsCmd)
}

func openDashboard(ctx context.Context) (*dashboard, error) {
	cfg := config.NewClientConfig()
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log, err := logger.NewDashboardLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	routes, err := guard.New(guard.DefaultRoutes())
	if err != nil {
		return nil, err
	}

	kv, err := sessionstore.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	client := sdk.New(sdk.Options{
		BaseURL: cfg.BaseURL,
		Tokens:  kv,
		Log:     log,
	})

	d := &dashboard{
		cfg:       cfg,
		log:       log,
		location:  location,
		kv:        kv,
		client:    client,
		sync:      authsync.New(client, sessionstore.New(kv, log), log),
		guard:     routes,
		patients:  patientlist.NewController(client, log),
		followups: followup.New(client, log, location),
	}

	if ctx == nil {
		ctx = context.Background()
	}
	d.sync.Start(ctx)

	select {
	case <-d.sync.Ready():
	case <-time.After(cfg.RequestTimeout):
		log.Warn("session not confirmed in time, using cached user")
	}
	return d, nil
}

func (d *dashboard) close() {
	d.sync.Stop()
	d.client.Close()
	if err := d.kv.Close(); err != nil {
		d.log.Warn("failed to close local store", zap.Error(err))
	}
	_ = d.log.Sync()
}

// requestContext bounds one backend round trip.
func (d *dashboard) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmdContext(cmd), d.cfg.RequestTimeout)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (d *dashboard) now() time.Time {
	return time.Now().In(d.location)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
