package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"medrec-service/internal/app/models"
	"medrec-service/internal/client/authsync"
	"medrec-service/internal/client/sdk"
	"medrec-service/internal/pkg/dto/responses"

	"github.com/spf13/cobra"
)

var (
	signinEmail    string
	signinPassword string

	signupEmail    string
	signupPassword string
	signupName     string
	signupRole     string
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()

		session, err := dash.client.SignInWithPassword(ctx, signinEmail, signinPassword)
		if err != nil {
			return errors.New(sdk.Message(err))
		}
		return dash.welcome(cmd.OutOrStdout(), session)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()

		session, err := dash.client.SignUp(ctx, sdk.SignUpParams{
			Email:    signupEmail,
			Password: signupPassword,
			FullName: signupName,
			Role:     signupRole,
		})
		if err != nil {
			return errors.New(sdk.Message(err))
		}
		return dash.welcome(cmd.OutOrStdout(), session)
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the cached user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dash.requestContext(cmd)
		defer cancel()

		if err := dash.client.SignOut(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", sdk.Message(err))
		}
		dash.awaitState(func(state authsync.State) bool { return state.Ready && state.CurrentUser == nil })
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		state := dash.sync.State()
		switch {
		case state.Loading:
			fmt.Fprintln(out, "Session is still loading.")
		case state.CurrentUser == nil:
			fmt.Fprintln(out, "Not signed in.")
		default:
			user := state.CurrentUser
			home, err := dash.guard.Home(user.Role)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s <%s>\nrole: %s\nhome: %s\n", user.FullName, user.Email, user.Role, home)
		}
		return nil
	},
}

func init() {
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "account email")
	signinCmd.Flags().StringVar(&signinPassword, "password", "", "account password")
	_ = signinCmd.MarkFlagRequired("email")
	_ = signinCmd.MarkFlagRequired("password")

	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password (8+ characters)")
	signupCmd.Flags().StringVar(&signupName, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupRole, "role", string(models.RoleDoctor), "doctor or admin")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
	_ = signupCmd.MarkFlagRequired("name")
}

// welcome waits for the synchronizer to settle on the new user so the
// cached profile is written before the process exits.
func (d *dashboard) welcome(out io.Writer, session *responses.AuthSession) error {
	state := d.awaitState(func(state authsync.State) bool {
		return state.CurrentUser != nil && state.CurrentUser.ID == session.User.ID
	})
	user := state.CurrentUser
	if user == nil {
		fmt.Fprintf(out, "Signed in as %s.\n", session.User.Email)
		return nil
	}
	home, err := d.guard.Home(user.Role)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s (%s). Home: %s\n", user.FullName, user.Role, home)
	return nil
}

func (d *dashboard) awaitState(done func(authsync.State) bool) authsync.State {
	changes, unsubscribe := d.sync.Changes()
	defer unsubscribe()

	if state := d.sync.State(); done(state) {
		return state
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout+time.Second)
	defer cancel()
	for {
		select {
		case state, ok := <-changes:
			if !ok || done(state) {
				return d.sync.State()
			}
		case <-ctx.Done():
			return d.sync.State()
		}
	}
}
