package main

import (
	"context"
	"fmt"

	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin exchanges credentials for a token pair and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	login := cmd.StringArg("login")
	if login == "" {
		return fmt.Errorf("%w: username or email", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.promptLine("Password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "login", login)

	if err := r.store.Authenticate(ctx, login, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, r.apiErr(err))
	}

	profile, err := r.store.FetchProfile(ctx)
	if err != nil {
		r.logger.Warn("logged in but failed to fetch profile", "error", err)
		return r.writePlain("✓ Logged in\n")
	}

	return r.writePlain("✓ Logged in as %s (@%s)\n", profile.DisplayName(), profile.Username)
}

// AuthRegister creates a new account. Input is validated locally before
// any request is issued.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	input := models.RegisterInput{
		Username:       cmd.String("username"),
		Email:          cmd.String("email"),
		FirstName:      cmd.String("first-name"),
		LastName:       cmd.String("last-name"),
		Password:       cmd.String("password"),
		RePassword:     cmd.String("confirm"),
		ProfilePicture: cmd.String("avatar"),
	}
	if input.RePassword == "" {
		input.RePassword = input.Password
	}

	if errs := models.ValidateRegistration(input); errs != nil {
		return r.writeFieldErrors(errs)
	}

	r.logger.Info("registering account", "username", input.Username)

	user, err := r.client.Register(ctx, input)
	if err != nil {
		return r.apiErr(err)
	}

	r.writePlain("✓ Account created for @%s\n", user.Username)
	return r.writePlain("Check %s for the activation link, then run 'tlx auth activate <uid> <token>'\n", user.Email)
}

// AuthActivate completes account activation with the emailed uid and token.
func (r *Runner) AuthActivate(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uid")
	token := cmd.StringArg("token")
	if uid == "" || token == "" {
		return fmt.Errorf("%w: uid and token", shared.ErrMissingArgument)
	}

	if err := r.client.Activate(ctx, uid, token); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Account activated, run 'tlx auth login'\n")
}

// AuthResetPassword requests a password reset email.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	if err := r.client.ResetPassword(ctx, email); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Reset email sent to %s\n", email)
}

// AuthConfirmReset completes a password reset.
func (r *Runner) AuthConfirmReset(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uid")
	token := cmd.StringArg("token")
	if uid == "" || token == "" {
		return fmt.Errorf("%w: uid and token", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.promptLine("New password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	if err := r.client.ConfirmResetPassword(ctx, uid, token, password); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Password updated, run 'tlx auth login'\n")
}

// AuthImportCurl bootstraps a session from a request copied out of the
// browser's DevTools (Copy as cURL) while logged in to the web app.
// The bearer token is lifted from the Authorization header.
func (r *Runner) AuthImportCurl(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.StringArg("path")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either a file path or --curl must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both a file path and --curl", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error

	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	token, err := headers.BearerToken()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.store.AdoptToken(&oauth2.Token{AccessToken: token}); err != nil {
		return err
	}

	profile, err := r.store.FetchProfile(ctx)
	if err != nil {
		r.logger.Warn("imported credential but failed to fetch profile", "error", err)
		return r.writePlain("✓ Session imported\n")
	}

	return r.writePlain("✓ Session imported for @%s\n", profile.Username)
}

// AuthUpdateProfile edits the logged-in account's profile. Unset flags
// keep the profile's current values.
func (r *Runner) AuthUpdateProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	current, err := r.client.Me(ctx)
	if err != nil {
		return r.apiErr(err)
	}

	input := models.ProfileInput{
		Email:          current.Email,
		FirstName:      current.FirstName,
		LastName:       current.LastName,
		ProfilePicture: cmd.String("avatar"),
	}
	if cmd.IsSet("email") {
		input.Email = cmd.String("email")
	}
	if cmd.IsSet("first-name") {
		input.FirstName = cmd.String("first-name")
	}
	if cmd.IsSet("last-name") {
		input.LastName = cmd.String("last-name")
	}

	if errs := models.ValidateProfile(input); errs != nil {
		return r.writeFieldErrors(errs)
	}

	user, err := r.client.UpdateProfile(ctx, input)
	if err != nil {
		return r.apiErr(err)
	}

	// Refresh the cached profile so whoami reflects the edit offline.
	if _, err := r.store.FetchProfile(ctx); err != nil {
		r.logger.Warn("updated profile but failed to refresh cache", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated profile for @%s\n", user.Username)
}

// AuthWhoami shows the logged-in account, fetching the profile when the
// session record has none cached.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	profile := r.store.Profile()
	if profile == nil {
		var err error
		if profile, err = r.store.FetchProfile(ctx); err != nil {
			return r.apiErr(err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlain("@%s\n", profile.Username)
	r.writePlain("Name:  %s\n", profile.DisplayName())
	r.writePlain("Email: %s\n", profile.Email)
	return nil
}

// AuthLogout ends the session and deletes the durable record.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil || !r.store.Authenticated() {
		return r.writePlain("Not logged in\n")
	}

	if err := r.store.EndSession(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}
