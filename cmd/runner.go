package main

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/repositories"
	"github.com/tapelist/tlx/internal/session"
	"github.com/tapelist/tlx/internal/shared"
	"github.com/tapelist/tlx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	client     *api.Client
	store      *session.Store
	history    *repositories.HistoryRepository
	cache      *repositories.PlaylistCacheRepository
	engine     *tasks.ExportEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB
	Client     *api.Client
	Store      *session.Store
	History    *repositories.HistoryRepository
	Cache      *repositories.PlaylistCacheRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var engine *tasks.ExportEngine
	if opts.Client != nil {
		var snapshots tasks.SnapshotCache
		if opts.Cache != nil {
			snapshots = opts.Cache
		}
		engine = tasks.NewExportEngine(opts.Client, snapshots, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		client:     opts.Client,
		store:      opts.Store,
		history:    opts.History,
		cache:      opts.Cache,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, videosCommand, usersCommand, historyCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, used when stdout belongs to the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// pageSize returns the configured listing page size.
func (r *Runner) pageSize() int {
	if r.config != nil && r.config.API.PageSize > 0 {
		return r.config.API.PageSize
	}
	return api.DefaultPageSize
}

// requireSession gates commands that need a credential before any
// request is issued.
func (r *Runner) requireSession() error {
	if r.store == nil || !r.store.Authenticated() {
		return fmt.Errorf("%w: run 'tlx auth login'", shared.ErrNotAuthenticated)
	}
	return nil
}

// apiErr translates api failures into user-facing errors. A 401 tears
// down the session so the next command starts logged out.
func (r *Runner) apiErr(err error) error {
	if err == nil {
		return nil
	}

	var nerr *api.NetworkError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if r.store != nil {
			r.store.HandleUnauthorized()
		}
		return fmt.Errorf("%w: run 'tlx auth login'", shared.ErrSessionExpired)
	case errors.As(err, &nerr):
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, nerr.Err)
	}
	return err
}

// writeFieldErrors prints one line per failed field and returns
// [shared.ErrInvalidInput]. Used for local validation, which runs
// before any request is issued.
func (r *Runner) writeFieldErrors(errs models.FieldErrors) error {
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		r.writePlain("✗ %s: %s\n", field, errs[field])
	}
	return shared.ErrInvalidInput
}

// confirm prompts for a yes/no answer unless --yes was passed.
func (r *Runner) confirm(cmd *cli.Command, prompt string) bool {
	if cmd.Bool("yes") {
		return true
	}
	r.writePlain("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// promptLine reads one trimmed line from the runner's input.
func (r *Runner) promptLine(prompt string) (string, error) {
	r.writePlain("%s", prompt)
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
