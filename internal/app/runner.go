package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ggonzalez94/nearcli-wallet/internal/config"
	clierr "github.com/ggonzalez94/nearcli-wallet/internal/errors"
	"github.com/ggonzalez94/nearcli-wallet/internal/httpx"
	"github.com/ggonzalez94/nearcli-wallet/internal/logx"
	"github.com/ggonzalez94/nearcli-wallet/internal/model"
	"github.com/ggonzalez94/nearcli-wallet/internal/nearrpc"
	"github.com/ggonzalez94/nearcli-wallet/internal/network"
	"github.com/ggonzalez94/nearcli-wallet/internal/out"
	"github.com/ggonzalez94/nearcli-wallet/internal/prompt"
	"github.com/ggonzalez94/nearcli-wallet/internal/schema"
	"github.com/ggonzalez94/nearcli-wallet/internal/session"
	"github.com/ggonzalez94/nearcli-wallet/internal/storage"
	"github.com/ggonzalez94/nearcli-wallet/internal/verify"
	"github.com/ggonzalez94/nearcli-wallet/internal/version"
	"github.com/ggonzalez94/nearcli-wallet/internal/wallet"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithIO(os.Stdin, os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return NewRunnerWithIO(os.Stdin, stdout, stderr)
}

// NewRunnerWithIO wires prompts to stdin/stderr so stdout carries only the
// result envelope.
func NewRunnerWithIO(stdin io.Reader, stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	settings    config.Settings
	log         zerolog.Logger
	store       *storage.SQLite
	wallet      *wallet.Wallet
	poller      *verify.Poller
	root        *cobra.Command
	lastCommand string
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r, log: zerolog.Nop()}
	root := state.newRootCommand()
	state.root = root
	root.SetArgs(args)
	root.SetIn(r.stdin)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	err = normalizeRunError(err)
	state.close()
	if err == nil {
		return 0
	}

	state.renderError("", err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) close() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Warn().Err(err).Msg("close wallet store")
	}
	s.store = nil
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Sign NEAR transactions with near-cli-rs instead of an in-browser key",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings

			log, err := logx.New(s.runner.stderr, settings.LogLevel, settings.LogJSON)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "configure logging", err)
			}
			s.log = log

			path := trimRootPath(cmd.CommandPath())
			s.lastCommand = path
			s.log.Debug().Str("command", path).Str("network", settings.Network.String()).Msg("starting")

			if needsVerifier(path) && s.poller == nil {
				// One tx query per poll attempt: the poller owns the retry budget.
				httpClient := httpx.New(settings.Timeout, 0)
				s.poller = verify.NewPoller(nearrpc.New(httpClient), settings.VerifyAttempts, settings.VerifyDelay, logx.Component(s.log, "verify"))
				if settings.VerifyDelay == 0 {
					s.poller.Sleep = verify.NoWait
				}
			}
			if needsWallet(path) && s.wallet == nil {
				if err := s.openWallet(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.CodeUsage, "parse flags", err)
	})

	cmd.PersistentFlags().StringVar(&s.flags.Network, "network", "", "Network: mainnet|testnet (default testnet)")
	cmd.PersistentFlags().BoolVar(&s.flags.JSON, "json", false, "Output JSON (default)")
	cmd.PersistentFlags().BoolVar(&s.flags.Plain, "plain", false, "Output plain text")
	cmd.PersistentFlags().StringVar(&s.flags.Select, "select", "", "Select fields from data (comma-separated)")
	cmd.PersistentFlags().BoolVar(&s.flags.ResultsOnly, "results-only", false, "Output only data payload")
	cmd.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "RPC request timeout")
	cmd.PersistentFlags().IntVar(&s.flags.Attempts, "attempts", 0, "Transaction status queries before giving up (default 5)")
	cmd.PersistentFlags().StringVar(&s.flags.RPCURL, "rpc-url", "", "RPC endpoint for the selected network")
	cmd.PersistentFlags().StringVar(&s.flags.LogLevel, "log-level", "", "Log level: debug|info|warn|error|off")
	cmd.PersistentFlags().BoolVar(&s.flags.LogJSON, "log-json", false, "Write logs to stderr as JSON")
	cmd.PersistentFlags().BoolVar(&s.flags.NoClipboard, "no-clipboard", false, "Do not copy generated commands to the clipboard")
	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")

	cmd.AddCommand(schema.MarkInteractive(s.newConnectCommand()))
	cmd.AddCommand(schema.MarkInteractive(s.newConnectSignMessageCommand()))
	cmd.AddCommand(s.newDisconnectCommand())
	cmd.AddCommand(s.newAccountsCommand())
	cmd.AddCommand(schema.MarkInteractive(s.newSendCommand()))
	cmd.AddCommand(schema.MarkInteractive(s.newSendManyCommand()))
	cmd.AddCommand(schema.MarkInteractive(s.newSignMessageCommand()))
	cmd.AddCommand(s.newSignDelegateCommand())
	cmd.AddCommand(s.newCommandCommand())
	cmd.AddCommand(s.newVerifyCommand())
	cmd.AddCommand(s.newSchemaCommand())
	cmd.AddCommand(s.newVersionCommand())

	return cmd
}

func (s *runtimeState) openWallet() error {
	store, err := storage.OpenSQLite(s.settings.StorePath, s.settings.StoreLockPath, logx.Component(s.log, "storage"))
	if err != nil {
		return clierr.Wrap(clierr.CodeInternal, "open wallet store", err)
	}
	s.store = store

	ui := prompt.NewTerminal(s.runner.stdin, s.runner.stderr, prompt.TerminalOptions{
		Clipboard: s.settings.Clipboard,
		Log:       logx.Component(s.log, "prompt"),
	})
	return wallet.Register(wallet.Deps{
		Sessions:  session.NewKVRepository(store),
		UI:        ui,
		Verifier:  s.poller,
		Providers: map[network.Network][]string{s.settings.Network: s.settings.Providers()},
		Log:       logx.Component(s.log, "wallet"),
	}, func(w *wallet.Wallet) {
		s.wallet = w
	})
}

func (s *runtimeState) rpcURL() (string, error) {
	return network.ResolveRPCURL(s.settings.Network, s.settings.Providers())
}

func (s *runtimeState) newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.flags.JSON {
				info := model.VersionInfo{Name: version.CLIName, Version: version.CLIVersion}
				if long {
					info.Long = version.Long()
				}
				return s.emitSuccess(trimRootPath(cmd.CommandPath()), info)
			}
			if long {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Long())
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.CLIVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

func (s *runtimeState) newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [command path]",
		Short: "Print machine-readable command schema",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = strings.Join(args, " ")
			}
			data, err := schema.Build(s.root, path)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "build schema", err)
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), data)
		},
	}
	return cmd
}

func (s *runtimeState) emitSuccess(commandPath string, data any) error {
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: true,
		Data:    data,
		Error:   nil,
		Meta:    s.meta(commandPath),
	}
	return out.Render(s.runner.stdout, env, s.settings)
}

func (s *runtimeState) meta(commandPath string) model.EnvelopeMeta {
	return model.EnvelopeMeta{
		RequestID: uuid.NewString(),
		Timestamp: s.runner.now().UTC(),
		Command:   commandPath,
		Network:   s.settings.Network.String(),
	}
}

func (s *runtimeState) renderError(commandPath string, err error) {
	if strings.TrimSpace(commandPath) == "" {
		commandPath = s.lastCommand
		if commandPath == "" {
			commandPath = version.CLIName
		}
	}
	code := clierr.ExitCode(err)
	typ := clierr.Type(clierr.CodeInternal)
	message := err.Error()
	if cErr, ok := clierr.As(err); ok {
		typ = clierr.Type(cErr.Code)
		message = cErr.Error()
	}
	s.log.Debug().Err(err).Int("code", code).Msg("command failed")

	settings := s.settings
	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	settings.ResultsOnly = false
	settings.SelectFields = nil
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: false,
		Data:    []any{},
		Error: &model.ErrorBody{
			Code:    code,
			Type:    typ,
			Message: message,
		},
		Meta: s.meta(commandPath),
	}
	_ = out.Render(s.runner.stderr, env, settings)
}

func (s *runtimeState) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		norm := strings.TrimSpace(part)
		if norm != "" {
			out = append(out, norm)
		}
	}
	return out
}

func trimRootPath(path string) string {
	parts := strings.Fields(path)
	if len(parts) <= 1 {
		return path
	}
	return strings.Join(parts[1:], " ")
}

func normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clierr.As(err); ok {
		return err
	}
	if isLikelyUsageError(err) {
		return clierr.Wrap(clierr.CodeUsage, "invalid command input", err)
	}
	return clierr.Wrap(clierr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"required flag(s)",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"invalid args",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// needsWallet reports whether the command reads or writes the session store.
func needsWallet(commandPath string) bool {
	switch normalizeCommandPath(commandPath) {
	case "connect", "connect-sign-message", "disconnect", "accounts", "send", "send-many", "sign-message", "sign-delegate":
		return true
	default:
		return false
	}
}

func needsVerifier(commandPath string) bool {
	return needsWallet(commandPath) || normalizeCommandPath(commandPath) == "verify"
}

func normalizeCommandPath(commandPath string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(commandPath))), " ")
}
