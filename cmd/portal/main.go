// Command portal is a terminal client for the HMTC portal backend and site.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
	"github.com/hmtc-its/hmtc-portal/pkg/config"
	"github.com/hmtc-its/hmtc-portal/pkg/logger"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":           {"sign in and store the token", cmdLogin},
	"logout":          {"forget the stored token", cmdLogout},
	"register":        {"create an account", cmdRegister},
	"forgot-password": {"request a password reset", cmdForgotPassword},
	"change-password": {"change the signed-in password", cmdChangePassword},
	"me":              {"show or edit the signed-in profile", cmdMe},
	"gallery":         {"list, get, create, update or delete gallery items", cmdGallery},
	"repo":            {"list, get, create, update, status or delete repository entries", cmdRepo},
	"requests":        {"list, get, create or review access requests", cmdRequests},
	"uploads":         {"list, get, submit or review uploads", cmdUploads},
	"schedule":        {"check or watch schedule windows", cmdSchedule},
	"magang":          {"submit a magang application", cmdMagang},
}

type app struct {
	cfg       *config.Config
	backend   *apiclient.Client
	site      *apiclient.Client
	session   *service.Session
	tokenFile string
	logger    *zap.Logger
	out       io.Writer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		backendURL string
		siteURL    string
		tokenFile  string
		timeout    time.Duration
		verbose    bool
	)
	flag.StringVar(&backendURL, "backend", cfg.API.BackendURL, "Backend REST API base URL")
	flag.StringVar(&siteURL, "site", cfg.API.SiteURL, "Site base URL for /api/schedule and /api/apply-magang")
	flag.StringVar(&tokenFile, "token-file", defaultTokenFile(), "Where the session token is stored")
	flag.DurationVar(&timeout, "timeout", cfg.API.Timeout, "HTTP client timeout")
	flag.BoolVar(&verbose, "v", false, "Log every API request")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	logr := logger.NewCLI(verbose)
	defer logr.Sync() //nolint:errcheck

	a, err := newApp(cfg, backendURL, siteURL, tokenFile, timeout, logr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, backendURL, siteURL, tokenFile string, timeout time.Duration, logr *zap.Logger) (*app, error) {
	session := service.NewSession()
	if err := loadToken(tokenFile, session); err != nil {
		logr.Warn("ignoring stored token", zap.String("file", tokenFile), zap.Error(err))
	}

	base := apiclient.Config{Timeout: timeout, UserAgent: cfg.API.UserAgent}
	base.BaseURL = backendURL
	backend, err := apiclient.New(base, apiclient.WithLogger(logr), apiclient.WithTokenSource(session))
	if err != nil {
		return nil, err
	}
	base.BaseURL = siteURL
	site, err := apiclient.New(base, apiclient.WithLogger(logr))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:       cfg,
		backend:   backend,
		site:      site,
		session:   session,
		tokenFile: tokenFile,
		logger:    logr,
		out:       os.Stdout,
	}, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <command> [args]\n\ncommands:\n", filepath.Base(os.Args[0]))
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(os.Stderr, "\nflags:")
	flag.PrintDefaults()
}
