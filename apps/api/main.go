package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/tafakari/apps/api/echo"
	"github.com/trezcool/tafakari/core"
	"github.com/trezcool/tafakari/core/dashboard"
	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/triage"
	"github.com/trezcool/tafakari/core/user"
	emailsvc "github.com/trezcool/tafakari/services/email"
	guidancesvc "github.com/trezcool/tafakari/services/guidance"
	logsvc "github.com/trezcool/tafakari/services/logger"
	"github.com/trezcool/tafakari/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	clock := core.SystemClock(conf.Location())

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	// set up repositories
	repos, err := database.OpenRepositories(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()
	usrRepo, reflRepo := repos.Users, repos.Reflections

	if conf.SeedMockData {
		if err = database.Seed(context.Background(), usrRepo, reflRepo, clock); err != nil {
			logger.Fatal(fmt.Sprintf("seeding mock data: %v", err), err)
		}
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	gen, err := newGuidanceGenerator(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up guidance: %v", err), err)
	}

	store := repos.Store()
	usrSvc := user.NewService(usrRepo, clock)
	reflSvc := reflection.NewService(reflRepo, usrRepo, clock)
	board := dashboard.NewBoard(store, clock, conf.NegativeWindow)
	ctrl := triage.NewController(store, gen, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	reflection.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("databaseEngine").Set(conf.Database.Engine)
	expvar.NewString("guidanceProvider").Set(conf.Guidance.Provider)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			ReflectionSvc: reflSvc,
			Board:         board,
			Triage:        ctrl,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newGuidanceGenerator(conf *core.Config) (guidance.Generator, error) {
	switch conf.Guidance.Provider {
	case "", "template":
		return guidance.NewTemplateGenerator(conf.Guidance.Delay), nil
	case "gemini":
		gen, err := guidancesvc.NewGeminiGenerator(context.Background(), conf.Guidance.GeminiAPIKey, conf.Guidance.Model)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
	return nil, errors.Errorf("unknown guidance provider %q", conf.Guidance.Provider)
}
