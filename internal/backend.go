package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/markusressel/pid2go/internal/api"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/controller"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/sinks"
	"github.com/markusressel/pid2go/internal/statistics"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const journalQueueSize = 1024

func RunDaemon() {
	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	journal := sinks.NewJournal(pers, config.JournalSize, journalQueueSize)

	controllers, err := InitializeObjects(config, journal)
	if err != nil {
		ui.Fatal("%v", err)
	}
	if anyJournalEnabled(config) {
		if err := pers.Init(); err != nil {
			ui.Fatal("Unable to initialize journal database %s: %v", config.DbPath, err)
		}
	}

	if _, err := statistics.RegisterControllers(prometheus.DefaultRegisterer, controllers); err != nil {
		ui.Fatal("Unable to register controller statistics: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Serving metrics on %s/metrics", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST Api
			rest := api.CreateRestService(pers, prometheus.DefaultRegisterer)
			addr := config.Api.ListenAddress()

			g.Add(func() error {
				ui.Info("Serving api on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start api (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping api server: %v", err)
				} else {
					ui.Info("Api server stopped.")
				}
			})
		}
	}
	{
		// === output journal
		g.Add(func() error {
			return journal.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	{
		// === controllers
		for _, c := range controllers {
			contr := c
			g.Add(func() error {
				return contr.Run(ctx)
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong in controller %s: %v", contr.GetId(), err)
				}
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects creates a controller for every configured controller
// and registers it in the ControllerMap
func InitializeObjects(config configuration.Configuration, journal *sinks.Journal) ([]controller.PidController, error) {
	var result []controller.PidController
	for _, controllerConfig := range config.Controllers {
		logSink := sinks.LogSink{ControllerId: controllerConfig.ID}

		outputs := []pid.OutputSink{logSink}
		if controllerConfig.Output.File != nil {
			fileSink, err := sinks.NewFileSink(controllerConfig.ID, *controllerConfig.Output.File)
			if err != nil {
				return nil, fmt.Errorf("controller %s: unable to create file output: %w", controllerConfig.ID, err)
			}
			outputs = append(outputs, fileSink)
		}
		if journal != nil && controllerConfig.Journal.Get() {
			outputs = append(outputs, journal.Sink(controllerConfig.ID))
		}

		contr := controller.NewPidController(controllerConfig, sinks.Outputs(outputs...), logSink)
		controller.ControllerMap.Set(controllerConfig.ID, contr)
		result = append(result, contr)
	}

	if len(result) <= 0 {
		return nil, errors.New("no valid controller configurations")
	}
	return result, nil
}

func anyJournalEnabled(config configuration.Configuration) bool {
	for _, controllerConfig := range config.Controllers {
		if controllerConfig.Journal.Get() {
			return true
		}
	}
	return false
}
