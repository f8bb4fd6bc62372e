/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Starting point for the interactor cmd
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/adobe/atomic-interactor/lib/build"
	"github.com/adobe/atomic-interactor/lib/config"
	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/monitoring"
	"github.com/adobe/atomic-interactor/lib/scenario"
	"github.com/adobe/atomic-interactor/lib/session"
)

func main() {
	fmt.Fprintf(os.Stderr, "Atomic Interactor %s (%s)\n", build.Version, build.Time)

	var logVerbosity string
	var logTimestamp bool

	cmd := &cobra.Command{
		Use:   "atomic-interactor",
		Short: "Atomic interactor",
		Long:  `Runs the component scenarios in the browser through playwright or rod`,
		PersistentPreRunE: func(_ /*cmd*/ *cobra.Command, _ /*args*/ []string) (err error) {
			logCfg := log.DefaultConfig()
			logCfg.Level = logVerbosity
			logCfg.UseTimestamp = logTimestamp
			return log.Initialize(logCfg)
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&logVerbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&logTimestamp, "timestamp", true, "prepend timestamps for each log line")
	flags.Lookup("timestamp").NoOptDefVal = "false"

	cmd.AddCommand(runCmd(&logVerbosity, &logTimestamp), validateCmd(), selectorCmd(), driversCmd(), versionCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(logVerbosity *string, logTimestamp *bool) *cobra.Command {
	var cfgPath string
	var backend string
	var browser string
	var baseURL string
	var headful bool
	var keepCaptures bool
	var metricsAddress string
	var junitPath string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run the scenarios in the browser",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger := log.WithFunc("main", "run")

			cfg := config.Default()
			if err = cfg.ReadConfigFile(cfgPath); err != nil {
				logger.Error("Unable to apply config file", "cfg_path", cfgPath, "err", err)
				return err
			}
			if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
				return err
			}
			// Log section of the file applies unless the flags were set
			err = cfg.InitLog(func(l *log.Config) {
				if cmd.Flags().Changed("verbosity") {
					l.Level = *logVerbosity
				}
				if cmd.Flags().Changed("timestamp") {
					l.UseTimestamp = *logTimestamp
				}
			})
			if err != nil {
				return err
			}
			logger = log.WithFunc("main", "run")
			if backend != "" {
				cfg.Backend = backend
			}
			if browser != "" {
				cfg.Browser = browser
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if cmd.Flags().Changed("headful") {
				cfg.Headless = !headful
			}
			if err = cfg.Validate(); err != nil {
				return err
			}

			var scenarios []*scenario.Scenario
			for _, path := range args {
				list, err := scenario.LoadFile(path)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, list...)
			}
			logger.Info("Scenarios loaded", "count", len(scenarios), "files", len(args))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitor, err := initMonitoring(ctx, cfg, metricsAddress)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := monitor.Shutdown(sctx); err != nil {
					logger.Error("Error shutting down monitoring", "err", err)
				}
			}()

			sess, err := session.Open(cfg, monitor)
			if err != nil {
				logger.Error("Unable to open session", "backend", cfg.Backend, "err", err)
				return err
			}

			runner := &scenario.Runner{
				Interactor:   sess.Interactor(),
				Visitor:      sess,
				Monitor:      monitor,
				PollInterval: cfg.PollInterval.Std(),
				OnFailure: func(ctx context.Context, sc *scenario.Scenario, res *scenario.StepResult) {
					path, err := sess.Capture(ctx, captureName(sc.Name))
					if err != nil {
						logger.Warn("Unable to capture the failure", "scenario", sc.Name, "err", err)
						return
					}
					logger.Info("Failure captured", "scenario", sc.Name, "step", res.Step.String(), "path", path)
				},
			}

			started := time.Now()
			var reports []*scenario.Report
			var failed []string
			for _, sc := range scenarios {
				if ctx.Err() != nil {
					break
				}
				report := runner.Run(ctx, sc)
				reports = append(reports, report)
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s (%s)\n", strings.ToUpper(report.Status), report.Scenario, report.Duration.Round(time.Millisecond))
				if report.Reason != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "         %s\n", report.Reason)
				}
				if !report.Passed() {
					fmt.Fprintf(cmd.OutOrStdout(), "         %v\n", report.Err)
					failed = append(failed, sc.Name)
				}
			}

			if junitPath != "" {
				if err = scenario.WriteJUnitFile(junitPath, started, reports); err != nil {
					logger.Error("Unable to write junit report", "path", junitPath, "err", err)
				}
			}
			if cerr := sess.Close(keepCaptures || len(failed) > 0); cerr != nil {
				logger.Warn("Unable to close session", "err", cerr)
			}
			if err = ctx.Err(); err != nil {
				return err
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d scenarios failed: %s", len(failed), len(scenarios), strings.Join(failed, ", "))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgPath, "cfg", "c", "", "yaml configuration file")
	flags.StringVarP(&backend, "backend", "b", "", "automation backend: "+strings.Join(config.Backends, ", "))
	flags.StringVar(&browser, "browser", "", "browser to run: "+strings.Join(config.Browsers, ", "))
	flags.StringVarP(&baseURL, "base-url", "u", "", "application url to resolve the scenario routes")
	flags.BoolVar(&headful, "headful", false, "show the browser window")
	flags.BoolVar(&keepCaptures, "keep-captures", false, "keep screenshots and videos of the passed run")
	flags.StringVar(&junitPath, "junit", "", "write the junit xml report into the file")
	flags.StringVar(&metricsAddress, "metrics", "", "address to expose the prometheus metrics, like localhost:9464")

	return cmd
}

func initMonitoring(ctx context.Context, cfg *config.Config, metricsAddress string) (*monitoring.Monitor, error) {
	logger := log.WithFunc("main", "initMonitoring")
	if cfg.Monitoring == nil {
		cfg.Monitoring = monitoring.DefaultConfig()
	}
	if metricsAddress != "" {
		cfg.Monitoring.Enabled = true
		cfg.Monitoring.EnableMetrics = true
	}
	if cfg.Monitoring.Attributes == nil {
		cfg.Monitoring.Attributes = map[string]string{}
	}
	cfg.Monitoring.Attributes["backend"] = cfg.Backend
	cfg.Monitoring.Attributes["browser"] = cfg.Browser

	monitor, err := monitoring.Initialize(ctx, cfg.Monitoring)
	if err != nil {
		logger.Error("Unable to initialize monitoring", "err", err)
		return nil, fmt.Errorf("unable to initialize monitoring: %w", err)
	}
	if metricsAddress == "" || !monitor.HasPrometheus() {
		return monitor, nil
	}

	srv := &http.Server{
		Addr:              metricsAddress,
		Handler:           otelhttp.NewHandler(promhttp.Handler(), "metrics"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", "address", metricsAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	return monitor, nil
}

// captureName makes the file name from the scenario name
func captureName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Check the scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				list, err := scenario.LoadFile(path)
				if err != nil {
					return err
				}
				for _, sc := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d parts, %d steps)\n", path, sc.Name, len(sc.Parts), len(sc.Steps))
				}
			}
			return nil
		},
	}
}

func selectorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <chain>",
		Short: "Print the css selector of the locator chain",
		Long:  `Chain steps are separated by ">>", like: data-testid=apple >> input[type=checkbox]`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := locator.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chain.Selector())
			return nil
		},
	}
}

func driversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List the drivers available for the scenario parts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range driver.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", build.Version, build.Time)
		},
	}
}
