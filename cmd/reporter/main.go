/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"

    "github.com/HamedShams/backlog-pulse/internal/adapters/dataset"
    "github.com/HamedShams/backlog-pulse/internal/adapters/jira"
    "github.com/HamedShams/backlog-pulse/internal/config"
    apphttp "github.com/HamedShams/backlog-pulse/internal/http"
    "github.com/HamedShams/backlog-pulse/internal/jobs"
    "github.com/HamedShams/backlog-pulse/internal/logger"
    "github.com/HamedShams/backlog-pulse/internal/services"
    "github.com/HamedShams/backlog-pulse/internal/snapshot"
    "github.com/rs/zerolog"
    "github.com/spf13/cobra"
)

func main() {
    root := &cobra.Command{
        Use:           "backlog-pulse",
        Short:         "Periodic Jira backlog snapshots with week-over-week diff reports",
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.AddCommand(runCmd(), serveCmd())
    if err := root.Execute(); err != nil { os.Exit(1) }
}

func buildService(cfg config.Config, log zerolog.Logger) *services.Service {
    jc := jira.NewClient(cfg, log)
    store := snapshot.NewStore(cfg.OutputDir, log)
    push := dataset.NewClient(cfg, log)
    return services.New(cfg, log, jc, store, push)
}

func runCmd() *cobra.Command {
    var endpoint, jql, user, token, outputDir string
    cmd := &cobra.Command{
        Use:   "run",
        Short: "Execute one report run and exit",
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg := config.Load()
            if endpoint != "" { cfg.JiraBaseURL = endpoint }
            if jql != "" { cfg.JiraJQL = jql }
            if user != "" { cfg.JiraUsername = user }
            if token != "" { cfg.JiraToken = token }
            if outputDir != "" { cfg.OutputDir = outputDir }
            log := logger.New(cfg)

            ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
            defer stop()

            svc := buildService(cfg, log)
            if err := svc.RunReport(ctx); err != nil {
                log.Error().Err(err).Msg("report run aborted")
                return err
            }
            return nil
        },
    }
    cmd.Flags().StringVar(&endpoint, "endpoint", "", "Jira base URL (overrides JIRA_BASE_URL)")
    cmd.Flags().StringVar(&jql, "jql", "", "saved query JQL (overrides JIRA_JQL)")
    cmd.Flags().StringVar(&user, "user", "", "Jira username (overrides JIRA_USERNAME)")
    cmd.Flags().StringVar(&token, "token", "", "Jira API token (overrides JIRA_TOKEN)")
    cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for reports and snapshots (overrides OUTPUT_DIR)")
    return cmd
}

func serveCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "serve",
        Short: "Run on a cron schedule with an admin HTTP endpoint",
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg := config.Load()
            log := logger.New(cfg)
            svc := buildService(cfg, log)

            cron := jobs.NewCron(cfg, log, svc)
            cron.Start()
            defer cron.Stop()

            router := apphttp.NewRouter(cfg, log, svc)
            errCh := make(chan error, 1)
            go func() { errCh <- router.Run(cfg.HTTPAddr) }()

            sigCh := make(chan os.Signal, 1)
            signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

            select {
            case <-sigCh:
                log.Info().Msg("shutting down...")
                return nil
            case err := <-errCh:
                if err != nil { log.Error().Err(err).Msg("http server error") }
                return err
            }
        },
    }
}
