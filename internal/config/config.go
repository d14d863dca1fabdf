/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "strconv"
    "time"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string
    LogLevel string

    JiraBaseURL   string
    JiraUsername  string
    JiraToken     string
    JiraBasicAuth string // pre-encoded base64(user:token); takes precedence when set
    JiraJQL       string

    PageSize     int
    LookbackDays int
    OutputDir    string

    // Jira server/DC custom field ids carrying sprints and story points.
    SprintField string
    PointsField string

    DatasetEndpoint string

    ReportCron  string
    HTTPTimeout time.Duration
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func Load() Config {
    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "Local"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),
        LogLevel: getenv("LOG_LEVEL", "info"),

        JiraBaseURL:   getenv("JIRA_BASE_URL", ""),
        JiraUsername:  getenv("JIRA_USERNAME", ""),
        JiraToken:     getenv("JIRA_TOKEN", ""),
        JiraBasicAuth: getenv("JIRA_BASIC_AUTH", ""),
        JiraJQL:       getenv("JIRA_JQL", ""),

        PageSize:     atoi("PAGE_SIZE", 100),
        LookbackDays: atoi("LOOKBACK_DAYS", 7),
        OutputDir:    getenv("OUTPUT_DIR", "."),

        SprintField: getenv("JIRA_SPRINT_FIELD", "customfield_10020"),
        PointsField: getenv("JIRA_POINTS_FIELD", "customfield_10026"),

        DatasetEndpoint: getenv("DATASET_ENDPOINT", ""),

        ReportCron:  getenv("CRON_SPEC", "0 7 * * MON"),
        HTTPTimeout: dur("HTTP_TIMEOUT", 30*time.Second),
    }

    if cfg.TZ != "Local" {
        if loc, err := time.LoadLocation(cfg.TZ); err == nil {
            time.Local = loc
        } else {
            log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
        }
    }
    return cfg
}
