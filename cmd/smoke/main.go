package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/robby/epicreport/internal/auth"
	"github.com/robby/epicreport/internal/config"
	"github.com/robby/epicreport/internal/domain"
	"github.com/robby/epicreport/internal/jira"
	"github.com/robby/epicreport/internal/pipeline"
)

// Runs each report query against a live Jira and prints what comes back.
// Needs JIRA_BASE_URL, JIRA_USERNAME and JIRA_PASSWORD.
func main() {
	cfg := config.Default()
	cfg.BaseURL = os.Getenv("JIRA_BASE_URL")
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	creds, err := auth.Resolve(&auth.EnvProvider{})
	if err != nil {
		log.Fatal(err)
	}

	client := jira.New(cfg, creds, zerolog.New(os.Stderr).Level(zerolog.DebugLevel))
	normalizer := jira.Normalizer{
		EpicLinkField: cfg.EpicLinkField,
		OwnerField:    cfg.OwnerField,
		EpicPrefix:    cfg.EpicPrefix(),
	}

	ctx := context.Background()
	queries := pipeline.QueriesFor(cfg)

	for _, q := range []struct{ name, jql string }{
		{"SCRs", queries.Scr},
		{"Stories", queries.Story},
		{"Epics", queries.Epic},
	} {
		fmt.Printf("%s\n  JQL: %s\n", q.name, q.jql)

		issues, err := client.Search(ctx, q.jql)
		if err != nil {
			log.Fatal(err)
		}
		tickets := normalizer.NormalizeAll(issues)
		fmt.Printf("  Fetched: %d\n", len(tickets))

		// First few are enough to eyeball the field mapping
		for _, t := range tickets[:min(len(tickets), 5)] {
			fmt.Printf("    %s [%s] epic=%s svp=%s reporter=%s created=%s resolved=%s\n      %s\n",
				t.Key, t.Status,
				domain.Value(t.Epic), domain.Value(t.SVP), domain.Value(t.Reporter),
				domain.DateOnly(domain.Value(t.Created)), domain.DateOnly(domain.Value(t.Resolved)),
				t.Summary)
		}
		fmt.Println()
	}
}
