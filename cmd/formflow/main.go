package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/prompt"
)

func main() {
	slug := flag.String("slug", "", "public form slug to open")
	configPath := flag.String("config", "", "optional YAML config file")
	endpoints := flag.String("endpoints", "", "comma-separated endpoint override")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *slug == "" {
		log.Fatal("missing required -slug")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *endpoints != "" {
		cfg.Endpoints = splitList(*endpoints)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("init logger: %v", err)
		}
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *slug); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		log.Fatalf("formflow: %v", err)
	}
}

func run(cfg config.Config, logger *zap.Logger, slug string) error {
	ctx := context.Background()

	eng := engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
	)

	session := eng.Mount(ctx, slug)
	defer session.Close()

	fmt.Printf("Loading form %q", slug)
	waitReady(session)
	fmt.Println()

	form, ok := session.Form()
	if !ok {
		return engine.ErrNotReady
	}

	fmt.Printf("\n%s\n", form.Title)
	if intro := form.SanitizedIntro(); intro != "" {
		fmt.Println(stripTags(intro))
	}
	fmt.Println()

	filler := prompt.NewFiller(prompt.SurveyDriver{}, cfg.Rules())
	if err := filler.Fill(form, session.Store()); err != nil {
		return err
	}

	confirmation, err := session.Submit(ctx)
	if err != nil {
		printSubmitErrors(session.Store())
		return err
	}

	fmt.Printf("\n%s\n%s\n", confirmation.Title, confirmation.Message)
	for _, detail := range confirmation.Details {
		fmt.Printf("  %s: %s\n", detail.Label, detail.Value)
	}
	return nil
}

// waitReady blocks until a schema is available, echoing a dot per retry so
// the terminal does not look frozen during backoff.
func waitReady(session *engine.Session) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	lastAttempt := 0
	for {
		select {
		case <-session.Ready():
			return
		case <-ticker.C:
			if attempt := session.RetryAttempt(); attempt > lastAttempt {
				lastAttempt = attempt
				fmt.Print(".")
			}
		}
	}
}

func printSubmitErrors(store *formstate.Store) {
	if msg := store.FormError(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	for _, field := range store.Fields() {
		if msg := store.Error(field.Key); msg != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field.Key, msg)
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// stripTags flattens sanitized intro markup for terminal display.
func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
