// Command apikey provisions an API integration from the terminal and prints
// the generated key. The key is shown exactly once; it cannot be recovered
// afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aghamazing/quest-core/internal/config"
	"github.com/aghamazing/quest-core/internal/database"
	"github.com/aghamazing/quest-core/internal/modules/integration"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	name := flag.String("name", "", "Integration name (required)")
	description := flag.String("description", "", "Integration description")
	rateLimit := flag.Int("rate-limit", 0, "Requests per hour per IP (0 = default)")
	creator := flag.String("creator", "", "Creating user id")
	endpoints := flag.String("endpoints", "", "Comma-separated endpoint patterns, empty = all")
	ips := flag.String("ip-whitelist", "", "Comma-separated allowed IPs, empty = unrestricted")
	inactive := flag.Bool("inactive", false, "Create the integration deactivated")
	flag.Parse()

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "error: -name is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config", err)
	}
	db, err := database.Connect(cfg, true)
	if err != nil {
		fatal("connect database", err)
	}

	svc := integration.NewService(db)
	created, err := svc.Create(context.Background(), *creator, integration.CreateDTO{
		Name:             *name,
		Description:      *description,
		AllowedEndpoints: splitList(*endpoints),
		IPWhitelist:      splitList(*ips),
		RateLimit:        *rateLimit,
	})
	if err != nil {
		fatal("create integration", err)
	}
	if *inactive {
		if err := svc.Revoke(context.Background(), created.ID); err != nil {
			fatal("deactivate integration", err)
		}
		created.IsActive = false
	}

	fmt.Printf("Integration created\n")
	fmt.Printf("  id:          %s\n", created.ID)
	fmt.Printf("  name:        %s\n", created.Name)
	fmt.Printf("  active:      %v\n", created.IsActive)
	fmt.Printf("  rate limit:  %d req/hour\n", created.RateLimit)
	if len(created.AllowedEndpoints) > 0 {
		fmt.Printf("  endpoints:   %s\n", strings.Join(created.AllowedEndpoints, ", "))
	}
	if len(created.IPWhitelist) > 0 {
		fmt.Printf("  ips:         %s\n", strings.Join(created.IPWhitelist, ", "))
	}
	fmt.Printf("\nAPI key (shown once, store it now):\n  %s\n", created.APIKey)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", what, err)
	os.Exit(1)
}
