// gider-report prints a one-shot spending summary to the terminal using
// the stored session, without starting the dashboard server.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gider/internal/backend"
	"gider/internal/cli"
	"gider/internal/core"
	"gider/internal/dashboard"
	"gider/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.OpenTokenStore(logger, cfg.TokenDBPath)
	defer store.Close()

	factory := backend.NewFactory(logger, store)
	result, err := factory.Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() { _ = result.Cleanup() }()

	svc := dashboard.New(result.Backend, store, logger.WithComponent(log.ComponentDashboard), dashboard.Options{
		Timeout: cfg.RequestTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	ident, err := svc.Identity(ctx)
	if err != nil {
		logger.Error("No usable session, run gider-login first", log.FieldError, err)
		os.Exit(1)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		logger.Error("Failed to build summary", log.FieldError, err)
		os.Exit(1)
	}

	printSummary(ident, summary)
}

func printSummary(ident dashboard.Identity, s core.Summary) {
	name := ident.DisplayName
	if name == "" {
		name = ident.UserID
	}
	fmt.Printf("Spending summary for %s\n\n", name)
	fmt.Printf("Total: %s\n", formatLira(s.Total))
	fmt.Printf("Categories: %d\n\n", s.CategoryCount)

	if len(s.Distribution) > 0 {
		fmt.Println("By category:")
		for _, d := range s.Distribution {
			fmt.Printf("  %-20s %12s\n", d.Name, formatLira(d.Amount))
		}
		fmt.Println()
	}

	if len(s.Monthly) > 0 {
		fmt.Println("By month:")
		for _, m := range s.Monthly {
			marker := ""
			if m.Year == s.Peak.Year && m.Month == s.Peak.Month {
				marker = "  << peak"
			}
			fmt.Printf("  %-10s %12s%s\n", m.Label, formatLira(m.Total), marker)
		}
	} else {
		fmt.Println("No dated expenses yet.")
	}
}

// formatLira renders cents as a Turkish lira string, e.g. "₺1.234,56".
func formatLira(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "₺" + strings.Join(groups, ".") + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-" + out
	}
	return out
}
