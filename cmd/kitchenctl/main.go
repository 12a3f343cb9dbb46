package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/kitchenops/internal/pricing"
	"github.com/angelmondragon/kitchenops/internal/production"
	"github.com/angelmondragon/kitchenops/pkg/config"
	"github.com/angelmondragon/kitchenops/pkg/db"
	"github.com/angelmondragon/kitchenops/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenops/pkg/errors"
	"github.com/angelmondragon/kitchenops/pkg/logger"
	"github.com/angelmondragon/kitchenops/pkg/money"
	"github.com/angelmondragon/kitchenops/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "kitchenctl"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "summary", "command: summary|rebuild|complete|cancel|partial|order-totals|line-totals")
	day := flag.String("day", "", "production day (YYYY-MM-DD), defaults to today")
	itemID := flag.String("item", "", "line item id")
	orderID := flag.String("order", "", "order id (for order-totals)")
	reason := flag.String("reason", "", "cancellation reason")
	amount := flag.Float64("amount", 0, "partial quantity produced")
	notes := flag.String("notes", "", "partial production notes")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "kitchenctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	switch *cmd {
	case "order-totals", "line-totals":
		svc, err := newPricingService(cfg, logg, dbClient)
		requireResource(ctx, logg, "pricing service", err)
		tag, err := money.ParseLocale(cfg.Pricing.Locale)
		requireResource(ctx, logg, "locale", err)
		if *cmd == "order-totals" {
			totals, err := svc.OrderTotals(ctx, parseID(*orderID, "order"))
			exitOnError(ctx, logg, err)
			initial, final, lines := totals.Display(tag)
			printJSON(map[string]any{
				"totals":  totals,
				"initial": initial,
				"final":   final,
				"lines":   lines,
			})
			return
		}
		line, err := svc.LineTotals(ctx, parseID(*itemID, "item"))
		exitOnError(ctx, logg, err)
		currency, _ := enums.ParseCurrency(cfg.Pricing.Currency)
		printJSON(map[string]any{
			"totals":  line,
			"initial": money.Format(line.Initial, currency, tag),
			"final":   money.Format(line.Final, currency, tag),
		})
		return
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	svc, err := newProductionService(cfg, logg, dbClient, redisClient)
	requireResource(ctx, logg, "production service", err)

	switch *cmd {
	case "summary":
		summary, err := svc.DailySummary(ctx, resolveDay(ctx, logg, cfg, *day))
		exitOnError(ctx, logg, err)
		printJSON(summary)
	case "rebuild":
		agg, err := svc.RebuildAggregate(ctx, resolveDay(ctx, logg, cfg, *day))
		exitOnError(ctx, logg, err)
		printJSON(agg)
	case "complete":
		item, err := svc.RecordCompletion(ctx, parseID(*itemID, "item"))
		exitOnError(ctx, logg, err)
		printJSON(item)
	case "cancel":
		item, err := svc.RecordCancellation(ctx, parseID(*itemID, "item"), *reason)
		exitOnError(ctx, logg, err)
		printJSON(item)
	case "partial":
		item, err := svc.RecordPartialProduction(ctx, parseID(*itemID, "item"), *amount, *notes)
		exitOnError(ctx, logg, err)
		printJSON(item)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func newProductionService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (production.Service, error) {
	store, err := production.NewRedisAggregateStore(redisClient, cfg.Production.AggregateTTL)
	if err != nil {
		return nil, err
	}
	return production.NewService(production.ServiceParams{
		Repo:   production.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Store:  store,
		Policy: production.PolicyFor(cfg.Production.Policy()),
		Logger: logg,
	})
}

func newPricingService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (pricing.Service, error) {
	resolverCfg := pricing.ResolverConfig{
		ChangeThreshold: decimal.NewFromFloat(cfg.Pricing.ChangeThreshold),
	}
	if !cfg.Pricing.StaleZeroGuard {
		resolverCfg.StaleZero = pricing.TrustBackendFinal
	}
	currency, err := enums.ParseCurrency(cfg.Pricing.Currency)
	if err != nil {
		return nil, err
	}
	return pricing.NewService(pricing.ServiceParams{
		Repo:     pricing.NewRepository(dbClient.DB()),
		Resolver: pricing.NewResolver(resolverCfg),
		Currency: currency,
		Logger:   logg,
	})
}

func resolveDay(ctx context.Context, logg *logger.Logger, cfg *config.Config, day string) string {
	if day == "" {
		loc, err := cfg.Production.Location()
		requireResource(ctx, logg, "timezone", err)
		return production.DayOf(time.Now(), loc)
	}
	parsed, err := production.ParseDay(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -day: %v\n", err)
		os.Exit(1)
	}
	return parsed
}

func parseID(value, name string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -%s id: %v\n", name, err)
		os.Exit(1)
	}
	return id
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(ctx context.Context, logg *logger.Logger, err error) {
	if err == nil {
		return
	}
	if typed := pkgerrors.As(err); typed != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", typed.Code(), typed.Message())
		if details := typed.Details(); details != nil {
			printJSON(details)
		}
		os.Exit(2)
	}
	logg.Error(ctx, "command failed", err)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
