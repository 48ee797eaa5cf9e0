// Command inspect pages through one entity family of a threadq store and
// prints what it finds. Intended for operators poking at a live database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadq/threadq/internal/config"
	"github.com/threadq/threadq/internal/infrastructure/mongostore"
	"github.com/threadq/threadq/internal/query"
	"github.com/threadq/threadq/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	family := flag.String("family", "messages", "Entity family to list (messages, participants, events)")
	configPath := flag.String("config", "", "Path to yaml config (optional)")
	pageSize := flag.Int("page-size", 0, "Rows per page (0 uses the configured default)")
	maxPages := flag.Int("max-pages", 1, "Number of pages to fetch")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *pageSize <= 0 {
		*pageSize = cfg.Query.PageSize
	}

	ctx := context.Background()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Store.URI))
	if err != nil {
		logger.Error("failed to connect to store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			logger.Error("failed to disconnect", slog.String("error", disconnectErr.Error()))
		}
	}()

	st := mongostore.New(client.Database(cfg.Store.Database))

	if err = inspect(ctx, st, logger, *family, *pageSize, *maxPages); err != nil {
		logger.Error("inspect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func inspect(ctx context.Context, st store.Store, logger *slog.Logger, family string, pageSize, maxPages int) error {
	var token *store.Token
	for page := 0; page < maxPages; page++ {
		filter := store.Filter{store.FilterLimit: pageSize}
		if token != nil {
			filter[store.FilterAfter] = string(*token)
		}

		var err error
		token, err = listPage(ctx, st, logger, family, filter)
		if err != nil {
			return err
		}
		if token == nil {
			break
		}
	}
	return nil
}

func listPage(
	ctx context.Context,
	st store.Store,
	logger *slog.Logger,
	family string,
	filter store.Filter,
) (*store.Token, error) {
	switch family {
	case "messages":
		token, refs, err := query.NewMessageService(st, logger).QueryMessages(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			fmt.Printf("%s/%d\n", ref.Direction, ref.ID)
		}
		return token, nil

	case "participants":
		token, ids, err := query.NewParticipantService(st, logger).QueryParticipants(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			fmt.Printf("participant/%d\n", id)
		}
		return token, nil

	case "events":
		token, events, err := query.NewEventService(st, logger).QueryEvents(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, evt := range events {
			fmt.Printf("event type=%d at=%d source=%d\n", evt.Type(), evt.When(), evt.Source())
		}
		return token, nil

	default:
		return nil, fmt.Errorf("unknown family %q (want messages, participants or events)", family)
	}
}
