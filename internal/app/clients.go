package app

import (
	"fmt"

	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/platform/cache"
	"github.com/wanderly/wanderly-backend/internal/platform/flouci"
	"github.com/wanderly/wanderly-backend/internal/platform/mailjet"
	"github.com/wanderly/wanderly-backend/internal/platform/openai"
	"github.com/wanderly/wanderly-backend/internal/platform/paypal"
	"github.com/wanderly/wanderly-backend/internal/platform/pricefeed"
)

type Clients struct {
	OpenAI openai.Client
	PayPal paypal.Client
	Flouci flouci.Client

	// Optional: nil PriceFeed disables the alert sweeper, nil Mailjet
	// downgrades alert delivery to a log line, a missing Redis becomes
	// a no-op cache.
	PriceFeed pricefeed.Client
	Mailjet   mailjet.Client
	Cache     cache.Cache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}
	paypalClient, err := paypal.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init paypal client: %w", err)
	}
	flouciClient, err := flouci.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init flouci client: %w", err)
	}

	feedClient, err := pricefeed.NewClient(log)
	if err != nil {
		log.Warn("price feed unavailable, alert sweeper disabled", "error", err)
		feedClient = nil
	}
	mailjetClient, err := mailjet.NewFromEnv(log)
	if err != nil {
		log.Warn("mailjet unavailable, alert emails disabled", "error", err)
		mailjetClient = nil
	}
	cacheClient, err := cache.NewRedisCache(log)
	if err != nil {
		log.Warn("redis unavailable, recommendation cache disabled", "error", err)
		cacheClient = cache.Noop()
	}

	return Clients{
		OpenAI:    openaiClient,
		PayPal:    paypalClient,
		Flouci:    flouciClient,
		PriceFeed: feedClient,
		Mailjet:   mailjetClient,
		Cache:     cacheClient,
	}, nil
}
