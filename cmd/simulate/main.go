// cmd/simulate/main.go
//
// Traffic simulator: drives the client-side pipeline (session identity,
// passive capture, dispatcher, cart) against a running API server, producing
// realistic shopper sessions for the stats endpoints to chew on.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"shopfront/api/analytics"
	"shopfront/api/cart"
	"shopfront/api/models"
	"shopfront/api/session"
	"shopfront/api/shopclient"
	"shopfront/api/storage"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "API server base URL")
		sessions  = flag.Int("sessions", 5, "number of shopper sessions to simulate")
		cartDB    = flag.String("cart-db", "", "optional sqlite path for a persistent cart (empty = in-memory)")
		convRate  = flag.Float64("conversion-rate", 0.3, "fraction of sessions that check out")
		thinkTime = flag.Duration("think", 50*time.Millisecond, "pause between shopper interactions")
	)
	flag.Parse()

	client := shopclient.New(*serverURL, nil)

	ctx := context.Background()
	items, err := client.FetchMerch(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch catalog: %v", err)
	}
	if len(items) == 0 {
		log.Fatal("Catalog is empty; nothing to simulate")
	}
	log.Printf("Catalog loaded: %d products", len(items))

	var cartBackend storage.KV
	if *cartDB != "" {
		db, err := storage.NewSQLite(*cartDB)
		if err != nil {
			log.Fatalf("Failed to open cart database: %v", err)
		}
		defer db.Close()
		cartBackend = db
	}

	for i := 0; i < *sessions; i++ {
		runSession(ctx, client, items, cartBackend, *convRate, *thinkTime)
	}

	log.Printf("Done: simulated %d sessions", *sessions)
}

// runSession plays one shopper: page view, a handful of tracked clicks,
// cart churn, and sometimes a checkout.
func runSession(ctx context.Context, client *shopclient.Client, items []models.MerchItem, cartBackend storage.KV, convRate float64, think time.Duration) {
	sessions := session.NewProvider(storage.NewMemory())
	tracker := analytics.NewTracker(
		client.CollectorURL(),
		sessions,
		analytics.WithPage("http://localhost:3000/store/browse", "shopfront-simulate/1.0"),
	)

	bus := analytics.NewBus()
	capture := analytics.NewCapture(bus, tracker)
	capture.Start()
	defer capture.Stop()

	if cartBackend == nil {
		cartBackend = storage.NewCookieJar()
	}
	basket := cart.NewStore(cartBackend)
	basket.Hydrate()
	ctx = cart.NewContext(ctx, basket)

	tracker.Track(ctx, analytics.Fields{
		"eventType": models.EventTypePageView,
		"path":      "/store/browse",
		"title":     "Browse Products",
	})

	interactions := rand.IntN(6) + 2
	for i := 0; i < interactions; i++ {
		item := items[rand.IntN(len(items))]
		merch := item.ToMerch()

		// A trackable product card click, observed by the capture layer.
		bus.Dispatch(analytics.Interaction{
			Type: "click",
			Target: analytics.Element{
				ID:      fmt.Sprintf("product-%d", item.ID),
				Tag:     "div",
				Classes: []string{analytics.TrackableClass},
			},
		})

		switch rand.IntN(3) {
		case 0:
			cart.FromContext(ctx).Add(merch, rand.IntN(2)+1)
			tracker.Track(ctx, analytics.Fields{
				"eventType":   models.EventTypeClick,
				"action":      models.ActionAddToCart,
				"productId":   merch.ID,
				"productName": merch.Name,
			})
		case 1:
			tracker.Track(ctx, analytics.Fields{
				"eventType": models.EventTypeClick,
				"action":    models.ActionViewProduct,
				"productId": merch.ID,
			})
		case 2:
			cart.FromContext(ctx).UpdateQuantity(merch.ID, rand.IntN(4))
		}

		time.Sleep(think)
	}

	// Some shoppers fiddle with the sort dropdown, which the capture layer
	// records with the selected value attached.
	if rand.IntN(2) == 0 {
		bus.Dispatch(analytics.Interaction{
			Type: "click",
			Target: analytics.Element{
				ID:      "sort-dropdown",
				Tag:     "select",
				Classes: []string{analytics.TrackableClass},
				Value:   []string{"name", "price-low", "price-high"}[rand.IntN(3)],
			},
		})
	}

	// Some subscribe to the newsletter.
	if rand.IntN(4) == 0 {
		tracker.Track(ctx, analytics.Fields{
			"eventType":  models.EventTypeFormSubmit,
			"formId":     "newsletter-signup",
			"fieldCount": 1,
			"isValid":    true,
		})
	}

	basket = cart.FromContext(ctx)
	if basket.TotalItems() > 0 && rand.Float64() < convRate {
		var detail []models.ConversionItem
		for _, line := range basket.Items() {
			detail = append(detail, models.ConversionItem{
				ID:       line.ID,
				Name:     line.Name,
				Price:    line.Price,
				Quantity: line.Quantity,
			})
		}
		tracker.Track(ctx, analytics.Fields{
			"eventType":   models.EventTypeConversion,
			"action":      models.ActionCheckoutDone,
			"total":       basket.TotalPrice(),
			"itemCount":   basket.TotalItems(),
			"itemsDetail": detail,
		})
		basket.Clear()
	}

	tracker.Track(ctx, analytics.Fields{
		"eventType": models.EventTypeNavigation,
		"action":    "navigate",
		"fromPath":  "/store/browse",
		"toPath":    "/",
	})

	sessions.Clear()
}
