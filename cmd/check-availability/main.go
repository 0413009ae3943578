package main

import (
	"flag"
	"fmt"
	"log"

	"booking-storefront/internal/config"
	"booking-storefront/internal/models"
	"booking-storefront/internal/services"
)

func main() {
	vertical := flag.String("vertical", "events", "vertical to query (events, dining, play)")
	entityID := flag.String("id", "", "entity ID to check")
	flag.Parse()

	if *entityID == "" {
		log.Fatal("Usage: check-availability -id <entity-id> [-vertical events|dining|play]")
	}
	v := models.Vertical(*vertical)
	if !v.IsValid() {
		log.Fatalf("Unknown vertical %q", *vertical)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	client := services.NewBookingAPIClient(services.BookingAPIConfig{
		BaseURL: cfg.BookingAPI.BaseURL,
		Timeout: cfg.BookingAPI.Timeout,
	})

	entity, err := client.GetEntity(v, *entityID)
	if err != nil {
		log.Fatal("Failed to fetch entity:", err)
	}

	fmt.Printf("%s (%s)\n", entity.Name, entity.City)

	var snapshot *models.AvailabilitySnapshot
	if v == models.VerticalEvents {
		snapshot, err = client.GetEventAvailability(*entityID)
		if err != nil {
			log.Fatal("Failed to fetch availability:", err)
		}
	}

	categories := models.NormalizeCategories(entity)
	for i := range categories {
		tc := &categories[i]
		remaining, unlimited := tc.Remaining(snapshot)
		switch {
		case unlimited:
			fmt.Printf("  %-20s %10.2f  unlimited\n", tc.Name, tc.Price)
		case remaining == 0:
			fmt.Printf("  %-20s %10.2f  SOLD OUT\n", tc.Name, tc.Price)
		default:
			fmt.Printf("  %-20s %10.2f  %d remaining\n", tc.Name, tc.Price, remaining)
		}
	}
}
