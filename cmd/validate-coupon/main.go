package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"booking-storefront/internal/config"
	"booking-storefront/internal/models"
	"booking-storefront/internal/services"
)

func main() {
	code := flag.String("code", "", "coupon code to validate")
	entityID := flag.String("event", "", "event ID the coupon is applied to")
	amount := flag.Float64("amount", 0, "order amount the coupon is applied to")
	userID := flag.String("user", "", "optional user ID for per-user coupons")
	flag.Parse()

	if *code == "" || *amount <= 0 {
		log.Fatal("Usage: validate-coupon -code <code> -amount <order-amount> [-event <id>] [-user <id>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	client := services.NewBookingAPIClient(services.BookingAPIConfig{
		BaseURL: cfg.BookingAPI.BaseURL,
		Timeout: cfg.BookingAPI.Timeout,
	})
	resolver := services.NewDiscountResolver(client)

	resolved, err := resolver.ValidateCoupon(*code, *entityID, *amount, *userID)
	if err != nil {
		var rejected *models.DiscountRejectedError
		if errors.As(err, &rejected) {
			fmt.Printf("REJECTED: %s\n", rejected.Reason)
			return
		}
		log.Fatal("Validation failed:", err)
	}

	fmt.Printf("VALID: %s\n", resolved.SourceID)
	fmt.Printf("  Discount: %.2f\n", resolved.Amount)
	fmt.Printf("  Payable:  %.2f\n", *amount-resolved.Amount)
}
