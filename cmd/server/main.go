package main

import (
	"fmt"
	"log"
	"net/http"

	"booking-storefront/internal/config"
	"booking-storefront/internal/handlers"
	"booking-storefront/internal/middleware"
	"booking-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Create session store
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize services
	apiClient := services.NewBookingAPIClient(services.BookingAPIConfig{
		BaseURL: cfg.BookingAPI.BaseURL,
		Timeout: cfg.BookingAPI.Timeout,
	})
	resolver := services.NewDiscountResolver(apiClient)
	submitter := services.NewBookingSubmitter(apiClient, cfg.Fees.BookingFeeRate)

	cartHandler := handlers.NewCartHandler(apiClient, resolver, submitter, sessionStore)

	// Set up router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/{vertical}/{id}/booking", cartHandler.GetBookingPage)
		r.Get("/{vertical}/{id}/offers", cartHandler.GetOffers)
		r.Get("/{vertical}/coupons", cartHandler.GetCoupons)
		r.Post("/{vertical}/{id}/checkout", cartHandler.Checkout)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/coupon", cartHandler.ApplyCoupon)
			r.Post("/offer", cartHandler.ApplyOffer)
			r.Delete("/discount", cartHandler.RemoveDiscount)
			r.Post("/submit", cartHandler.SubmitBooking)
		})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s (booking API: %s)", addr, cfg.BookingAPI.BaseURL)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
