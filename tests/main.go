// Command tests runs a seeded fake booking backend on FAKE_API_ADDR
// (default :8000) so venuebook can be exercised locally without the real one.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"

	"venuebook/fakeapi"
	"venuebook/models"
)

func main() {
	addr := os.Getenv("FAKE_API_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	secret := os.Getenv("FAKE_API_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	srv := fakeapi.New(secret)

	// Simulation parameters.
	districts := []string{"Chilonzor", "Yunusobod", "Mirzo Ulug'bek", "Sergeli"}
	kinds := []struct {
		Name      string
		Amenities []string
		BasePrice int64
	}{
		{"Mini-futbol maydoni", []string{"Kiyinish xonasi", "Dush", "Yoritish"}, 150000},
		{"Tennis korti", []string{"Raketka ijarasi", "Avtoturargoh"}, 120000},
		{"Konferens zal", []string{"Proyektor", "Wi-Fi", "Konditsioner"}, 250000},
	}

	r := rand.New(rand.NewSource(42))
	counter := 1
	for _, district := range districts {
		for _, kind := range kinds {
			// Prices vary by up to +/-20% around the base, rounded to 5000.
			price := kind.BasePrice * int64(80+r.Intn(41)) / 100 / 5000 * 5000
			v := srv.AddVenue(models.Venue{
				Name:         fmt.Sprintf("%s #%d", kind.Name, counter),
				Address:      fmt.Sprintf("Toshkent, %s tumani, %d-uy", district, 1+r.Intn(120)),
				Description:  fmt.Sprintf("%s, %s tumanida.", kind.Name, district),
				PricePerHour: models.Amount(price * 100),
				Amenities:    kind.Amenities,
				IsActive:     counter%7 != 0,
			})
			log.Printf("venue %d: %s (%s/h)", v.ID, v.Name, v.PricePerHour)
			counter++
		}
	}

	log.Printf("fake booking API listening on %s/api (OTP %s)", addr, fakeapi.OTP)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("fake API stopped: %v", err)
	}
}
