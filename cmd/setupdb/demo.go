package main

import (
	"time"

	"github.com/villageveggies/backend/internal/models"
	"github.com/villageveggies/backend/internal/store"
)

const demoPassword = "veggies123"

// demoGrowers returns a handful of growers around Denver and one in New York,
// each with a few crops. hash is applied to the shared demo password.
func demoGrowers(hash func(string) (string, error)) ([]store.SeedGrower, error) {
	h, err := hash(demoPassword)
	if err != nil {
		return nil, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	daysAgo := func(n int) time.Time { return today.AddDate(0, 0, -n) }

	return []store.SeedGrower{
		{
			Email: "maria@example.com", PasswordHash: h, Name: "Maria's Garden", Zip: "80202",
			Blurb:   "Backyard herbs and greens in LoDo.",
			Contact: "Text 303-555-0142 after 5pm",
			Crops: []store.SeedCrop{
				{Title: "Genovese Basil", Price: "$3", Quantity: "5 bunches", HarvestDate: daysAgo(1), Zip: "80202", Method: "organic"},
				{Title: "Lacinato Kale", Price: "$4", Quantity: "8 bunches", HarvestDate: daysAgo(2), Zip: "80202", Method: "organic"},
				{Title: "Garlic Scapes", Price: "$2", Quantity: "1 lb", HarvestDate: daysAgo(30), Zip: "80202", Status: models.StatusSold},
			},
		},
		{
			Email: "tom@example.com", PasswordHash: h, Name: "Tom Okafor", Zip: "80203",
			Contact: "tom@example.com",
			Crops: []store.SeedCrop{
				{Title: "Cherry Tomatoes", Price: "$5/pint", Quantity: "12 pints", HarvestDate: daysAgo(0), Zip: "80203"},
				{Title: "Zucchini", Price: "free", Quantity: "too many", HarvestDate: daysAgo(3), Zip: "80203", Method: "no-till"},
			},
		},
		{
			Email: "june@example.com", PasswordHash: h, Name: "June Park", Zip: "80218",
			Blurb: "Balcony containers, mostly peppers.",
			Crops: []store.SeedCrop{
				{Title: "Shishito Peppers", Price: "$4", Quantity: "2 lb", HarvestDate: daysAgo(1), Zip: "80218"},
				{Title: "Thai Basil", Price: "$3", Quantity: "3 bunches", HarvestDate: daysAgo(5), Zip: "80218", Status: models.StatusInactive},
			},
		},
		{
			Email: "bodega@example.com", PasswordHash: h, Name: "Rooftop Bodega", Zip: "10001",
			Contact: "Ask for Luis at the counter",
			Crops: []store.SeedCrop{
				{Title: "Microgreens", Price: "$6", Quantity: "10 clamshells", HarvestDate: daysAgo(0), Zip: "10001", Method: "hydroponic"},
			},
		},
	}, nil
}
