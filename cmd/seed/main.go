// Command main runs the database seeder for TiepBuoc.
package main

import (
	"flag"
	"log"

	"tiepbuoc/internal/config"
	"tiepbuoc/internal/database"
	"tiepbuoc/internal/seed"
)

func main() {
	numDonors := flag.Int("donors", 30, "Number of donors to create")
	numStudents := flag.Int("students", 40, "Number of students to create")
	numApplications := flag.Int("applications", 12, "Number of pending applications to create")
	shouldClean := flag.Bool("clean", true, "Clean domain tables before seeding")
	adminUser := flag.String("admin", "admin", "Admin username to ensure")
	adminPass := flag.String("admin-pass", "change-me", "Admin password when creating the admin user")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d donors, %d students, %d pending applications, clean=%v",
		*numDonors, *numStudents, *numApplications, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if _, err := seed.EnsureAdmin(db, *adminUser, *adminPass); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}
	log.Printf("Admin user %q available", *adminUser)

	s := seed.NewSeeder(db)
	if err := s.Demo(seed.Options{
		NumDonors:       *numDonors,
		NumStudents:     *numStudents,
		NumApplications: *numApplications,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with demo data.")
}
