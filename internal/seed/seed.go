package seed

import (
	"fmt"
	"log"

	"tiepbuoc/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the demo seeder.
type Options struct {
	NumDonors       int
	NumStudents     int
	NumApplications int
	ShouldClean     bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll deletes all domain rows. Admin users and settings survive so the
// operator can log straight back in.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"laptops", "motorbikes", "components", "tuition_pledges",
		"notifications", "applications", "donors", "students", "areas",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// EnsureAdmin creates the console operator if it does not exist yet.
func EnsureAdmin(db *gorm.DB, username, password string) (*models.AdminUser, error) {
	var existing models.AdminUser
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.AdminUser{
		Username: username,
		Password: string(hash),
		IsAdmin:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// Demo populates the database with a lived-in data set: areas, active donors
// with matching inventory, students with mixed needs and a review queue of
// pending applications.
func (s *Seeder) Demo(opts Options) error {
	log.Printf("Seeding demo data: %d donors, %d students, %d pending applications...",
		opts.NumDonors, opts.NumStudents, opts.NumApplications)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	areas := make([]*models.Area, 0, len(areaNames))
	for _, name := range areaNames {
		area, err := s.factory.CreateArea(name)
		if err != nil {
			return fmt.Errorf("failed to create area %s: %w", name, err)
		}
		areas = append(areas, area)
	}
	log.Printf("%d areas available", len(areas))

	for i := 0; i < opts.NumDonors; i++ {
		area := areas[s.factory.r.Intn(len(areas))]
		donor, err := s.factory.CreateDonor(area)
		if err != nil {
			return fmt.Errorf("failed to create donor: %w", err)
		}
		if err := s.factory.CreateInventoryForDonor(donor); err != nil {
			return fmt.Errorf("failed to create inventory for donor %d: %w", donor.ID, err)
		}
	}
	log.Printf("%d donors created with inventory", opts.NumDonors)

	// Some students have already received support, so reports and the public
	// page show progress rather than an untouched queue.
	for i := 0; i < opts.NumStudents; i++ {
		area := areas[s.factory.r.Intn(len(areas))]
		received := i%4 == 0
		_, err := s.factory.CreateStudent(area, func(st *models.Student) {
			if received && st.NeedLaptop {
				at := s.factory.spreadBack(30)
				st.LaptopReceived = true
				st.LaptopReceivedAt = &at
			}
		})
		if err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}
	}
	log.Printf("%d students created", opts.NumStudents)

	for i := 0; i < opts.NumApplications; i++ {
		appType := models.ApplicationTypeDonor
		if i%2 == 0 {
			appType = models.ApplicationTypeStudent
		}
		area := areas[s.factory.r.Intn(len(areas))]
		if _, err := s.factory.CreatePendingApplication(appType, area); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
	}
	log.Printf("%d pending applications created", opts.NumApplications)

	log.Println("Database seeding completed")
	return nil
}
