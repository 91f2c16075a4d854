package models

import "time"

// Donor is the long-lived record created when a donor application is
// approved. Donors are keyed loosely by phone number: the first approval for
// a phone inserts a row, every later approval for the same phone merges into
// it instead of duplicating.
type Donor struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FullName    string `gorm:"size:120;not null" json:"full_name"`
	Phone       string `gorm:"size:15;not null;index" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	ContactLink string `gorm:"size:255" json:"contact_link"`
	AreaID      *uint  `gorm:"index" json:"area_id"`
	Area        *Area  `gorm:"foreignKey:AreaID" json:"area,omitempty"`

	IsActive           bool            `gorm:"default:true;index" json:"is_active"`
	SupportTypes       SupportTypeList `gorm:"type:text" json:"support_types"`
	Frequency          string          `gorm:"size:20" json:"frequency"`
	LaptopQuantity     *int            `json:"laptop_quantity"`
	MotorbikeQuantity  *int            `json:"motorbike_quantity"`
	ComponentsQuantity *int            `json:"components_quantity"`
	TuitionAmount      string          `gorm:"size:20" json:"tuition_amount"`
	TuitionFrequency   string          `gorm:"size:20" json:"tuition_frequency"`

	// ApplicationID links back to the application that first created this row.
	ApplicationID *uint     `json:"application_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDonorFromApplication builds a fresh donor row from an approved donor
// application.
func NewDonorFromApplication(app *Application) *Donor {
	return &Donor{
		FullName:           app.FullName,
		Phone:              app.Phone,
		Address:            app.Address,
		ContactLink:        app.ContactLink,
		AreaID:             app.AreaID,
		IsActive:           true,
		SupportTypes:       append(SupportTypeList(nil), app.SupportTypes...),
		Frequency:          app.Frequency,
		LaptopQuantity:     app.LaptopQuantity,
		MotorbikeQuantity:  app.MotorbikeQuantity,
		ComponentsQuantity: app.ComponentsQuantity,
		TuitionAmount:      app.TuitionAmount,
		TuitionFrequency:   app.TuitionFrequency,
		ApplicationID:      &app.ID,
	}
}

// MergeApplication folds a newly approved application into an existing donor
// row for the same phone number: support types are unioned, physical
// quantities are summed (nullable-safe, collapsing to NULL at zero), and
// tuition fields take the latest non-empty value.
func (d *Donor) MergeApplication(app *Application) {
	d.SupportTypes = d.SupportTypes.Union(app.SupportTypes)
	d.LaptopQuantity = sumQuantities(d.LaptopQuantity, app.LaptopQuantity)
	d.MotorbikeQuantity = sumQuantities(d.MotorbikeQuantity, app.MotorbikeQuantity)
	d.ComponentsQuantity = sumQuantities(d.ComponentsQuantity, app.ComponentsQuantity)
	if app.TuitionAmount != "" {
		d.TuitionAmount = app.TuitionAmount
	}
	if app.TuitionFrequency != "" {
		d.TuitionFrequency = app.TuitionFrequency
	}
	if app.Frequency != "" {
		d.Frequency = app.Frequency
	}
}

// sumQuantities adds two nullable quantities. A zero total is stored as NULL
// so "no units" and "never declared" stay indistinguishable, matching how the
// admin console renders empty cells.
func sumQuantities(a, b *int) *int {
	total := 0
	if a != nil {
		total += *a
	}
	if b != nil {
		total += *b
	}
	if total == 0 {
		return nil
	}
	return &total
}
