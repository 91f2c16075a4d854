package models

import "time"

// ApplicationType discriminates the two public registration variants.
type ApplicationType string

const (
	// ApplicationTypeDonor is a registration offering support.
	ApplicationTypeDonor ApplicationType = "donor"
	// ApplicationTypeStudent is a registration asking for support.
	ApplicationTypeStudent ApplicationType = "student"
)

// ApplicationStatus defines lifecycle states for public applications.
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates the application awaits admin review.
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusApproved indicates the application was accepted.
	ApplicationStatusApproved ApplicationStatus = "approved"
	// ApplicationStatusRejected indicates the application was denied.
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application is a public submission awaiting admin approval or rejection.
// A single table holds both variants; Type selects which payload columns are
// meaningful. Identity fields are immutable after submission, and status only
// ever moves pending -> approved|rejected.
type Application struct {
	ID   uint            `gorm:"primaryKey" json:"id"`
	Type ApplicationType `gorm:"type:varchar(10);not null;index" json:"type"`

	FullName    string `gorm:"size:120;not null" json:"full_name"`
	Phone       string `gorm:"size:15;not null;index" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	ContactLink string `gorm:"size:255" json:"contact_link"`
	AreaID      *uint  `gorm:"index" json:"area_id"`
	Area        *Area  `gorm:"foreignKey:AreaID" json:"area,omitempty"`

	// Donor payload.
	SupportTypes       SupportTypeList `gorm:"type:text" json:"support_types"`
	Frequency          string          `gorm:"size:20" json:"frequency"`
	LaptopQuantity     *int            `json:"laptop_quantity"`
	MotorbikeQuantity  *int            `json:"motorbike_quantity"`
	ComponentsQuantity *int            `json:"components_quantity"`
	TuitionAmount      string          `gorm:"size:20" json:"tuition_amount"`
	TuitionFrequency   string          `gorm:"size:20" json:"tuition_frequency"`

	// Student payload.
	BirthYear      *int   `json:"birth_year"`
	AcademicYear   string `gorm:"size:20" json:"academic_year"`
	NeedLaptop     bool   `gorm:"default:false" json:"need_laptop"`
	NeedMotorbike  bool   `gorm:"default:false" json:"need_motorbike"`
	NeedComponents bool   `gorm:"default:false" json:"need_components"`
	NeedTuition    bool   `gorm:"default:false" json:"need_tuition"`
	DifficultyNote string `gorm:"type:text" json:"difficulty_note"`
	PhotoURL       string `gorm:"size:255" json:"photo_url"`

	Status           ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedAt       *time.Time        `json:"reviewed_at"`
	ReviewedByUserID *uint             `json:"reviewed_by_user_id"`
	ReviewedByUser   *AdminUser        `gorm:"foreignKey:ReviewedByUserID" json:"reviewed_by_user,omitempty"`
	RejectionReason  string            `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the application has already been reviewed.
func (a *Application) IsTerminal() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusRejected
}

// Quantity returns the declared quantity for a physical support category,
// treating nil as zero. Tuition has no quantity.
func (a *Application) Quantity(t SupportType) int {
	var q *int
	switch t {
	case SupportLaptop:
		q = a.LaptopQuantity
	case SupportMotorbike:
		q = a.MotorbikeQuantity
	case SupportComponents:
		q = a.ComponentsQuantity
	}
	if q == nil {
		return 0
	}
	return *q
}
