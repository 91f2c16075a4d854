package models

import "time"

// Inventory statuses. Laptops and motorbikes share a lifecycle; components
// add an installed step; tuition pledges use their own money lifecycle.
const (
	ItemStatusAvailable = "available"
	ItemStatusReserved  = "reserved"
	ItemStatusAssigned  = "assigned"
	ItemStatusDelivered = "delivered"
	ItemStatusInstalled = "installed"

	PledgeStatusPledged   = "pledged"
	PledgeStatusPaid      = "paid"
	PledgeStatusCompleted = "completed"
	PledgeStatusCancelled = "cancelled"
)

// Laptop is a single donated laptop tracked from receipt to delivery.
type Laptop struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DonorID     *uint      `gorm:"index" json:"donor_id"`
	Donor       *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	StudentID   *uint      `gorm:"index" json:"student_id"`
	Student     *Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Note        string     `gorm:"type:text" json:"note"`
	ReceivedAt  *time.Time `json:"received_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Motorbike is a single donated motorbike.
type Motorbike struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DonorID     *uint      `gorm:"index" json:"donor_id"`
	Donor       *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	StudentID   *uint      `gorm:"index" json:"student_id"`
	Student     *Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Note        string     `gorm:"type:text" json:"note"`
	ReceivedAt  *time.Time `json:"received_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Component is a spare part (RAM, SSD, charger, screen). Strangers browsing
// the public site can register to supply a listed component, which reserves
// it; installation into a student's machine ends its lifecycle.
type Component struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	DonorID        *uint      `gorm:"index" json:"donor_id"`
	Donor          *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	StudentID      *uint      `gorm:"index" json:"student_id"`
	Student        *Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Note           string     `gorm:"type:text" json:"note"`
	SupporterName  string     `gorm:"size:120" json:"supporter_name"`
	SupporterPhone string     `gorm:"size:15" json:"supporter_phone"`
	ReceivedAt     *time.Time `json:"received_at"`
	AssignedAt     *time.Time `json:"assigned_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	InstalledAt    *time.Time `json:"installed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TuitionPledge is one tuition commitment by a donor, possibly recurring.
// Amount is kept as text exactly as submitted; reporting parses it and
// treats unparsable values as zero.
type TuitionPledge struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DonorID     *uint      `gorm:"index" json:"donor_id"`
	Donor       *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	StudentID   *uint      `gorm:"index" json:"student_id"`
	Student     *Student   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pledged';index" json:"status"`
	Amount      string     `gorm:"size:20" json:"amount"`
	Frequency   string     `gorm:"size:20" json:"frequency"`
	Note        string     `gorm:"type:text" json:"note"`
	PledgedAt   *time.Time `json:"pledged_at"`
	PaidAt      *time.Time `json:"paid_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventDate resolves the date a laptop's support "happened" for reporting:
// the most specific completion date first, falling back to the row's last
// update. Returns nil when no date is resolvable.
func (l *Laptop) EventDate() *time.Time {
	return firstDate(l.DeliveredAt, l.AssignedAt, l.ReceivedAt, nonZero(l.UpdatedAt))
}

// EventDate resolves the reporting date for a motorbike.
func (m *Motorbike) EventDate() *time.Time {
	return firstDate(m.DeliveredAt, m.AssignedAt, m.ReceivedAt, nonZero(m.UpdatedAt))
}

// EventDate resolves the reporting date for a component.
func (c *Component) EventDate() *time.Time {
	return firstDate(c.InstalledAt, c.DeliveredAt, c.AssignedAt, c.ReceivedAt, nonZero(c.UpdatedAt))
}

// EventDate resolves the reporting date for a tuition pledge.
func (t *TuitionPledge) EventDate() *time.Time {
	return firstDate(t.CompletedAt, t.PaidAt, t.PledgedAt, nonZero(t.UpdatedAt))
}

func firstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

func nonZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
