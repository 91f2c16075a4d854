package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Student is the long-lived record created when a student application is
// approved, keyed loosely by phone number like Donor. A need once declared is
// never retracted by a later application, and received flags are never
// regressed by a merge.
type Student struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FullName    string `gorm:"size:120;not null" json:"full_name"`
	Phone       string `gorm:"size:15;not null;index" json:"phone"`
	Address     string `gorm:"size:255" json:"address"`
	ContactLink string `gorm:"size:255" json:"contact_link"`
	AreaID      *uint  `gorm:"index" json:"area_id"`
	Area        *Area  `gorm:"foreignKey:AreaID" json:"area,omitempty"`

	BirthYear    *int   `json:"birth_year"`
	AcademicYear string `gorm:"size:20" json:"academic_year"`

	NeedLaptop     bool `gorm:"default:false" json:"need_laptop"`
	NeedMotorbike  bool `gorm:"default:false" json:"need_motorbike"`
	NeedComponents bool `gorm:"default:false" json:"need_components"`
	NeedTuition    bool `gorm:"default:false" json:"need_tuition"`

	LaptopReceived      bool       `gorm:"default:false" json:"laptop_received"`
	LaptopReceivedAt    *time.Time `json:"laptop_received_at"`
	MotorbikeReceived   bool       `gorm:"default:false" json:"motorbike_received"`
	MotorbikeReceivedAt *time.Time `json:"motorbike_received_at"`
	ComponentsReceived  bool       `gorm:"default:false" json:"components_received"`
	ComponentsReceivedAt *time.Time `json:"components_received_at"`
	TuitionReceived     bool       `gorm:"default:false" json:"tuition_received"`
	TuitionReceivedAt   *time.Time `json:"tuition_received_at"`

	DifficultyNote string `gorm:"type:text" json:"difficulty_note"`
	PhotoURL       string `gorm:"size:255" json:"photo_url"`
	IsActive       bool   `gorm:"default:true;index" json:"is_active"`

	ApplicationID *uint     `json:"application_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewStudentFromApplication builds a fresh student row from an approved
// student application. All received flags start false.
func NewStudentFromApplication(app *Application) *Student {
	return &Student{
		FullName:       app.FullName,
		Phone:          app.Phone,
		Address:        app.Address,
		ContactLink:    app.ContactLink,
		AreaID:         app.AreaID,
		BirthYear:      app.BirthYear,
		AcademicYear:   app.AcademicYear,
		NeedLaptop:     app.NeedLaptop,
		NeedMotorbike:  app.NeedMotorbike,
		NeedComponents: app.NeedComponents,
		NeedTuition:    app.NeedTuition,
		DifficultyNote: app.DifficultyNote,
		PhotoURL:       app.PhotoURL,
		IsActive:       true,
		ApplicationID:  &app.ID,
	}
}

// MergeApplication folds a newly approved application into an existing
// student row for the same phone number. Need flags are OR-combined; the
// received flags and their dates are deliberately untouched so that support
// already delivered is never forgotten. Situational fields (academic year,
// narrative, photo) take the latest non-empty value.
func (s *Student) MergeApplication(app *Application) {
	s.NeedLaptop = s.NeedLaptop || app.NeedLaptop
	s.NeedMotorbike = s.NeedMotorbike || app.NeedMotorbike
	s.NeedComponents = s.NeedComponents || app.NeedComponents
	s.NeedTuition = s.NeedTuition || app.NeedTuition
	if app.AcademicYear != "" {
		s.AcademicYear = app.AcademicYear
	}
	if app.BirthYear != nil {
		s.BirthYear = app.BirthYear
	}
	if app.DifficultyNote != "" {
		s.DifficultyNote = app.DifficultyNote
	}
	if app.PhotoURL != "" {
		s.PhotoURL = app.PhotoURL
	}
}

// areaPlaceholder stands in for a missing area when deriving display codes.
const areaPlaceholder = "khuvuc"

// StudentCode derives a short numeric display code from a student's
// identifier plus birth year, academic year and area. Public pages show this
// code instead of the student's name or phone.
//
// The code is a djb2 hash of the concatenated attributes, reduced to an
// unsigned 32-bit integer and rendered as 5 to 8 decimal digits. It is
// deterministic and recomputed on demand; nothing is stored. The extra
// attributes widen the keyspace beyond the identifier alone, but this is a
// display convenience, not a uniqueness guarantee: collisions are unlikely
// and tolerated.
func StudentCode(id string, birthYear int, academicYear, areaID string) string {
	stripped := strings.NewReplacer("-", "", "_", "", " ", "").Replace(id)
	if areaID == "" {
		areaID = areaPlaceholder
	}
	seed := fmt.Sprintf("%s%d%s%s", stripped, birthYear, academicYear, areaID)

	var hash uint32 = 5381
	for _, c := range []byte(seed) {
		hash = hash*33 + uint32(c)
	}

	code := strconv.FormatUint(uint64(hash), 10)
	for len(code) < 5 {
		code = "0" + code
	}
	if len(code) > 8 {
		code = code[:8]
	}
	return code
}

// DisplayCode derives the public display code for this student.
func (s *Student) DisplayCode() string {
	birthYear := 0
	if s.BirthYear != nil {
		birthYear = *s.BirthYear
	}
	areaID := ""
	if s.AreaID != nil {
		areaID = strconv.FormatUint(uint64(*s.AreaID), 10)
	}
	return StudentCode(strconv.FormatUint(uint64(s.ID), 10), birthYear, s.AcademicYear, areaID)
}
