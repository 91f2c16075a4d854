// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"tiepbuoc/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var (
	familyNames = []string{
		"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ",
		"Võ", "Đặng", "Bùi", "Đỗ", "Hồ", "Ngô", "Dương", "Lý",
	}

	middleAndGivenNames = []string{
		"Văn An", "Thị Bình", "Minh Châu", "Quốc Dũng", "Thu Hà", "Văn Hùng",
		"Thị Lan", "Đức Long", "Thị Mai", "Hoài Nam", "Thanh Nga", "Văn Phúc",
		"Minh Quân", "Thị Thu", "Anh Tuấn", "Thanh Vân", "Quang Vinh", "Thị Yến",
	}

	areaNames = []string{
		"TP.HCM", "Hà Nội", "Đà Nẵng", "Huế", "Quảng Trị", "Quảng Nam",
		"Nghệ An", "Hà Tĩnh", "Kon Tum", "Gia Lai", "Đồng Tháp", "Cà Mau",
	}

	componentNotes = []string{
		"RAM 8GB DDR4", "SSD 256GB", "Sạc laptop 65W", "Màn hình 14 inch",
		"Bàn phím rời", "Chuột không dây", "Pin laptop", "Webcam học online",
	}

	difficultyNotes = []string{
		"Gia đình thuộc hộ nghèo, bố mẹ làm nông",
		"Mồ côi cha, mẹ đi làm xa",
		"Nhà xa trường hơn 10km, chưa có xe đi học",
		"Đang dùng chung máy tính với em, cần máy riêng để học online",
		"Học lực khá nhưng thiếu thiết bị học tập",
	}

	tuitionAmounts    = []string{"300000", "500000", "1000000", "2000000"}
	tuitionFrequencies = []string{"monthly", "quarterly", "yearly", "once"}
)

// Factory builds domain entities and persists them. It is a thin helper used
// by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *Factory) fullName() string {
	return familyNames[f.r.Intn(len(familyNames))] + " " + middleAndGivenNames[f.r.Intn(len(middleAndGivenNames))]
}

func (f *Factory) phone() string {
	return "09" + gofakeit.DigitN(8)
}

// spreadBack returns a timestamp up to maxDays in the past so charts and
// lists look lived-in.
func (f *Factory) spreadBack(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	return time.Now().
		Add(-time.Duration(f.r.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.r.Intn(24)) * time.Hour)
}

// CreateArea persists one area, reusing an existing row with the same name.
func (f *Factory) CreateArea(name string) (*models.Area, error) {
	var area models.Area
	err := f.db.Where(models.Area{Name: name}).
		Attrs(models.Area{IsActive: true}).
		FirstOrCreate(&area).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// CreateDonor constructs and persists a sample donor. Optional override
// functions may modify the generated donor before saving.
func (f *Factory) CreateDonor(area *models.Area, overrides ...func(*models.Donor)) (*models.Donor, error) {
	all := []models.SupportType{
		models.SupportLaptop, models.SupportMotorbike,
		models.SupportComponents, models.SupportTuition,
	}
	types := models.SupportTypeList{all[f.r.Intn(len(all))]}

	donor := &models.Donor{
		FullName:     f.fullName(),
		Phone:        f.phone(),
		Address:      gofakeit.Street(),
		ContactLink:  "https://facebook.com/" + gofakeit.Username(),
		IsActive:     true,
		SupportTypes: types,
		CreatedAt:    f.spreadBack(90),
	}
	if area != nil {
		donor.AreaID = &area.ID
	}

	switch types[0] {
	case models.SupportLaptop:
		q := 1 + f.r.Intn(3)
		donor.LaptopQuantity = &q
	case models.SupportMotorbike:
		q := 1
		donor.MotorbikeQuantity = &q
	case models.SupportComponents:
		q := 1 + f.r.Intn(5)
		donor.ComponentsQuantity = &q
	case models.SupportTuition:
		donor.TuitionAmount = tuitionAmounts[f.r.Intn(len(tuitionAmounts))]
		donor.TuitionFrequency = tuitionFrequencies[f.r.Intn(len(tuitionFrequencies))]
	}

	for _, override := range overrides {
		override(donor)
	}

	if err := f.db.Create(donor).Error; err != nil {
		return nil, err
	}
	return donor, nil
}

// CreateStudent constructs and persists a sample student.
func (f *Factory) CreateStudent(area *models.Area, overrides ...func(*models.Student)) (*models.Student, error) {
	birthYear := 2004 + f.r.Intn(10)
	student := &models.Student{
		FullName:       f.fullName(),
		Phone:          f.phone(),
		Address:        gofakeit.Street(),
		BirthYear:      &birthYear,
		AcademicYear:   fmt.Sprintf("%d", 6+f.r.Intn(7)),
		NeedLaptop:     f.r.Intn(2) == 0,
		NeedTuition:    f.r.Intn(2) == 0,
		DifficultyNote: difficultyNotes[f.r.Intn(len(difficultyNotes))],
		IsActive:       true,
		CreatedAt:      f.spreadBack(90),
	}
	if area != nil {
		student.AreaID = &area.ID
	}
	if !student.NeedLaptop && !student.NeedTuition {
		student.NeedComponents = true
	}

	for _, override := range overrides {
		override(student)
	}

	if err := f.db.Create(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

// CreatePendingApplication constructs and persists a pending application of
// the given type, so the review queue has work in it.
func (f *Factory) CreatePendingApplication(appType models.ApplicationType, area *models.Area, overrides ...func(*models.Application)) (*models.Application, error) {
	app := &models.Application{
		Type:      appType,
		FullName:  f.fullName(),
		Phone:     f.phone(),
		Address:   gofakeit.Street(),
		Status:    models.ApplicationStatusPending,
		CreatedAt: f.spreadBack(14),
	}
	if area != nil {
		app.AreaID = &area.ID
	}

	switch appType {
	case models.ApplicationTypeDonor:
		q := 1 + f.r.Intn(2)
		app.SupportTypes = models.SupportTypeList{models.SupportLaptop}
		app.LaptopQuantity = &q
	case models.ApplicationTypeStudent:
		birthYear := 2005 + f.r.Intn(8)
		app.BirthYear = &birthYear
		app.AcademicYear = fmt.Sprintf("%d", 6+f.r.Intn(7))
		app.NeedLaptop = true
		app.DifficultyNote = difficultyNotes[f.r.Intn(len(difficultyNotes))]
	}

	for _, override := range overrides {
		override(app)
	}

	if err := f.db.Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// CreateInventoryForDonor materializes a donor's declared quantities as
// inventory rows, mirroring what an approval would have created.
func (f *Factory) CreateInventoryForDonor(donor *models.Donor) error {
	note := fmt.Sprintf("Tiếp nhận từ %s", donor.FullName)
	received := f.spreadBack(60)

	if donor.LaptopQuantity != nil {
		for i := 0; i < *donor.LaptopQuantity; i++ {
			item := models.Laptop{
				DonorID:    &donor.ID,
				Status:     models.ItemStatusAvailable,
				Note:       note,
				ReceivedAt: &received,
			}
			if err := f.db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	if donor.MotorbikeQuantity != nil {
		for i := 0; i < *donor.MotorbikeQuantity; i++ {
			item := models.Motorbike{
				DonorID:    &donor.ID,
				Status:     models.ItemStatusAvailable,
				Note:       note,
				ReceivedAt: &received,
			}
			if err := f.db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	if donor.ComponentsQuantity != nil {
		for i := 0; i < *donor.ComponentsQuantity; i++ {
			item := models.Component{
				DonorID:    &donor.ID,
				Status:     models.ItemStatusAvailable,
				Note:       componentNotes[f.r.Intn(len(componentNotes))],
				ReceivedAt: &received,
			}
			if err := f.db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	if donor.TuitionAmount != "" {
		pledged := f.spreadBack(60)
		pledge := models.TuitionPledge{
			DonorID:   &donor.ID,
			Status:    models.PledgeStatusPledged,
			Amount:    donor.TuitionAmount,
			Frequency: donor.TuitionFrequency,
			PledgedAt: &pledged,
		}
		if err := f.db.Create(&pledge).Error; err != nil {
			return err
		}
	}
	return nil
}
