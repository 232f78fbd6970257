package database

import (
	"fmt"
	"time"

	"github.com/sahilchouksey/bursary-hub/model"
	applog "github.com/sahilchouksey/bursary-hub/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder loads demo data into an empty database
type Seeder struct {
	db  *gorm.DB
	log *applog.Logger
	now func() time.Time
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *applog.Logger) *Seeder {
	if log == nil {
		log = applog.Nop()
	}
	return &Seeder{db: db, log: log, now: time.Now}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(staffSubject, staffEmail string) error {
	s.log.Info("🌱 starting database seeding")

	staff, err := s.SeedStaffUser(staffSubject, staffEmail)
	if err != nil {
		return fmt.Errorf("failed to seed staff user: %w", err)
	}

	if err := s.SeedBursaries(staff); err != nil {
		return fmt.Errorf("failed to seed bursaries: %w", err)
	}

	s.log.Info("✅ database seeding completed")
	return nil
}

// SeedStaffUser provisions the staff account for the given token subject.
// Returns nil when no subject is configured.
func (s *Seeder) SeedStaffUser(subject, email string) (*model.User, error) {
	if subject == "" {
		s.log.Warn("⚠️  STAFF_SUBJECT not set, skipping staff user")
		return nil, nil
	}

	user := model.User{
		ExternalID: subject,
		Email:      email,
		Name:       "Bursary Staff",
		Role:       model.RoleStaff,
	}
	err := s.db.Where(model.User{ExternalID: subject}).
		Assign(model.User{Role: model.RoleStaff}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}

	s.log.Info("✅ staff user ready", "email", user.Email, "id", user.ID)
	return &user, nil
}

// SeedBursaries creates a sample catalogue spread across categories, countries
// and deadlines
func (s *Seeder) SeedBursaries(creator *model.User) error {
	var count int64
	if err := s.db.Model(&model.Bursary{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("⏭️  bursaries already exist, skipping")
		return nil
	}

	today := s.now().UTC()
	due := func(days int) datatypes.Date {
		return Day(today.AddDate(0, 0, days))
	}
	gpa := func(v float64) *float64 { return &v }

	bursaries := []model.Bursary{
		{
			Title:                   "STEM Excellence Award",
			Description:             "Merit award for high-achieving undergraduates in science and engineering.",
			Category:                model.BursaryCategoryMerit,
			Amount:                  5000,
			EligibleEducationLevels: "bachelor,master",
			EligibleFields:          "Engineering,Computer Science,Mathematics",
			MinGPA:                  gpa(3.5),
			Country:                 "South Africa",
			City:                    "Johannesburg",
			ProviderName:            "Future Engineers Trust",
			ApplicationDeadline:     due(6),
		},
		{
			Title:                   "Rural Access Bursary",
			Description:             "Covers tuition and accommodation for students from rural households.",
			Category:                model.BursaryCategoryNeed,
			Amount:                  3200,
			EligibleEducationLevels: "high_school,diploma,bachelor",
			EligibleFields:          "Education,Agriculture,Nursing",
			Country:                 "Kenya",
			ProviderName:            "Harambee Education Fund",
			ApplicationDeadline:     due(25),
		},
		{
			Title:                   "Women in Technology Scholarship",
			Description:             "Supports women pursuing degrees in computing.",
			Category:                model.BursaryCategoryDemographic,
			Amount:                  4000,
			EligibleEducationLevels: "bachelor",
			EligibleFields:          "Computer Science,Information Systems",
			MinGPA:                  gpa(3.0),
			Country:                 "Nigeria",
			City:                    "Lagos",
			ProviderName:            "TechHer Foundation",
			ApplicationDeadline:     due(45),
		},
		{
			Title:                   "Postgraduate Research Grant",
			Description:             "Funding for master's and doctoral research in public health.",
			Category:                model.BursaryCategorySubject,
			Amount:                  12000,
			EligibleEducationLevels: "master,phd",
			EligibleFields:          "Public Health,Medicine",
			MinGPA:                  gpa(3.2),
			Country:                 "South Africa",
			ProviderName:            "Health Futures Council",
			ApplicationDeadline:     due(90),
		},
		{
			Title:                   "Community Leaders Bursary",
			Description:             "For students active in community service.",
			Category:                model.BursaryCategoryOther,
			Amount:                  1500,
			EligibleEducationLevels: "diploma,bachelor",
			EligibleFields:          "",
			Country:                 "Ghana",
			City:                    "Accra",
			ProviderName:            "Civic Action Network",
			ApplicationDeadline:     due(12),
		},
	}

	for i := range bursaries {
		b := &bursaries[i]
		b.Slug = model.Slugify(b.Title)
		b.Status = model.BursaryStatusActive
		b.Currency = "USD"
		if creator != nil {
			b.CreatedByID = &creator.ID
		}
	}

	if err := s.db.Create(&bursaries).Error; err != nil {
		return err
	}

	s.log.Info("✅ created bursaries", "count", len(bursaries))
	return nil
}
