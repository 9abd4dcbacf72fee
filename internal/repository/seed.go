package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mindconnect/internal/domain"
	"mindconnect/pkg/auth"
)

type seedUser struct {
	email    string
	password string
	role     domain.UserRole
	profile  int64
}

var demoUsers = []seedUser{
	{email: "admin@example.com", password: "adminpass", role: domain.UserRoleAdmin},
	{email: "psychologist@example.com", password: "psychopass", role: domain.UserRolePsychologist, profile: 1},
	{email: "demo@example.com", password: "demo", role: domain.UserRoleVisitor},
}

type seedProfile struct {
	slug string
	dto  domain.CreatePsychologistDTO
}

// Seed fills an empty store with the demo directory and demo accounts. It is a
// no-op once any user exists.
func Seed(ctx context.Context, repos *Repositories, logger *zap.Logger) error {
	n, err := repos.User.Count(ctx)
	if err != nil {
		return fmt.Errorf("ошибка проверки начальных данных: %w", err)
	}
	if n > 0 {
		logger.Info("начальные данные уже загружены")
		return nil
	}

	profiles := seedProfiles()
	for _, p := range profiles {
		if _, err := repos.Psychologist.Create(ctx, p.slug, p.dto); err != nil {
			return fmt.Errorf("ошибка создания профиля %s: %w", p.slug, err)
		}
	}

	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}

		dto := domain.CreateUserDTO{Email: u.email, Password: hash, Role: u.role}
		if u.profile != 0 {
			id := u.profile
			dto.PsychologistID = &id
		}
		if _, err := repos.User.Create(ctx, dto); err != nil {
			return fmt.Errorf("ошибка создания пользователя %s: %w", u.email, err)
		}
	}

	logger.Info("начальные данные загружены",
		zap.Int("psychologists", len(profiles)),
		zap.Int("users", len(demoUsers)),
	)
	return nil
}

// seedProfiles returns the demo directory: three hand-written profiles and 97
// generated ones, all deterministic.
func seedProfiles() []seedProfile {
	profiles := []seedProfile{
		{
			slug: "dr-jane-doe",
			dto: domain.CreatePsychologistDTO{
				Name:                "Dr. Jane Doe",
				Credentials:         "Ph.D., Licensed Psychologist",
				About:               "Dr. Doe specializes in cognitive-behavioral therapy for adults dealing with anxiety and depression.",
				HeadshotURL:         "https://placehold.co/150x150/e0e0e0/000000?text=Jane",
				CoverImageURL:       "https://placehold.co/800x200/d0d0d0/333333?text=Cover+Image",
				Specializations:     []string{"Anxiety", "Depression", "CBT"},
				Languages:           []string{"English", "Spanish"},
				Location:            "New York, NY",
				TimeZone:            "EST",
				YearsOfExperience:   15,
				ServicesOffered:     []string{"Individual Therapy", "Couples Counseling", "Stress Management"},
				Rate:                "$150/session",
				AvailabilityNote:    "Accepting new clients. Flexible evening appointments available.",
				ContactEmail:        "jane.doe@example.com",
				Website:             "https://janedoe.com",
				AcceptingNewClients: true,
				Featured:            true,
				Status:              domain.ProfileStatusPublished,
			},
		},
		{
			slug: "dr-john-smith",
			dto: domain.CreatePsychologistDTO{
				Name:              "Dr. John Smith",
				Credentials:       "M.A., LMFT",
				About:             "John is a compassionate therapist focusing on helping couples and families navigate complex relationship dynamics.",
				HeadshotURL:       "https://placehold.co/150x150/d0d0d0/000000?text=John",
				Specializations:   []string{"Couples Therapy", "Family Counseling", "Trauma"},
				Languages:         []string{"English"},
				Location:          "Los Angeles, CA",
				TimeZone:          "PST",
				YearsOfExperience: 8,
				ServicesOffered:   []string{"Couples Therapy", "Family Therapy", "Trauma-informed Care"},
				Rate:              "$120/session",
				AvailabilityNote:  "Limited availability, please inquire.",
				ContactEmail:      "john.smith@example.com",
				Status:            domain.ProfileStatusPublished,
			},
		},
		{
			slug: "dr-emily-white",
			dto: domain.CreatePsychologistDTO{
				Name:                "Dr. Emily White",
				Credentials:         "Psy.D., Licensed Clinical Psychologist",
				About:               "Dr. White works with children and adolescents, providing support for ADHD, behavioral issues, and family transitions.",
				HeadshotURL:         "https://placehold.co/150x150/c0e0c0/000000?text=Emily",
				Specializations:     []string{"Child Psychology", "ADHD", "Parenting"},
				Languages:           []string{"English"},
				Location:            "Chicago, IL",
				TimeZone:            "CST",
				YearsOfExperience:   20,
				ServicesOffered:     []string{"Child Therapy", "Parent Coaching", "Diagnostic Assessment"},
				Rate:                "$180/session",
				AvailabilityNote:    "Accepting new clients (ages 6-18).",
				ContactEmail:        "emily.white@example.com",
				AcceptingNewClients: true,
				Status:              domain.ProfileStatusReview,
			},
		},
	}

	specializations := []string{"Stress", "Life Transitions", "Grief", "Relationships"}
	locations := []struct{ city, tz string }{
		{"Houston, TX", "CST"},
		{"Miami, FL", "EST"},
		{"Seattle, WA", "PST"},
		{"Denver, CO", "MST"},
	}

	for i := 4; i <= 100; i++ {
		loc := locations[(i/4)%len(locations)]
		languages := []string{"English"}
		if i%6 == 0 {
			languages = append(languages, "Spanish")
		}

		profiles = append(profiles, seedProfile{
			slug: fmt.Sprintf("dr-psychologist-%d", i),
			dto: domain.CreatePsychologistDTO{
				Name:                fmt.Sprintf("Dr. Psychologist %d", i),
				Credentials:         "M.S., LPC",
				About:               fmt.Sprintf("Providing compassionate care to individuals navigating various life challenges. Dr. Psychologist %d focuses on personal growth and resilience.", i),
				HeadshotURL:         fmt.Sprintf("https://placehold.co/150x150/cccccc/ffffff?text=P%d", i),
				Specializations:     []string{specializations[i%len(specializations)]},
				Languages:           languages,
				Location:            loc.city,
				TimeZone:            loc.tz,
				YearsOfExperience:   3 + (i*7)%15,
				ServicesOffered:     []string{"Individual Coaching", "Mindfulness Sessions"},
				Rate:                fmt.Sprintf("$%d/session", 80+(i*13)%80),
				AvailabilityNote:    "Available soon.",
				ContactEmail:        fmt.Sprintf("psychologist%d@example.com", i),
				AcceptingNewClients: i%3 != 0,
				Featured:            i%5 == 0,
				Status:              domain.ProfileStatusPublished,
			},
		})
	}

	return profiles
}
