package command

import (
	"errors"
	"fmt"
	"time"

	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/middleware/auth"

	"github.com/fatih/color"
	"github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const demoPassword = "demo1234"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the Blue Lagoon Hotel demo data",
	Long: `Creates the demo owner and creator accounts, the Blue Lagoon Hotel organization,
its review sources, a handful of recent reviews, three creator profiles with stats and
the starter training resources. Safe to run repeatedly: existing rows are reused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}

		var summary seedSummary
		err = conn.WithContext(cmd.Context()).Transaction(func(tx *gorm.DB) error {
			summary, err = seedDemo(tx, time.Now())
			return err
		})
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		color.Green("✓ Demo data ready")
		fmt.Printf("Organization: %s (%s)\n", summary.OrgName, summary.OrgID)
		fmt.Printf("Owner login:  owner@example.com / %s\n", demoPassword)
		fmt.Printf("Reviews added: %d\n", summary.ReviewsAdded)
		fmt.Printf("Creators added: %d\n", summary.CreatorsAdded)
		fmt.Printf("Training resources added: %d\n", summary.TrainingAdded)
		return nil
	},
}

type seedSummary struct {
	OrgID         string
	OrgName       string
	ReviewsAdded  int
	CreatorsAdded int
	TrainingAdded int
}

type demoCreator struct {
	name, email    string
	profile        models.CreatorProfile
	followers      int
	engagementRate float64
	impressions    int
	postsPerWeek   int
}

func strPtr(s string) *string { return &s }

func seedDemo(tx *gorm.DB, now time.Time) (seedSummary, error) {
	var summary seedSummary
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	owner, err := ensureUser(tx, "Demo Owner", "owner@example.com", models.RoleOwner)
	if err != nil {
		return summary, err
	}

	org := models.Organization{Name: "Blue Lagoon Hotel", Slug: "blue-lagoon-hotel"}
	if err := tx.Where(models.Organization{Slug: org.Slug}).FirstOrCreate(&org).Error; err != nil {
		return summary, fmt.Errorf("organization: %w", err)
	}
	summary.OrgID, summary.OrgName = org.ID, org.Name

	member := models.OrganizationMember{OrganizationID: org.ID, UserID: owner.ID}
	if err := tx.Where(member).Attrs(models.OrganizationMember{Role: models.MemberRoleOwner}).
		FirstOrCreate(&member).Error; err != nil {
		return summary, fmt.Errorf("membership: %w", err)
	}

	google, err := ensureSource(tx, org.ID, "Google Reviews", "https://business.google.com")
	if err != nil {
		return summary, err
	}
	trip, err := ensureSource(tx, org.ID, "TripAdvisor", "https://tripadvisor.com")
	if err != nil {
		return summary, err
	}

	reviews := []models.Review{
		{SourceID: google.ID, Author: strPtr("Sarah Mitchell"), Rating: 4, CreatedAt: daysAgo(12),
			Text: "Great beachfront views and friendly staff. Room cleaning could be more thorough."},
		{SourceID: trip.ID, Author: strPtr("Michael Rodriguez"), Rating: 5, CreatedAt: daysAgo(26),
			Text: "Fantastic experience! Food quality outstanding. Staff went above and beyond."},
		{SourceID: google.ID, Author: strPtr("Jennifer Chen"), Rating: 3, CreatedAt: daysAgo(41),
			Text: "First room had cleanliness issues, but staff quickly moved us. Excellent location."},
		{SourceID: trip.ID, Author: strPtr("David Thompson"), Rating: 2, CreatedAt: daysAgo(7),
			Text: "Service was very slow at breakfast and dinner. Food decent but long waits."},
		{SourceID: google.ID, Author: strPtr("Lisa Johnson"), Rating: 5, CreatedAt: daysAgo(18),
			Text: "Perfect honeymoon destination, spotless room, breathtaking ocean view, amazing staff."},
		{SourceID: trip.ID, Author: strPtr("Robert Wilson"), Rating: 4, CreatedAt: daysAgo(55),
			Text: "Great value right on the beach. Food good, staff friendly and accommodating."},
		{SourceID: google.ID, Author: strPtr("Amanda Davis"), Rating: 3, CreatedAt: daysAgo(33),
			Text: "Beautiful location but some maintenance issues (AC, faucet). Slow response."},
		{SourceID: trip.ID, Author: strPtr("James Brown"), Rating: 5, CreatedAt: daysAgo(21),
			Text: "Outstanding hospitality and exceptional restaurant, fresh and beautifully presented."},
	}

	var existing int64
	if err := tx.Model(&models.Review{}).Where("organization_id = ?", org.ID).Count(&existing).Error; err != nil {
		return summary, fmt.Errorf("counting reviews: %w", err)
	}
	if existing < int64(len(reviews)) {
		for i := range reviews {
			reviews[i].OrganizationID = org.ID
		}
		if err := tx.Create(&reviews).Error; err != nil {
			return summary, fmt.Errorf("reviews: %w", err)
		}
		summary.ReviewsAdded = len(reviews)
	}

	creators := []demoCreator{
		{
			name: "Demo Creator", email: "creator@example.com",
			profile: models.CreatorProfile{
				DisplayName:  "Maya Thompson",
				Bio:          "Caribbean lifestyle and travel creator focusing on luxury resorts and authentic experiences.",
				City:         "Kingston",
				Country:      "Jamaica",
				Niches:       pq.StringArray{"travel", "luxury", "lifestyle"},
				InstagramURL: strPtr("https://instagram.com/maya_caribbean"),
				FacebookURL:  strPtr("https://facebook.com/maya.thompson"),
				TiktokURL:    strPtr("https://tiktok.com/@maya_travel"),
			},
			followers: 127000, engagementRate: 8.2, impressions: 2400000, postsPerWeek: 5,
		},
		{
			name: "Marcus Johnson", email: "marcus@example.com",
			profile: models.CreatorProfile{
				DisplayName:  "Marcus Johnson",
				Bio:          "Food & culture enthusiast showcasing Caribbean cuisine and hospitality.",
				City:         "Montego Bay",
				Country:      "Jamaica",
				Niches:       pq.StringArray{"food", "culture", "tourism"},
				InstagramURL: strPtr("https://instagram.com/marcus_caribbean_food"),
				FacebookURL:  strPtr("https://facebook.com/marcus.johnson"),
			},
			followers: 98000, engagementRate: 6.1, impressions: 1200000, postsPerWeek: 4,
		},
		{
			name: "Sophia Williams", email: "sophia@example.com",
			profile: models.CreatorProfile{
				DisplayName:  "Sophia Williams",
				Bio:          "Luxury travel blogger covering high-end Caribbean resorts.",
				City:         "Bridgetown",
				Country:      "Barbados",
				Niches:       pq.StringArray{"luxury", "travel", "lifestyle"},
				InstagramURL: strPtr("https://instagram.com/sophia_luxury_travel"),
				FacebookURL:  strPtr("https://facebook.com/sophia.williams"),
			},
			followers: 152000, engagementRate: 5.4, impressions: 1800000, postsPerWeek: 3,
		},
	}

	for _, c := range creators {
		added, err := ensureCreator(tx, c)
		if err != nil {
			return summary, err
		}
		if added {
			summary.CreatorsAdded++
		}
	}

	var trainingCount int64
	if err := tx.Model(&models.TrainingResource{}).Count(&trainingCount).Error; err != nil {
		return summary, fmt.Errorf("counting training resources: %w", err)
	}
	if trainingCount == 0 {
		resources := []models.TrainingResource{
			{Category: "Service Excellence", Title: "Effective Complaint Resolution",
				Format: models.TrainingFormatVideo, URL: strPtr("https://youtu.be/dQw4w9WgXcQ")},
			{Category: "Service Excellence", Title: "Customer Service Standards Checklist",
				Format:   models.TrainingFormatDoc,
				Markdown: strPtr("# Customer Service Standards\n\n- Greet guests warmly\n- Listen actively\n- Follow up promptly")},
			{Category: "Housekeeping", Title: "Room Cleanliness Inspection Routine",
				Format:   models.TrainingFormatDoc,
				Markdown: strPtr("# Cleanliness Inspection\n\n- Check linens and bathroom fixtures\n- Log maintenance issues the same day")},
			{Category: "Food & Beverage", Title: "Reducing Restaurant Wait Times (Speed of Service)",
				Format:   models.TrainingFormatDoc,
				Markdown: strPtr("# Speed of Service\n\n- Stagger kitchen prep before peak hours\n- Acknowledge waiting guests within two minutes")},
		}
		if err := tx.Create(&resources).Error; err != nil {
			return summary, fmt.Errorf("training resources: %w", err)
		}
		summary.TrainingAdded = len(resources)
	}

	return summary, nil
}

func ensureUser(tx *gorm.DB, name, email, role string) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up %s: %w", email, err)
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}
	user = models.User{Name: name, Email: email, Password: hash, Role: role}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating %s: %w", email, err)
	}
	return &user, nil
}

func ensureSource(tx *gorm.DB, orgID, name, url string) (*models.ReviewSource, error) {
	source := models.ReviewSource{OrganizationID: orgID, Name: name}
	if err := tx.Where(source).Attrs(models.ReviewSource{URL: strPtr(url)}).FirstOrCreate(&source).Error; err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}
	return &source, nil
}

// ensureCreator reports whether a new profile was created
func ensureCreator(tx *gorm.DB, c demoCreator) (bool, error) {
	user, err := ensureUser(tx, c.name, c.email, models.RoleCreator)
	if err != nil {
		return false, err
	}

	var count int64
	if err := tx.Model(&models.CreatorProfile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	profile := c.profile
	profile.UserID = user.ID
	profile.Stats = &models.CreatorStats{
		Followers:            c.followers,
		EngagementRate:       c.engagementRate,
		Impressions30d:       c.impressions,
		PostFrequencyPerWeek: c.postsPerWeek,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return false, fmt.Errorf("creator %s: %w", profile.DisplayName, err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
