package storage

import (
	"context"

	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
)

func imageURL(s string) *string { return &s }

// SeedProviders are the sample providers shown on the booking section.
var SeedProviders = []model.ProviderInput{
	{
		Name:        "Dr. Sarah Johnson",
		Category:    "Healthcare",
		Experience:  "15+ years experience",
		Rating:      5,
		ReviewCount: 127,
		ImageURL:    imageURL("https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?ixlib=rb-4.0.3&auto=format&fit=crop&w=300&h=300"),
		Verified:    true,
	},
	{
		Name:        "Emma Rodriguez",
		Category:    "Beauty & Wellness",
		Experience:  "8+ years experience",
		Rating:      5,
		ReviewCount: 89,
		ImageURL:    imageURL("https://images.unsplash.com/photo-1594824388853-2c5d0d1ce6e0?ixlib=rb-4.0.3&auto=format&fit=crop&w=300&h=300"),
		Verified:    true,
	},
	{
		Name:        "Mike Chen",
		Category:    "Fitness & Training",
		Experience:  "12+ years experience",
		Rating:      5,
		ReviewCount: 203,
		ImageURL:    imageURL("https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?ixlib=rb-4.0.3&auto=format&fit=crop&w=300&h=300"),
		Verified:    true,
	},
	{
		Name:        "David Wilson",
		Category:    "Home Services",
		Experience:  "20+ years experience",
		Rating:      5,
		ReviewCount: 156,
		ImageURL:    imageURL("https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-4.0.3&auto=format&fit=crop&w=300&h=300"),
		Verified:    true,
	},
}

// SeedTestimonials are the sample client testimonials.
var SeedTestimonials = []model.TestimonialInput{
	{
		ClientName: "Emily Zhang",
		ClientRole: "Product Manager, ByteLabs",
		Content:    "Working with AmbersolutionsPK was a game-changer for our startup. They transformed our idea into a sleek landing page that boosted our conversion rate by 40%. Their team truly understands design, execution, and user experience.",
		Rating:     5,
	},
	{
		ClientName: "David Lee",
		ClientRole: "Founder, Streamify AI",
		Content:    "We needed a custom AI tool, and AmbersolutionsPK delivered beyond expectations. From concept to deployment, everything was handled with precision and creativity. Their expertise in AI and web technologies is unmatched.",
		Rating:     5,
	},
	{
		ClientName: "Sarah Johnson",
		ClientRole: "UX Designer, CloudArc",
		Content:    "AmbersolutionsPK built our portfolio site, and the results were stunning. Clean design, smooth animations, and delivered on time. They are the perfect partner for anyone who values minimalism with impact.",
		Rating:     5,
	},
	{
		ClientName: "Alex Carter",
		ClientRole: "CTO, NovaEdge Solutions",
		Content:    "Our company required a dashboard solution with custom backend logic. AmbersolutionsPK handled it flawlessly. The communication was seamless, and they exceeded every expectation. Highly recommend their services.",
		Rating:     5,
	},
}

// Seed inserts every sample row through the store's own create path, so
// seeded rows get generated ids like any other record.
func Seed(ctx context.Context, s Store) error {
	if err := seedProviders(ctx, s); err != nil {
		return err
	}
	return seedTestimonials(ctx, s)
}

// SeedIfEmpty seeds each sample collection that holds no rows yet, which
// keeps restarts of a persistent store from duplicating the samples.
func SeedIfEmpty(ctx context.Context, s Store) (bool, error) {
	seeded := false

	providers, err := s.ListProviders(ctx)
	if err != nil {
		return false, err
	}
	if len(providers) == 0 {
		if err := seedProviders(ctx, s); err != nil {
			return false, err
		}
		seeded = true
	}

	testimonials, err := s.ListTestimonials(ctx)
	if err != nil {
		return seeded, err
	}
	if len(testimonials) == 0 {
		if err := seedTestimonials(ctx, s); err != nil {
			return seeded, err
		}
		seeded = true
	}
	return seeded, nil
}

func seedProviders(ctx context.Context, s Store) error {
	for _, p := range SeedProviders {
		if _, err := s.CreateProvider(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func seedTestimonials(ctx context.Context, s Store) error {
	for _, t := range SeedTestimonials {
		if _, err := s.CreateTestimonial(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
