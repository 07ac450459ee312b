package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sorvetesinacio/storefront/pkg/enums"
	"github.com/sorvetesinacio/storefront/pkg/kv"
	"github.com/sorvetesinacio/storefront/pkg/models"
)

// Fixed seed credentials. These are demo fixtures, not secrets; integration
// tests rely on the exact values.
const (
	SeedAdminEmail    = "admin@sorvetesinacio.com"
	SeedAdminPassword = "admin123"
	SeedStaffEmail    = "funcionario@sorvetesinacio.com"
	SeedStaffPassword = "func123"
)

func (s *Store) seedUsers() []models.User {
	return []models.User{
		{
			ID:        "1",
			Name:      "Administrator",
			Email:     SeedAdminEmail,
			Password:  SeedAdminPassword,
			Role:      enums.UserRoleAdmin,
			CreatedAt: s.now(),
		},
		{
			ID:        "2",
			Name:      "Staff",
			Email:     SeedStaffEmail,
			Password:  SeedStaffPassword,
			Role:      enums.UserRoleStaff,
			CreatedAt: s.now(),
		},
	}
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func pricePtr(value string) *decimal.Decimal {
	p := price(value)
	return &p
}

// seedCatalog is the fixed 8-item sample catalog written on first run so the
// storefront is usable without prior setup.
func seedCatalog() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Belgian Chocolate Scoop",
			Category:    enums.ProductCategoryScoop,
			BasePrice:   price("15.90"),
			Description: "Creamy premium Belgian chocolate ice cream with milk chocolate chunks.",
			ImageRef:    "https://images.unsplash.com/photo-1563805042-7684c019e1cb?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
		{
			ID:          "2",
			Name:        "Double Scoop Cone",
			Category:    enums.ProductCategoryCone,
			BasePrice:   price("9.90"),
			Description: "Crunchy cone with two scoops of your choice: vanilla, chocolate or strawberry.",
			ImageRef:    "https://images.unsplash.com/photo-1580915411954-282cb1b0d780?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
		{
			ID:          "3",
			Name:        "Premium Açaí",
			Category:    enums.ProductCategoryScoop,
			BasePrice:   price("18.90"),
			Description: "Creamy Amazonian açaí, blended to order with banana and guaraná syrup.",
			ImageRef:    "https://images.unsplash.com/photo-1557142046-c704a3adf364?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			OnSale:      true,
			SalePrice:   pricePtr("16.90"),
		},
		{
			ID:          "4",
			Name:        "Ice Cream by Weight",
			Category:    enums.ProductCategoryByWeight,
			BasePrice:   price("80.00"),
			Description: "Build your own with over 20 flavors and 15 toppings to pick from.",
			ImageRef:    "https://images.unsplash.com/photo-1629385901030-fa3ccfb0441d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
		{
			ID:          "5",
			Name:        "Tropical Sundae",
			Category:    enums.ProductCategoryCombo,
			BasePrice:   price("24.90"),
			Description: "Vanilla ice cream with caramelized pineapple slices, passion fruit syrup and whipped cream.",
			ImageRef:    "https://images.unsplash.com/photo-1488900128323-21503983a07e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
			OnSale:      true,
			SalePrice:   pricePtr("19.90"),
		},
		{
			ID:          "6",
			Name:        "Strawberry Milkshake",
			Category:    enums.ProductCategoryCombo,
			BasePrice:   price("16.90"),
			Description: "Creamy strawberry milkshake with whipped cream and red berry syrup.",
			ImageRef:    "https://images.unsplash.com/photo-1615478503562-ec2d8aa0e24e?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
		{
			ID:          "7",
			Name:        "Pistachio Scoop",
			Category:    enums.ProductCategoryScoop,
			BasePrice:   price("17.90"),
			Description: "Premium Sicilian pistachio ice cream with roasted pistachio pieces.",
			ImageRef:    "https://images.unsplash.com/photo-1567206563064-6f60f40a2b57?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
		{
			ID:          "8",
			Name:        "Vanilla Cone",
			Category:    enums.ProductCategoryCone,
			BasePrice:   price("7.90"),
			Description: "Crunchy cone with one scoop of our creamy vanilla ice cream.",
			ImageRef:    "https://images.unsplash.com/photo-1557142046-c704a3adf364?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
		},
	}
}

// seed writes the catalog on first run and guarantees the two fixed accounts
// exist, re-adding a missing one without duplicating or resetting anything
// the users changed since.
func (s *Store) seed(ctx context.Context) error {
	_, found, err := s.kv.Get(ctx, kv.KeyProducts)
	if err != nil {
		return fmt.Errorf("checking products: %w", err)
	}
	if !found {
		raw, err := json.Marshal(seedCatalog())
		if err != nil {
			return fmt.Errorf("encoding seed catalog: %w", err)
		}
		if err := s.kv.Set(ctx, kv.KeyProducts, string(raw)); err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}
		s.logg.Info(ctx, "seeded product catalog")
	}

	return s.ensureSeedUsers(ctx)
}

func (s *Store) ensureSeedUsers(ctx context.Context) error {
	users := loadSlice[models.User](ctx, s, kv.KeyUsers)

	changed := false
	for _, seedUser := range s.seedUsers() {
		exists := false
		for _, user := range users {
			if strings.EqualFold(user.Email, seedUser.Email) {
				exists = true
				break
			}
		}
		if !exists {
			users = append(users, seedUser)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyUsers, string(raw)); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	s.logg.Info(ctx, "restored missing seed accounts")
	return nil
}
