package database

import (
	"context"
	"fmt"
	"time"

	"taniku/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeed holds the credentials of the account created on an empty users file
type AdminSeed struct {
	ID       int64
	Username string
	Email    string
	Password string
}

// Seed creates any missing collection files, filling the catalog with the
// starter items and the users file with a default admin when it is empty
func Seed(ctx context.Context, store *Store, admin AdminSeed, logger *zap.Logger) error {
	logger.Info("Checking data files...", zap.String("dir", store.Dir()))

	if _, err := store.Items.Load(ctx, DefaultItems()); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	if _, err := store.Orders.Load(ctx, nil); err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}

	created := false
	err := store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		if len(users) > 0 {
			return users, nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		id := admin.ID
		if id == 0 {
			id = 1
		}
		created = true
		return append(users, domain.User{
			ID:           id,
			Username:     admin.Username,
			Email:        admin.Email,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
		}), nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if created {
		logger.Info("Default admin created", zap.String("email", admin.Email))
	}

	logger.Info("Data files initialized")
	return nil
}

func price(v float64) *float64 { return &v }

// DefaultItems is the starter agricultural catalog
func DefaultItems() []domain.Item {
	return []domain.Item{
		{
			ID:            1,
			Category:      domain.CategorySeed,
			Name:          "Benih Padi Ciherang 5kg",
			Price:         120000,
			Description:   "Benih unggul padi varietas Ciherang dengan daya tumbuh tinggi.",
			Image:         "https://placehold.co/300x200/4CAF50/FFFFFF/png?text=Benih+Padi",
			OriginalPrice: price(135000),
			Badge:         "PROMO",
		},
		{
			ID:          2,
			Category:    domain.CategorySeedling,
			Name:        "Bibit Kopi Robusta 20 batang",
			Price:       400000,
			Description: "Bibit kopi robusta pilihan siap tanam.",
			Image:       "https://placehold.co/300x200/795548/FFFFFF/png?text=Bibit+Kopi",
		},
		{
			ID:          3,
			Category:    domain.CategoryFertilizer,
			Name:        "Pupuk Urea 50kg",
			Price:       350000,
			Description: "Pupuk urea kualitas tinggi untuk meningkatkan hasil panen.",
			Image:       "https://placehold.co/300x200/8BC34A/333333/png?text=Pupuk+Urea",
		},
		{
			ID:          4,
			Category:    domain.CategoryFertilizer,
			Name:        "Pupuk NPK 25kg",
			Price:       280000,
			Description: "Pupuk majemuk untuk pertumbuhan daun, bunga, dan buah.",
			Image:       "https://placehold.co/300x200/CDDC39/333333/png?text=Pupuk+NPK",
		},
		{
			ID:          5,
			Category:    domain.CategoryPesticide,
			Name:        "Insektisida Cair 250ml",
			Price:       55000,
			Description: "Obat pengendali hama serangga pada tanaman.",
			Image:       "https://placehold.co/300x200/F44336/FFFFFF/png?text=Insektisida",
		},
		{
			ID:          6,
			Category:    domain.CategoryPesticide,
			Name:        "Fungisida Bubuk 100gr",
			Price:       35000,
			Description: "Obat pengendali jamur penyebab penyakit tanaman.",
			Image:       "https://placehold.co/300x200/9C27B0/FFFFFF/png?text=Fungisida",
		},
		{
			ID:          7,
			Category:    domain.CategoryTool,
			Name:        "Cangkul Baja Berkualitas",
			Price:       80000,
			Description: "Alat pertanian kokoh untuk segala jenis tanah.",
			Image:       "https://placehold.co/300x200/03A9F4/FFFFFF/png?text=Cangkul",
		},
		{
			ID:          8,
			Category:    domain.CategoryTool,
			Name:        "Sprayer Elektrik 16L",
			Price:       450000,
			Description: "Alat penyemprot elektrik untuk pupuk cair dan pestisida.",
			Image:       "https://placehold.co/300x200/009688/FFFFFF/png?text=Sprayer",
		},
	}
}
