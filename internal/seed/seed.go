package seed

import (
	"context"
	"fmt"

	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

// Seeder fills a database with fake users, posts, comments and likes.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll hard-deletes every row, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.PostLike{}, &models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run creates the data described by opts.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	if opts.NumUsers <= 0 {
		return sum, fmt.Errorf("seed: at least one user is required")
	}

	f, err := NewFactory(s.db, opts)
	if err != nil {
		return sum, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for i := 0; i < opts.NumPosts; i++ {
		post, err := f.CreatePost(ctx, users[f.Pick(len(users))])
		if err != nil {
			return sum, err
		}
		sum.Posts++

		for j := 0; j < opts.CommentsPerPost; j++ {
			if _, err := f.CreateComment(ctx, users[f.Pick(len(users))], post); err != nil {
				return sum, err
			}
			sum.Comments++
		}

		for _, u := range users {
			if !f.Chance(opts.LikeRatio) {
				continue
			}
			added, err := f.Like(ctx, u, post)
			if err != nil {
				return sum, err
			}
			if added {
				sum.Likes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		"users", sum.Users, "posts", sum.Posts, "comments", sum.Comments, "likes", sum.Likes)
	return sum, nil
}
