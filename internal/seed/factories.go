// Package seed creates demo data for development databases and tests.
package seed

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user logs in with.
const DefaultPassword = "seedpass1"

// Options controls how much data the Seeder creates.
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int

	// LikeRatio is the chance, between 0 and 1, that a given user likes a given post.
	LikeRatio float64

	// BcryptCost defaults to bcrypt.DefaultCost. Tests pass bcrypt.MinCost.
	BcryptCost int

	// Seed makes the fake data reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them.
type Factory struct {
	db     *gorm.DB
	posts  repository.PostRepository
	faker  *gofakeit.Faker
	hash   string
	nextID int
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	cost := opts.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	faker := gofakeit.New(opts.Seed)
	return &Factory{
		db:    db,
		posts: repository.NewPostRepository(db),
		faker: faker,
		hash:  string(hash),
	}, nil
}

// nickname returns a unique nickname matching the signup rules: 3-12 letters or digits.
func (f *Factory) nickname() string {
	f.nextID++
	suffix := fmt.Sprintf("%d", f.nextID)

	base := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, f.faker.FirstName())
	if len(base) < 2 {
		base = "user"
	}
	if limit := 12 - len(suffix); len(base) > limit {
		base = base[:limit]
	}
	return strings.ToLower(base) + suffix
}

// CreateUser persists a fake user. Overrides run before the insert.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	nickname := f.nickname()
	user := &models.User{
		Nickname: nickname,
		Email:    nickname + "@" + f.faker.DomainName(),
		Password: f.hash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Nickname, err)
	}
	return user, nil
}

// CreatePost persists a fake post written by author.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   f.faker.Sentence(5),
		Content: f.faker.Paragraph(1, 3, 8, "\n"),
		UserID:  author.ID,
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a fake comment by author on post.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content: f.faker.Sentence(12),
		UserID:  author.ID,
		PostID:  post.ID,
	}
	if err := f.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Like records a like through the post repository so like_count stays in step.
func (f *Factory) Like(ctx context.Context, user *models.User, post *models.Post) (bool, error) {
	return f.posts.Like(ctx, user.ID, post.ID)
}

// Pick returns a pseudo-random index below n.
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}
