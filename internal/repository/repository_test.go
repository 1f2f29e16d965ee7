package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func createUser(t *testing.T, repo UserRepository, nickname string) *models.User {
	t.Helper()
	user := &models.User{Email: nickname + "@example.com", Nickname: nickname, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueConstraintError(errors.New("connection reset")))
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, repo, "bob1")
	assert.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob1", byID.Nickname)

	byNickname, err := repo.GetByNickname(ctx, "bob1")
	require.NoError(t, err)
	require.NotNil(t, byNickname)
	assert.Equal(t, "hash", byNickname.Password)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.GetByID(ctx, 9999)
	assertAppErrorCode(t, err, models.CodeNotFound)

	dup := &models.User{Email: "other@example.com", Nickname: "bob1", Password: "hash"}
	assertAppErrorCode(t, repo.Create(ctx, dup), models.CodeValidation)
}

func TestUserRepository_StoreFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(errors.New("connection refused"))

	_, err := repo.GetByNickname(context.Background(), "bob1")
	assertAppErrorCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateFromPostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Email: "a@b.co", Nickname: "abc", Password: "x"})
	assertAppErrorCode(t, err, models.CodeValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CRUD(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")

	first := &models.Post{Title: "first", Content: "one", UserID: author.ID}
	second := &models.Post{Title: "second", Content: "two", UserID: author.ID}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	posts, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID, "newest first")
	assert.Equal(t, "alice", posts[0].Nickname)
	assert.Equal(t, 0, posts[0].LikeCount)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Nickname)

	got.Title = "edited"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, "one", got.Content)

	_, err = repo.GetByID(ctx, 9999)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestPostRepository_LikeCounter(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")
	post := &models.Post{Title: "t", Content: "c", UserID: author.ID}
	require.NoError(t, repo.Create(ctx, post))

	likers := []*models.User{createUser(t, users, "u1"), createUser(t, users, "u2"), createUser(t, users, "u3")}
	for _, u := range likers {
		liked, err := repo.Like(ctx, u.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
	}

	liked, err := repo.Like(ctx, likers[0].ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked, "repeat like is a no-op")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.LikeCount)

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	removed, err := repo.Unlike(ctx, likers[1].ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Unlike(ctx, likers[1].ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second unlike finds nothing")

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)
}

func TestPostRepository_UnlikeNeverGoesNegative(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")
	post := &models.Post{Title: "t", Content: "c", UserID: author.ID}
	require.NoError(t, repo.Create(ctx, post))

	// A like row without a matching counter bump, as left behind by older data.
	require.NoError(t, db.Create(&models.PostLike{UserID: author.ID, PostID: post.ID}).Error)

	removed, err := repo.Unlike(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount)
}

func TestPostRepository_ConcurrentLikesKeepCounterInStep(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")
	post := &models.Post{Title: "t", Content: "c", UserID: author.ID}
	require.NoError(t, repo.Create(ctx, post))

	const numLikers = 20
	likers := make([]*models.User, numLikers)
	for i := range likers {
		likers[i] = createUser(t, users, fmt.Sprintf("liker%d", i))
	}

	// Each liker likes twice so repeat likes race the first ones.
	var wg sync.WaitGroup
	errs := make(chan error, numLikers*2)
	for _, u := range likers {
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				if _, err := repo.Like(ctx, userID, post.ID); err != nil {
					errs <- err
				}
			}(u.ID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	rows, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(numLikers), rows)
	assert.Equal(t, rows, int64(got.LikeCount))

	errs = make(chan error, numLikers)
	for _, u := range likers[:numLikers/2] {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := repo.Unlike(ctx, userID, post.ID); err != nil {
				errs <- err
			}
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	rows, err = repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(numLikers/2), rows)
	assert.Equal(t, rows, int64(got.LikeCount))
}

func TestPostRepository_ListLikedBy(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	popular := &models.Post{Title: "popular", Content: "c", UserID: alice.ID}
	quiet := &models.Post{Title: "quiet", Content: "c", UserID: alice.ID}
	unliked := &models.Post{Title: "unliked", Content: "c", UserID: alice.ID}
	for _, p := range []*models.Post{popular, quiet, unliked} {
		require.NoError(t, repo.Create(ctx, p))
	}

	_, err := repo.Like(ctx, bob.ID, quiet.ID)
	require.NoError(t, err)
	_, err = repo.Like(ctx, bob.ID, popular.ID)
	require.NoError(t, err)
	_, err = repo.Like(ctx, alice.ID, popular.ID)
	require.NoError(t, err)

	liked, err := repo.ListLikedBy(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, popular.ID, liked[0].ID)
	assert.Equal(t, 2, liked[0].LikeCount)
	assert.Equal(t, quiet.ID, liked[1].ID)
	assert.Equal(t, "alice", liked[1].Nickname)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")
	post := &models.Post{Title: "t", Content: "c", UserID: author.ID}
	require.NoError(t, posts.Create(ctx, post))
	require.NoError(t, comments.Create(ctx, &models.Comment{Content: "hi", UserID: author.ID, PostID: post.ID}))
	_, err := posts.Like(ctx, author.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, post.ID))

	_, err = posts.GetByID(ctx, post.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)

	list, err := comments.List(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := posts.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assertAppErrorCode(t, posts.Delete(ctx, post.ID), models.CodeNotFound)
}

func TestPostRepository_StoreFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "posts"`).WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background(), 0, 0)
	assertAppErrorCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_LikeRollsBackOnCounterFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "post_likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET "like_count"`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	liked, err := repo.Like(context.Background(), 1, 1)
	assert.False(t, liked)
	assertAppErrorCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, users, "alice")
	poster := createUser(t, users, "carol")
	p1 := &models.Post{Title: "p1", Content: "c", UserID: author.ID}
	p2 := &models.Post{Title: "p2", Content: "c", UserID: poster.ID}
	require.NoError(t, posts.Create(ctx, p1))
	require.NoError(t, posts.Create(ctx, p2))

	c1 := &models.Comment{Content: "first", UserID: author.ID, PostID: p1.ID}
	c2 := &models.Comment{Content: "second", UserID: author.ID, PostID: p2.ID}
	require.NoError(t, repo.Create(ctx, c1))
	require.NoError(t, repo.Create(ctx, c2))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, c2.ID, all[0].ID)
	assert.Equal(t, "alice", all[0].Nickname)
	require.NotNil(t, all[0].Post)
	assert.Equal(t, "p2", all[0].Post.Title)
	assert.Equal(t, "carol", all[0].Post.Nickname)
	require.NotNil(t, all[1].Post)
	assert.Equal(t, "alice", all[1].Post.Nickname)

	filtered, err := repo.List(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, c1.ID, filtered[0].ID)

	require.NoError(t, repo.UpdateContent(ctx, c1.ID, "edited"))
	got, err := repo.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, c1.ID))
	_, err = repo.GetByID(ctx, c1.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
	assertAppErrorCode(t, repo.Delete(ctx, c1.ID), models.CodeNotFound)
	assertAppErrorCode(t, repo.UpdateContent(ctx, 9999, "x"), models.CodeNotFound)
}
