package usecase

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AmirAliEidivandi/movie/pkg/jwt"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/model"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository with the same uniqueness and
// not-found semantics as the persistent one.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.UserModel
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.UserModel{}}
}

func (f *fakeUserRepo) CreateUser(user *model.UserModel) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return persistent.ToUserEntity(user), nil
}

func (f *fakeUserRepo) GetUserByID(userID string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return persistent.ToUserEntity(user), nil
}

func (f *fakeUserRepo) GetUserByIdentifier(identifier string) (*model.UserModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == identifier || user.Username == identifier {
			copied := *user
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UsernameExists(username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetRefreshTokenHash(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return "", entity.ErrUserNotFound
	}
	return user.RefreshToken, nil
}

func (f *fakeUserRepo) UpdateRefreshTokenHash(userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}
	user.RefreshToken = hash
	return nil
}

func (f *fakeUserRepo) UpdateProfile(userID string, fields map[string]interface{}) (*entity.User, error) {
	f.mu.Lock()
	user, ok := f.users[userID]
	if !ok {
		f.mu.Unlock()
		return nil, entity.ErrUserNotFound
	}
	for column, value := range fields {
		switch column {
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "nickname":
			user.Nickname = value.(string)
		case "phone_number":
			user.PhoneNumber = value.(string)
		case "occupation":
			user.Occupation = value.(string)
		case "location":
			user.Location = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "favorite_genres":
			user.FavoriteGenres = value.(pq.StringArray)
		}
	}
	f.mu.Unlock()
	return f.GetUserByID(userID)
}

func (f *fakeUserRepo) UpdateAvatarURL(userID, avatarURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}
	user.AvatarURL = avatarURL
	return nil
}

func (f *fakeUserRepo) GetPasswordHash(userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return "", entity.ErrUserNotFound
	}
	return user.Password, nil
}

func (f *fakeUserRepo) SoftDeleteUser(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return entity.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

var _ persistent.UserRepository = (*fakeUserRepo)(nil)

type fakeUploader struct {
	uploads []string
	failErr error
}

func (f *fakeUploader) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	if f.failErr != nil {
		return "", f.failErr
	}
	io.Copy(io.Discard, file)
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func newTestUseCase() (AuthUseCase, *fakeUserRepo, *fakeUploader) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{}
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthUseCase(repo, jwtService, uploader, logger.New()), repo, uploader
}

func registerTestUser(t *testing.T, uc AuthUseCase) (*entity.User, *entity.TokenPair) {
	t.Helper()
	user, tokens, err := uc.Register(RegisterInput{
		Email:    "ali@example.com",
		Username: "ali",
		Password: "secret123",
	})
	assert.NoError(t, err)
	return user, tokens
}

func TestRegister(t *testing.T) {
	uc, _, _ := newTestUseCase()

	user, tokens, err := uc.Register(RegisterInput{
		Email:          "ali@example.com",
		Username:       "ali",
		Password:       "secret123",
		FirstName:      "Ali",
		FavoriteGenres: []string{"Drama", "Sci-Fi"},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ali@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _, _ := newTestUseCase()
	registerTestUser(t, uc)

	_, _, err := uc.Register(RegisterInput{
		Email:    "ali@example.com",
		Username: "other",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, entity.ErrEmailTaken)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	uc, _, _ := newTestUseCase()
	registerTestUser(t, uc)

	_, _, err := uc.Register(RegisterInput{
		Email:    "other@example.com",
		Username: "ali",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, entity.ErrUsernameTaken)
}

func TestLogin_ByEmailAndUsername(t *testing.T) {
	uc, _, _ := newTestUseCase()
	registerTestUser(t, uc)

	user, tokens, err := uc.Login("ali@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "ali", user.Username)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = uc.Login("ali", "secret123")
	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, _, _ := newTestUseCase()
	registerTestUser(t, uc)

	_, _, err := uc.Login("ali@example.com", "wrong-password")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, _, err := uc.Login("ghost@example.com", "whatever")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestRefreshTokens_Rotation(t *testing.T) {
	uc, _, _ := newTestUseCase()
	_, tokens := registerTestUser(t, uc)

	rotated, err := uc.RefreshTokens(tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	// The old refresh token was rotated out and no longer verifies
	// against the stored hash.
	_, err = uc.RefreshTokens(tokens.RefreshToken)
	assert.ErrorIs(t, err, entity.ErrInvalidRefreshToken)

	// The new one still works.
	_, err = uc.RefreshTokens(rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshTokens_Garbage(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.RefreshTokens("not-a-jwt")
	assert.ErrorIs(t, err, entity.ErrInvalidRefreshToken)
}

func TestRefreshTokens_AfterLogout(t *testing.T) {
	uc, _, _ := newTestUseCase()
	user, tokens := registerTestUser(t, uc)

	assert.NoError(t, uc.Logout(user.ID))

	_, err := uc.RefreshTokens(tokens.RefreshToken)
	assert.ErrorIs(t, err, entity.ErrInvalidRefreshToken)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	uc, _, _ := newTestUseCase()
	user, _ := registerTestUser(t, uc)

	bio := "movie addict"
	genres := []string{"Horror"}
	updated, err := uc.UpdateProfile(user.ID, entity.ProfileUpdate{
		Bio:            &bio,
		FavoriteGenres: &genres,
	})
	assert.NoError(t, err)
	assert.Equal(t, "movie addict", updated.Bio)
	assert.Equal(t, []string{"Horror"}, updated.FavoriteGenres)
	// Untouched fields keep their values
	assert.Equal(t, "ali@example.com", updated.Email)
}

func TestDeleteAccount_RequiresPassword(t *testing.T) {
	uc, _, _ := newTestUseCase()
	user, _ := registerTestUser(t, uc)

	err := uc.DeleteAccount(user.ID, "wrong-password")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	assert.NoError(t, uc.DeleteAccount(user.ID, "secret123"))

	_, err = uc.GetProfile(user.ID)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestUploadAvatar(t *testing.T) {
	uc, _, uploader := newTestUseCase()
	user, _ := registerTestUser(t, uc)

	url, err := uc.UploadAvatar(user.ID, "me.png", bytes.NewBufferString("png-bytes"), "image/png")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/avatars/"+user.ID+"/"))
	assert.True(t, strings.HasSuffix(uploader.uploads[0], ".png"))

	profile, err := uc.GetProfile(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, url, profile.AvatarURL)
}
