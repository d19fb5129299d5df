package usecase

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/AmirAliEidivandi/movie/pkg/jwt"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/model"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email          string
	Username       string
	Password       string
	FirstName      string
	LastName       string
	FavoriteGenres []string
}

// FileUploader is the slice of the storage client the avatar flow needs.
type FileUploader interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

type AuthUseCase interface {
	Register(input RegisterInput) (*entity.User, *entity.TokenPair, error)
	Login(identifier, password string) (*entity.User, *entity.TokenPair, error)
	RefreshTokens(refreshToken string) (*entity.TokenPair, error)
	Logout(userID string) error
	GetProfile(userID string) (*entity.User, error)
	UpdateProfile(userID string, update entity.ProfileUpdate) (*entity.User, error)
	DeleteAccount(userID, password string) error
	UploadAvatar(userID, filename string, file io.Reader, contentType string) (string, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	uploader   FileUploader
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, uploader FileUploader, log *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		uploader:   uploader,
		logger:     log,
	}
}

func (uc *authUseCase) Register(input RegisterInput) (*entity.User, *entity.TokenPair, error) {
	if taken, err := uc.userRepo.EmailExists(input.Email); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, entity.ErrEmailTaken
	}
	if taken, err := uc.userRepo.UsernameExists(input.Username); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, entity.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userModel := &model.UserModel{
		Email:          input.Email,
		Username:       input.Username,
		Password:       string(hashedPassword),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		FavoriteGenres: input.FavoriteGenres,
	}

	user, err := uc.userRepo.CreateUser(userModel)
	if err != nil {
		// Lost a race with a concurrent registration past the pre-checks
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, entity.ErrEmailTaken
		}
		return nil, nil, err
	}

	tokens, err := uc.issueTokens(user.ID, "user")
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (uc *authUseCase) Login(identifier, password string) (*entity.User, *entity.TokenPair, error) {
	userModel, err := uc.userRepo.GetUserByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, nil, entity.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userModel.Password), []byte(password)); err != nil {
		return nil, nil, entity.ErrInvalidCredentials
	}

	tokens, err := uc.issueTokens(userModel.ID, "user")
	if err != nil {
		return nil, nil, err
	}
	return persistent.ToUserEntity(userModel), tokens, nil
}

// RefreshTokens rotates the refresh token: the presented token must match the
// stored hash, and a successful refresh replaces it, so a stolen old token
// stops working after its first legitimate use.
func (uc *authUseCase) RefreshTokens(refreshToken string) (*entity.TokenPair, error) {
	claims, err := uc.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, entity.ErrInvalidRefreshToken
	}

	storedHash, err := uc.userRepo.GetRefreshTokenHash(claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidRefreshToken
		}
		return nil, err
	}

	presented := hashToken(refreshToken)
	if storedHash == "" || subtle.ConstantTimeCompare([]byte(storedHash), []byte(presented)) != 1 {
		return nil, entity.ErrInvalidRefreshToken
	}

	return uc.issueTokens(claims.UserID, "user")
}

func (uc *authUseCase) Logout(userID string) error {
	return uc.userRepo.UpdateRefreshTokenHash(userID, "")
}

func (uc *authUseCase) GetProfile(userID string) (*entity.User, error) {
	return uc.userRepo.GetUserByID(userID)
}

func (uc *authUseCase) UpdateProfile(userID string, update entity.ProfileUpdate) (*entity.User, error) {
	fields := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = *value
		}
	}
	setString("first_name", update.FirstName)
	setString("last_name", update.LastName)
	setString("nickname", update.Nickname)
	setString("phone_number", update.PhoneNumber)
	setString("occupation", update.Occupation)
	setString("location", update.Location)
	setString("bio", update.Bio)
	if update.FavoriteGenres != nil {
		fields["favorite_genres"] = pq.StringArray(*update.FavoriteGenres)
	}

	return uc.userRepo.UpdateProfile(userID, fields)
}

func (uc *authUseCase) DeleteAccount(userID, password string) error {
	storedHash, err := uc.userRepo.GetPasswordHash(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return entity.ErrInvalidCredentials
	}
	return uc.userRepo.SoftDeleteUser(userID)
}

func (uc *authUseCase) UploadAvatar(userID, filename string, file io.Reader, contentType string) (string, error) {
	if uc.uploader == nil {
		return "", errors.New("avatar storage is not configured")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New().String(), ext)

	avatarURL, err := uc.uploader.UploadFile(key, file, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := uc.userRepo.UpdateAvatarURL(userID, avatarURL); err != nil {
		return "", err
	}
	return avatarURL, nil
}

func (uc *authUseCase) issueTokens(userID, role string) (*entity.TokenPair, error) {
	accessToken, err := uc.jwtService.GenerateToken(userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := uc.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := uc.userRepo.UpdateRefreshTokenHash(userID, hashToken(refreshToken)); err != nil {
		return nil, err
	}
	return &entity.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// hashToken produces the digest stored instead of the raw refresh token.
// SHA-256 rather than bcrypt because a signed JWT is both high-entropy and
// longer than bcrypt's 72-byte input limit.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
