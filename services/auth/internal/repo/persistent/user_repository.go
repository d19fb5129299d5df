package persistent

import (
	"errors"

	"github.com/AmirAliEidivandi/movie/services/auth/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *model.UserModel) (*entity.User, error)
	GetUserByID(userID string) (*entity.User, error)
	GetUserByIdentifier(identifier string) (*model.UserModel, error)
	EmailExists(email string) (bool, error)
	UsernameExists(username string) (bool, error)
	GetRefreshTokenHash(userID string) (string, error)
	UpdateRefreshTokenHash(userID, hash string) error
	UpdateProfile(userID string, fields map[string]interface{}) (*entity.User, error)
	UpdateAvatarURL(userID, avatarURL string) error
	GetPasswordHash(userID string) (string, error)
	SoftDeleteUser(userID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *model.UserModel) (*entity.User, error) {
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(user), nil
}

func (r *userRepository) GetUserByID(userID string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", userID).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

// GetUserByIdentifier resolves a login identifier that may be either an email
// or a username. Returns the model because the caller needs the password hash.
func (r *userRepository) GetUserByIdentifier(identifier string) (*model.UserModel, error) {
	var userModel model.UserModel
	if err := r.db.Where("email = ? OR username = ?", identifier, identifier).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return &userModel, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetRefreshTokenHash(userID string) (string, error) {
	var userModel model.UserModel
	if err := r.db.Select("refresh_token").Where("id = ?", userID).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrUserNotFound
		}
		return "", err
	}
	return userModel.RefreshToken, nil
}

func (r *userRepository) UpdateRefreshTokenHash(userID, hash string) error {
	result := r.db.Model(&model.UserModel{}).Where("id = ?", userID).Update("refresh_token", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateProfile(userID string, fields map[string]interface{}) (*entity.User, error) {
	if len(fields) > 0 {
		result := r.db.Model(&model.UserModel{}).Where("id = ?", userID).Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, entity.ErrUserNotFound
		}
	}
	return r.GetUserByID(userID)
}

func (r *userRepository) UpdateAvatarURL(userID, avatarURL string) error {
	result := r.db.Model(&model.UserModel{}).Where("id = ?", userID).Update("avatar_url", avatarURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetPasswordHash(userID string) (string, error) {
	var userModel model.UserModel
	if err := r.db.Select("password").Where("id = ?", userID).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrUserNotFound
		}
		return "", err
	}
	return userModel.Password, nil
}

func (r *userRepository) SoftDeleteUser(userID string) error {
	result := r.db.Where("id = ?", userID).Delete(&model.UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
