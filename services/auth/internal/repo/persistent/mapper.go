package persistent

import (
	"github.com/AmirAliEidivandi/movie/services/auth/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/auth/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:             m.ID,
		Email:          m.Email,
		Username:       m.Username,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Nickname:       m.Nickname,
		PhoneNumber:    m.PhoneNumber,
		Occupation:     m.Occupation,
		Location:       m.Location,
		Bio:            m.Bio,
		AvatarURL:      m.AvatarURL,
		FavoriteGenres: []string(m.FavoriteGenres),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
