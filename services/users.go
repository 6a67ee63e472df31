package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"biomimic/models"
)

var validate = validator.New()

// TokenSigner stellt Tokens für Nutzer aus.
type TokenSigner interface {
	Sign(userID uint) (string, error)
}

// UserService verwaltet Nutzerprofile.
type UserService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Tokens TokenSigner
}

// NewUserService erstellt eine neue Instanz des UserService.
func NewUserService(db *gorm.DB, logger *zap.Logger, tokens TokenSigner) *UserService {
	return &UserService{DB: db, Logger: logger, Tokens: tokens}
}

// Register legt ein Profil an oder aktualisiert den Namen eines bestehenden und stellt ein Token aus.
func (s *UserService) Register(ctx context.Context, name, email string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, "", newError(ErrValidation, "A valid email is required")
	}

	var user models.User
	err := s.DB.WithContext(ctx).
		Where(models.User{Email: email}).
		Attrs(models.User{Name: name}).
		FirstOrCreate(&user).Error
	if err != nil {
		s.Logger.Error("Failed to register user", zap.Error(err))
		return nil, "", err
	}
	if name != "" && user.Name != name {
		if err := s.DB.WithContext(ctx).Model(&user).Update("name", name).Error; err != nil {
			return nil, "", err
		}
		user.Name = name
	}

	token, err := s.Tokens.Sign(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Get liefert einen Nutzer per ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}
