package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/bursary-hub/model"
	"gorm.io/gorm"
)

// UserService maps verified token identities to local users
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Provision returns the user for the token subject, creating it on first
// sight. Email, name and role follow the latest token.
func (s *UserService) Provision(ctx context.Context, subject, email, name, role string) (*model.User, error) {
	if role != model.RoleStaff {
		role = model.RoleStudent
	}

	var user model.User
	err := s.db.WithContext(ctx).
		Where(model.User{ExternalID: subject}).
		Attrs(model.User{Email: email, Name: name, Role: role}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	if user.Email != email || user.Name != name || user.Role != role {
		err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"email": email,
			"name":  name,
			"role":  role,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to refresh user: %w", err)
		}
		user.Email, user.Name, user.Role = email, name, role
	}
	return &user, nil
}
