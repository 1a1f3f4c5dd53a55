package user

import (
	"context"
	"errors"
	"strconv"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
	"myHairMatch/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

// ProfileRepository contract interface
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uint) (domain.HairProfile, bool, error)
	UpsertProfile(ctx context.Context, userID uint, profile domain.HairProfile) error
}

// ResultInvalidator drops cached recommendation results when the profile they
// were computed for changes. Optional.
type ResultInvalidator interface {
	InvalidateLatest(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo    UserRepository
	profileRepo ProfileRepository
	invalidator ResultInvalidator
	validate    *validator.Validate
}

func NewUserService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	invalidator ResultInvalidator,
	validate *validator.Validate,
) *userService {
	return &userService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		invalidator: invalidator,
		validate:    validate,
	}
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var validRoles = map[string]bool{
	RoleCustomer: true,
	RoleAdmin:    true,
}

var validHairTypes = map[string]bool{
	domain.HairTypeStraight: true,
	domain.HairTypeWavy:     true,
	domain.HairTypeCurly:    true,
	domain.HairTypeCoily:    true,
	domain.HairTypeMixed:    true,
}

var validPorosities = map[string]bool{
	domain.PorosityLow:    true,
	domain.PorosityMedium: true,
	domain.PorosityHigh:   true,
}

var validBudgets = map[string]bool{
	"":                  true,
	domain.BudgetLow:    true,
	domain.BudgetMedium: true,
	domain.BudgetHigh:   true,
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, errors.New("password must be at least 6 characters")
	}

	// Check if email already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists")
		return domain.User{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName: user.FullName,
		Email:    user.Email,
		Password: passwordHash,
		Role:     RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user")
		return domain.User{}, err
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, err
	}

	ok := utils.CheckPassword(password, user.Password)
	if !ok {
		logger.Error("User password incorrect")
		return "", domain.User{}, errors.New("incorrect password")
	}

	userIdStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userIdStr, user.Role)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	user.Password = ""
	return token, user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetAllUsers retrieves all users
func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// UpdateUser updates user information
func (s *userService) UpdateUser(ctx context.Context, id uint, updateData *domain.User) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existingUser.FullName = updateData.FullName
	}

	if updateData.Email != "" {
		// Validate email format
		if err := s.validate.Var(updateData.Email, "required,email"); err != nil {
			logger.Error("Invalid email format", err)
			return domain.User{}, errors.New("invalid email format")
		}

		// Check if email already exists (excluding current user)
		userWithEmail, err := s.userRepo.FindByEmail(ctx, updateData.Email)
		if err == nil && userWithEmail.ID != id {
			logger.Error("Email already exists")
			return domain.User{}, errors.New("email already exists")
		}
		existingUser.Email = updateData.Email
	}

	if updateData.Password != "" {
		// Validate password
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			logger.Error("Invalid password", err)
			return domain.User{}, errors.New("password must be at least 6 characters")
		}

		// Hash new password
		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = passwordHash
	}

	if updateData.Role != "" {
		if !validRoles[updateData.Role] {
			return domain.User{}, errors.New("invalid role")
		}
		existingUser.Role = updateData.Role
	}

	// Update in database
	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Password = ""
	return existingUser, nil
}

// DeleteUser soft deletes a user
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	_, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	// Delete user
	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	return nil
}

// GetProfile returns the user's stored hair profile.
func (s *userService) GetProfile(ctx context.Context, userID uint) (domain.HairProfile, error) {
	profile, found, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		logger.Error("Failed to get hair profile", err)
		return domain.HairProfile{}, err
	}
	if !found {
		return domain.HairProfile{}, errors.New("hair profile not found")
	}

	return profile, nil
}

// SaveProfile validates and stores the user's hair quiz answers. A full
// profile replaces the previous one.
func (s *userService) SaveProfile(ctx context.Context, userID uint, profile domain.HairProfile) error {
	if !validHairTypes[profile.HairType] {
		return errors.New("invalid hair type")
	}
	if !validPorosities[profile.Porosity] {
		return errors.New("invalid porosity")
	}
	if !validBudgets[profile.Budget] {
		return errors.New("invalid budget")
	}

	if err := s.profileRepo.UpsertProfile(ctx, userID, profile); err != nil {
		logger.Error("Failed to save hair profile", err)
		return err
	}

	// recommendations computed for the old profile are stale now
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateLatest(ctx, userID); err != nil {
			logger.Warn("Failed to invalidate cached recommendations", err)
		}
	}

	return nil
}
