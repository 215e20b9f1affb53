package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/app/repositories"
)

// UserService handles profile, preference and study statistics operations
type UserService struct {
	userRepo       repositories.IUserRepository
	enrollmentRepo IEnrollmentRepository
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	enrollmentRepo IEnrollmentRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// GetProfile retrieves the safe profile projection for a user
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrolled := 0
	if enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID); err == nil {
		enrolled = len(enrollments)
	} else {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to count enrollments for profile")
	}

	profile := dto.NewProfileResponse(user, enrolled)
	return &profile, nil
}

// UpdateProfile applies a partial profile update and returns the result
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	if req.AvatarURL != nil {
		if err := s.userRepo.UpdateAvatar(ctx, userID, req.AvatarURL); err != nil {
			return nil, err
		}
		user.AvatarURL = req.AvatarURL
	}

	return s.GetProfile(ctx, userID)
}

// UpdatePreferences applies a partial preference update. Unset fields keep
// their stored values.
func (s *UserService) UpdatePreferences(ctx context.Context, userID int64, req *dto.UpdatePreferencesRequest) (*models.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences
	if req.Theme != nil {
		prefs.Theme = models.Theme(*req.Theme)
	}
	if req.Language != nil {
		prefs.Language = *req.Language
	}
	if req.NotifyEmail != nil {
		prefs.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifyPush != nil {
		prefs.NotifyPush = *req.NotifyPush
	}
	if req.NotifySMS != nil {
		prefs.NotifySMS = *req.NotifySMS
	}

	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}

	return &prefs, nil
}

// UpdateStats folds a study session into the user's statistics
func (s *UserService) UpdateStats(ctx context.Context, userID int64, req *dto.UpdateStatsRequest) (*models.UserStats, error) {
	hours := 0.0
	if req.StudyHours != nil {
		hours = *req.StudyHours
	}
	return s.userRepo.ApplyStudySession(ctx, userID, hours, req.Score)
}

// ListUsers retrieves one page of accounts for administration
func (s *UserService) ListUsers(ctx context.Context, filter dto.ListUsersFilter, page, size int) ([]models.User, int64, error) {
	var role *models.RoleType
	if filter.Role != "" {
		r := models.RoleType(filter.Role)
		role = &r
	}
	var search *string
	if filter.Search != "" {
		search = &filter.Search
	}
	return s.userRepo.List(ctx, role, search, page, size)
}

// SetUserActive enables or disables an account
func (s *UserService) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", userID).Bool("active", active).Msg("Changed account active flag")
	return nil
}

// DeleteUser removes an account and everything hanging off it
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	return s.userRepo.Delete(ctx, userID)
}
