package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/security"
	"pinax-social-backend/internal/validation"
)

const (
	minPasswordLength = 8
	passwordResetTTL  = 24 * time.Hour
)

type signupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type authService struct {
	userRepo   repository.UserRepository
	emailRepo  repository.EmailRepository
	resetRepo  repository.PasswordResetRepository
	joinRepo   repository.JoinInvitationRepository
	friendRepo repository.FriendRepository
	noticeSvc  NotificationService
	emailSvc   EmailService
	tokens     security.TokenManager
}

func NewAuthService(
	userRepo repository.UserRepository,
	emailRepo repository.EmailRepository,
	resetRepo repository.PasswordResetRepository,
	joinRepo repository.JoinInvitationRepository,
	friendRepo repository.FriendRepository,
	noticeSvc NotificationService,
	emailSvc EmailService,
	tokens security.TokenManager,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		emailRepo:  emailRepo,
		resetRepo:  resetRepo,
		joinRepo:   joinRepo,
		friendRepo: friendRepo,
		noticeSvc:  noticeSvc,
		emailSvc:   emailSvc,
		tokens:     tokens,
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Signup", "username", in.Username)

	req := signupRequest{
		Username: validation.CanonicalUsername(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Name:     strings.TrimSpace(in.Name),
		Password: in.Password,
	}
	if err := validation.Struct(req); err != nil {
		return nil, nil, err
	}

	if err := s.ensureAvailable(ctx, req.Username, req.Email); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "username", req.Username)
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Timezone:     "UTC",
		Language:     "en",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "username", req.Username)
		return nil, nil, conflict(err, "account")
	}

	addr := &domain.EmailAddress{UserID: user.ID, Email: req.Email, Primary: true}
	if err := s.emailRepo.CreateAddress(ctx, addr); err != nil {
		return nil, nil, conflict(err, "email address")
	}

	verified := false
	if in.InvitationKey != "" {
		verified = s.acceptJoinInvitation(ctx, user, in.InvitationKey)
	}
	if verified {
		if err := s.emailRepo.MarkVerified(ctx, addr.ID); err != nil {
			return nil, nil, err
		}
	} else {
		if err := issueConfirmation(ctx, s.emailRepo, s.emailSvc, addr, user.Name); err != nil {
			return nil, nil, err
		}
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username is already taken", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email is already registered", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.emailRepo.GetAddressByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email is already registered", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// acceptJoinInvitation befriends the inviter and reports whether the invitation was
// sent to the address the user signed up with. Problems with the key never fail signup.
func (s *authService) acceptJoinInvitation(ctx context.Context, user *domain.User, key string) bool {
	inv, err := s.joinRepo.GetByKey(ctx, key)
	if err != nil {
		logger.Warn("Signup with unknown invitation key", "userID", user.ID, "error", err)
		return false
	}
	if inv.Status != domain.InvitationStatusSent {
		logger.Warn("Signup with closed invitation", "userID", user.ID, "invitationID", inv.ID, "status", inv.Status)
		return false
	}

	if err := s.joinRepo.UpdateStatus(ctx, inv.ID, domain.InvitationStatusJoined); err != nil {
		logger.Error("Failed to mark invitation joined", "invitationID", inv.ID, "error", err)
		return false
	}
	if err := s.friendRepo.CreateFriendship(ctx, inv.FromUserID, user.ID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		logger.Error("Failed to befriend inviter", "invitationID", inv.ID, "error", err)
	}

	senderID := user.ID
	err = s.noticeSvc.Send(ctx, NoticeInput{
		Recipients: []int32{inv.FromUserID},
		SenderID:   &senderID,
		Label:      NoticeJoinAccept,
		Message:    fmt.Sprintf("%s accepted your invitation and joined", user.Username),
		Attributes: map[string]string{"username": user.Username},
		Queue:      true,
	})
	if err != nil {
		logger.Error("Failed to notify inviter", "invitationID", inv.ID, "error", err)
	}

	return strings.EqualFold(inv.Email, user.Email)
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.User, *TokenPair, error) {
	identifier = strings.TrimSpace(identifier)

	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, validation.CanonicalUsername(identifier))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, userID, newPassword)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	reset := &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().UTC().Add(passwordResetTTL),
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return err
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		logger.Error("Failed to send password reset email", "userID", user.ID, "error", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.resetRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if reset.UsedAt != nil {
		return ErrAlreadyUsed
	}
	now := time.Now().UTC()
	if now.After(reset.ExpiresAt) {
		return ErrExpired
	}

	if err := s.setPassword(ctx, reset.UserID, newPassword); err != nil {
		return err
	}
	return s.resetRepo.MarkUsed(ctx, reset.ID, now)
}

func (s *authService) setPassword(ctx context.Context, userID int32, password string) error {
	if len(password) < minPasswordLength {
		return invalidf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return notFound(s.userRepo.UpdatePassword(ctx, userID, string(hash)), "user")
}

func (s *authService) issueTokens(user *domain.User) (*TokenPair, error) {
	var roles []string
	if user.IsStaff {
		roles = append(roles, security.RoleStaff)
	}
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username, roles)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issueConfirmation stores a fresh confirmation key for addr and mails it.
// Mail failures are logged; the key can be requested again.
func issueConfirmation(ctx context.Context, emailRepo repository.EmailRepository, emailSvc EmailService, addr *domain.EmailAddress, name string) error {
	conf := &domain.EmailConfirmation{
		EmailAddressID: addr.ID,
		Key:            strings.ReplaceAll(uuid.NewString(), "-", ""),
		SentAt:         time.Now().UTC(),
	}
	if err := emailRepo.CreateConfirmation(ctx, conf); err != nil {
		return err
	}
	if err := emailSvc.SendEmailConfirmation(ctx, addr.Email, name, conf.Key); err != nil {
		logger.Error("Failed to send email confirmation", "addressID", addr.ID, "error", err)
	}
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
