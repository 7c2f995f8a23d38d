package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"identity-service/internal/audit"
	"identity-service/internal/auth"
	"identity-service/internal/domain"
	"identity-service/internal/password"
	"identity-service/internal/repository"
	"identity-service/internal/validation"
)

const passwordRule = "must be 8-15 characters long consisting of at least one number, uppercase letter, lowercase letter and special character"

// IdentityService orchestrates registration, login and owner-scoped
// profile access. Every method is stateless and safe for concurrent
// use; the store is the only shared state.
type IdentityService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	GetProfile(ctx context.Context, requesterID, targetID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, requesterID, targetID string, req ProfileUpdateRequest) (*domain.User, error)
}

// RegisterRequest is the parsed registration payload.
type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
}

func (r RegisterRequest) empty() bool {
	return r.FullName == "" && r.Email == "" && r.Password == "" &&
		r.ConfirmPassword == "" && r.Phone == ""
}

// LoginRequest is the parsed login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the authenticated user id and its bearer token.
type LoginResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// ProfileUpdateRequest is a sparse update: nil fields were absent from
// the request and must be left untouched.
type ProfileUpdateRequest struct {
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
}

func (r ProfileUpdateRequest) empty() bool {
	return r.FullName == nil && r.Email == nil && r.Phone == nil &&
		r.Password == nil && r.ConfirmPassword == nil
}

type identityService struct {
	users  repository.UserStore
	tokens *auth.TokenService
	audit  *audit.Queue
}

func NewIdentityService(users repository.UserStore, tokens *auth.TokenService, auditQueue *audit.Queue) IdentityService {
	return &identityService{
		users:  users,
		tokens: tokens,
		audit:  auditQueue,
	}
}

// Register validates the payload field by field (first failure wins),
// rejects duplicate email/phone, hashes the password and persists the
// record. The confirm password is stored as the same digest.
func (s *identityService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.empty() {
		return nil, ErrInvalidRequest
	}

	if !validation.IsValidString(req.FullName) {
		return nil, invalidField("fullName", "is mandatory")
	}
	if !validation.IsValidName(req.FullName) {
		return nil, invalidField("fullName", "is not a valid name")
	}

	if !validation.IsValidString(req.Email) {
		return nil, invalidField("email", "is required")
	}
	if !validation.IsValidMail(req.Email) {
		return nil, invalidField("email", "is invalid")
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	if !validation.IsValidString(req.Password) {
		return nil, invalidField("password", "is required")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, invalidField("password", passwordRule)
	}
	if !validation.IsValidString(req.ConfirmPassword) {
		return nil, invalidField("confirmPassword", "is required")
	}
	if !validation.IsConfirmPasswordMatch(req.Password, req.ConfirmPassword) {
		return nil, ErrMismatch
	}

	digest, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	if !validation.IsValidString(req.Phone) {
		return nil, invalidField("phone", "number is mandatory")
	}
	if !validation.IsValidPhone(req.Phone) {
		return nil, invalidField("phone", "number is not valid")
	}
	if err := s.ensurePhoneFree(ctx, req.Phone, ""); err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        digest,
		ConfirmPassword: digest,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return created, nil
}

// Login verifies credentials and issues a bearer token bound to the
// user's id. Unknown email and wrong password produce the same error.
func (s *identityService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Email == "" && req.Password == "" {
		return nil, ErrInvalidRequest
	}

	if !validation.IsValidString(req.Email) {
		return nil, invalidField("email", "is required")
	}
	if !validation.IsValidMail(req.Email) {
		return nil, invalidField("email", "is invalid")
	}
	if !validation.IsValidString(req.Password) {
		return nil, invalidField("password", "is required")
	}
	if !validation.IsValidPassword(req.Password) {
		return nil, invalidField("password", "is not a valid password")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{UserID: user.ID.Hex(), Token: token}, nil
}

// GetProfile returns the full record for targetID after the owner
// check. It also schedules a best-effort audit entry; enqueueing never
// blocks or fails the read.
func (s *identityService) GetProfile(ctx context.Context, requesterID, targetID string) (*domain.User, error) {
	if !validation.IsValidID(targetID) {
		return nil, invalidField("userId", "is invalid")
	}

	// Owner check before the lookup: a cross-user read is rejected
	// without revealing whether the target exists.
	if requesterID != targetID {
		return nil, &ForbiddenError{RequesterID: requesterID, TargetID: targetID}
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if s.audit != nil {
		s.audit.Enqueue(targetID)
	}
	return user, nil
}

// UpdateProfile applies a sparse update: each present field is
// validated with its own rule, email/phone are re-checked for
// uniqueness excluding the target itself, passwords are hashed, and
// only the supplied fields are persisted. Any failure aborts the whole
// update.
func (s *identityService) UpdateProfile(ctx context.Context, requesterID, targetID string, req ProfileUpdateRequest) (*domain.User, error) {
	if !validation.IsValidID(targetID) {
		return nil, invalidField("userId", "is invalid")
	}
	if req.empty() {
		return nil, ErrInvalidRequest
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, mapStoreErr(err)
	}
	if requesterID != targetID {
		return nil, &ForbiddenError{RequesterID: requesterID, TargetID: targetID}
	}

	var update domain.UserUpdate

	if req.FullName != nil {
		if !validation.IsValidName(*req.FullName) {
			return nil, invalidField("fullName", "is invalid")
		}
		update.FullName = req.FullName
	}
	if req.Email != nil {
		if !validation.IsValidMail(*req.Email) {
			return nil, invalidField("email", "is invalid")
		}
		if err := s.ensureEmailFree(ctx, *req.Email, targetID); err != nil {
			return nil, err
		}
		update.Email = req.Email
	}
	if req.Phone != nil {
		if !validation.IsValidPhone(*req.Phone) {
			return nil, invalidField("phone", "is invalid")
		}
		if err := s.ensurePhoneFree(ctx, *req.Phone, targetID); err != nil {
			return nil, err
		}
		update.Phone = req.Phone
	}
	if req.Password != nil && !validation.IsValidPassword(*req.Password) {
		return nil, invalidField("password", "is invalid")
	}
	if req.ConfirmPassword != nil && !validation.IsValidPassword(*req.ConfirmPassword) {
		return nil, invalidField("confirmPassword", "is invalid")
	}

	// The plaintext cross-check applies only when both fields arrive in
	// the same update. A single-field change can make the stored hashes
	// diverge; that mirrors the system this service replaces.
	if req.Password != nil && req.ConfirmPassword != nil &&
		!validation.IsConfirmPasswordMatch(*req.Password, *req.ConfirmPassword) {
		return nil, ErrMismatch
	}

	if req.Password != nil {
		digest, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		update.Password = &digest
	}
	if req.ConfirmPassword != nil {
		digest, err := password.Hash(*req.ConfirmPassword)
		if err != nil {
			return nil, err
		}
		update.ConfirmPassword = &digest
	}

	updated, err := s.users.UpdateFields(ctx, targetID, update)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated, nil
}

// ensureEmailFree rejects an email already owned by a different user.
// excludeID is empty on registration and the target's own id on update.
func (s *identityService) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if excludeID == "" || existing.ID.Hex() != excludeID {
		return &ConflictError{Field: "email"}
	}
	return nil
}

func (s *identityService) ensurePhoneFree(ctx context.Context, phone, excludeID string) error {
	existing, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if excludeID == "" || existing.ID.Hex() != excludeID {
		return &ConflictError{Field: "phone"}
	}
	return nil
}

// mapStoreErr converts store sentinels into pipeline errors. A
// late-arriving unique-index violation still surfaces as a conflict.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return &ConflictError{Field: "email"}
	case errors.Is(err, repository.ErrDuplicatePhone):
		return &ConflictError{Field: "phone"}
	default:
		return err
	}
}
