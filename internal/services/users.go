package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sheetstack/internal/metrics"
	"sheetstack/internal/models"
	"sheetstack/internal/sheetdb"
)

// UserStore keeps user accounts in the Users sheet.
//
// Registration checks for an existing email and then appends; two concurrent
// registrations with the same email can both pass the check. Membership
// updates are read-modify-write and can lose a concurrent update to the same
// row. The backing sheet offers no way to close either race.
type UserStore struct {
	DB     *sheetdb.DB
	Sheet  string
	Tokens TokenService
	Log    zerolog.Logger
	Now    func() time.Time
}

func (s *UserStore) now() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(time.RFC3339)
}

// EnsureSchema repairs the Users header before anything depends on its column positions.
func (s *UserStore) EnsureSchema(ctx context.Context) error {
	return s.DB.EnsureHeader(ctx, s.Sheet, models.UsersSchema)
}

func (s *UserStore) Register(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrBadRequest("Email and password are required")
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return models.User{}, WrapError(err, "ensure users schema")
	}
	_, found, err := s.DB.Find(ctx, s.Sheet, models.ColEmail, email)
	if err != nil {
		return models.User{}, WrapError(err, "lookup email")
	}
	if found {
		return models.User{}, ErrBadRequest("User already registered")
	}
	hash, err := s.Tokens.HashPassword(password)
	if err != nil {
		return models.User{}, WrapError(err, "hash password")
	}
	now := s.now()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Membership:   models.MembershipFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.DB.Append(ctx, s.Sheet, models.UsersSchema, user.Record()); err != nil {
		return models.User{}, WrapError(err, "append user")
	}
	metrics.RecordRegistration()
	s.Log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Authenticate reports unknown emails and wrong passwords identically.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrBadRequest("Email and password are required")
	}
	match, found, err := s.DB.Find(ctx, s.Sheet, models.ColEmail, email)
	if err != nil {
		return models.User{}, WrapError(err, "lookup email")
	}
	if !found {
		metrics.RecordLogin(false)
		return models.User{}, ErrBadRequest("Invalid credentials")
	}
	user := models.UserFromRecord(match.Record)
	if !s.Tokens.VerifyPassword(password, user.PasswordHash) {
		metrics.RecordLogin(false)
		return models.User{}, ErrBadRequest("Invalid credentials")
	}
	metrics.RecordLogin(true)
	return user, nil
}

func (s *UserStore) ByID(ctx context.Context, userID string) (models.User, error) {
	match, found, err := s.DB.Find(ctx, s.Sheet, models.ColUserID, userID)
	if err != nil {
		return models.User{}, WrapError(err, "lookup user")
	}
	if !found {
		return models.User{}, ErrNotFound("User not found")
	}
	return models.UserFromRecord(match.Record), nil
}

func (s *UserStore) UpdateMembership(ctx context.Context, userID string, membership models.Membership) (models.User, error) {
	if userID == "" || membership == "" {
		return models.User{}, ErrBadRequest("userId and newMembership are required")
	}
	if !membership.Valid() {
		return models.User{}, ErrBadRequest("Membership must be free or premium")
	}
	match, found, err := s.DB.Find(ctx, s.Sheet, models.ColUserID, userID)
	if err != nil {
		return models.User{}, WrapError(err, "lookup user")
	}
	if !found {
		return models.User{}, ErrNotFound("User not found")
	}
	now := s.now()
	patch := map[string]string{
		models.ColMembership: string(membership),
		models.ColUpdatedAt:  now,
	}
	if err := s.DB.ApplyPatch(ctx, s.Sheet, match.Row, patch); err != nil {
		return models.User{}, WrapError(err, "update membership")
	}
	metrics.RecordMembershipUpdate(string(membership))
	s.Log.Info().Str("user_id", userID).Str("membership", string(membership)).Msg("membership updated")

	user := models.UserFromRecord(match.Record)
	user.Membership = membership
	user.UpdatedAt = now
	return user, nil
}
