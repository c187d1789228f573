// Package services contains the business logic of the report server:
// accounts and sessions, report submission and spreadsheet export.
package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/dbx"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/config"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput is what a new account is created from.
type SignupInput struct {
	UserName string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string
}

// AuthService handles account creation and credential checks. Successful
// signup and login open a session through SessionService.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	bcryptCost  int
	validate    *validator.Validate
	logger      logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		bcryptCost:  cfg.BcryptCost,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Signup creates the user and its first session in one transaction.
//
// Errors: common.ErrorValidation for an empty username or a missing or
// malformed email, common.ErrorWeakPassword for a password shorter than
// common.MinPasswordLength, common.ErrorDuplicateCredential when the
// username or the email is taken.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.UserIdentity, *models.Session, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, nil, validationError(err)
	}
	if len(in.Password) < common.MinPasswordLength {
		return nil, nil, common.ErrorWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword(prehashPassword(in.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
	}

	var session *models.Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return common.ErrorDuplicateCredential
			}
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		var err error
		session, err = s.sessions.Create(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, common.ErrorDuplicateCredential) {
			s.logger.Error(ctx, "signup failed", "username", in.UserName, "error", err)
		}
		return nil, nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	return &models.UserIdentity{UserID: user.ID, UserName: user.UserName}, session, nil
}

// Login checks the credentials and opens a session. Unknown usernames and
// wrong passwords both yield common.ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*models.UserIdentity, *models.Session, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnCompare(password)
			return nil, nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, s.db, user.ID)
	if err != nil {
		s.logger.Error(ctx, "session create failed", "user_id", user.ID, "error", err)
		return nil, nil, err
	}

	return &models.UserIdentity{UserID: user.ID, UserName: user.UserName}, session, nil
}

// Logout ends the session. Absent or already expired sessions are fine.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.logger.Error(ctx, "logout failed", "error", err)
		return err
	}
	return nil
}

func (s *AuthService) checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, prehashPassword(password)) == nil
}

// burnCompare spends one bcrypt comparison so unknown usernames cost as
// much as wrong passwords.
func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(prehashPassword("not-a-real-password"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, prehashPassword(password))
}

// prehashPassword maps any password to a 44 byte digest. bcrypt accepts at
// most 72 bytes.
func prehashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: invalid fields %s", common.ErrorValidation, strings.Join(fields, ", "))
}
