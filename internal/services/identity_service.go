package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/eventflow/backend/internal/apperr"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// FederatedClaims are the verified fields extracted from an external identity token.
type FederatedClaims struct {
	Email   string
	Name    string
	Picture string
}

// CredentialVerifier exchanges an opaque external token for verified claims.
// The Firebase-backed implementation lives in pkg/firebase.
type CredentialVerifier interface {
	Verify(ctx context.Context, token string) (*FederatedClaims, error)
}

// IdentityService issues and validates sessions for local and federated accounts.
type IdentityService struct {
	userRepo repositories.UserRepository
	verifier CredentialVerifier

	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewIdentityService creates an IdentityService. Secret and TTL come from
// configuration rather than package globals so tests can pin them.
func NewIdentityService(userRepo repositories.UserRepository, verifier CredentialVerifier, jwtSecret string, tokenTTL time.Duration) *IdentityService {
	return &IdentityService{
		userRepo:  userRepo,
		verifier:  verifier,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a local account and returns a session for it.
func (s *IdentityService) Register(ctx context.Context, fullname, email, password string) (*models.Session, error) {
	if len(fullname) < 3 {
		return nil, apperr.Validation("fullname must be at least 3 letters long")
	}
	if email == "" {
		return nil, apperr.Validation("enter email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("email is invalid")
	}
	if !validPassword(password) {
		return nil, apperr.Validation("password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	username, err := s.allocateUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		PersonalInfo: models.PersonalInfo{
			Fullname:   fullname,
			Email:      email,
			Password:   string(hashed),
			Username:   username,
			ProfileImg: defaultProfileImg(),
		},
	}
	// The unique indexes on email and username are the final backstop against
	// a racing registration between the checks above and this insert.
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// Authenticate verifies a local email/password pair. Both the unknown-email
// and wrong-password paths answer with the same wording so callers cannot
// probe which emails hold accounts; the error kinds stay distinct internally.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("invalid email or password")
		}
		return nil, err
	}
	if user.GoogleAuth {
		return nil, apperr.Conflict("account was created using google, try logging in with google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PersonalInfo.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	return s.newSession(user)
}

// AuthenticateFederated exchanges an external identity token for a session,
// creating a federated account on first sign-in.
func (s *IdentityService) AuthenticateFederated(ctx context.Context, externalToken string) (*models.Session, error) {
	claims, err := s.verifier.Verify(ctx, externalToken)
	if err != nil {
		return nil, apperr.Unauthorized("failed to authenticate with google, try another account")
	}

	// Google serves a 96px avatar by default; persist the larger variant.
	picture := strings.Replace(claims.Picture, "s96-c", "s384-c", 1)

	user, err := s.userRepo.GetUserByEmail(ctx, claims.Email)
	if err == nil {
		if !user.GoogleAuth {
			return nil, apperr.Conflict("this email was signed up without google, please log in with password to access the account")
		}
		return s.newSession(user)
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	username, err := s.allocateUsername(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		PersonalInfo: models.PersonalInfo{
			Fullname:   claims.Name,
			Email:      claims.Email,
			Username:   username,
			ProfileImg: picture,
		},
		GoogleAuth: true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.newSession(user)
}

// Verify parses a session token and returns the embedded user identifier.
func (s *IdentityService) Verify(tokenString string) (primitive.ObjectID, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, apperr.Unauthorized("invalid access token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.Unauthorized("invalid access token")
	}
	return userID, nil
}

// newSession signs an access token over the user id and shapes the session
// payload returned by every successful auth path.
func (s *IdentityService) newSession(user *models.User) (*models.Session, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.Session{
		AccessToken: signed,
		ProfileImg:  user.PersonalInfo.ProfileImg,
		Username:    user.PersonalInfo.Username,
		Fullname:    user.PersonalInfo.Fullname,
	}, nil
}

// GetProfile returns a user's public profile by username.
func (s *IdentityService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PersonalInfo.Password = ""
	user.PersonalInfo.Email = ""
	return user, nil
}

// validPassword enforces the policy: 6-20 characters with at least one digit,
// one lowercase and one uppercase letter.
func validPassword(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}
