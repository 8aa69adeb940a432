package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonalInfo holds the identity fields nested under every user document.
// Password carries the bcrypt hash and is absent for google-auth accounts.
type PersonalInfo struct {
	Fullname   string `json:"fullname" bson:"fullname"`
	Email      string `json:"email,omitempty" bson:"email"`
	Password   string `json:"-" bson:"password,omitempty"`
	Username   string `json:"username" bson:"username"`
	Bio        string `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImg string `json:"profile_img" bson:"profile_img"`
}

// AccountInfo aggregates the per-author counters maintained by the blog lifecycle.
type AccountInfo struct {
	TotalPosts int64 `json:"total_posts" bson:"total_posts"`
	TotalReads int64 `json:"total_reads" bson:"total_reads"`
}

// User represents a platform account stored in MongoDB.
type User struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	PersonalInfo PersonalInfo         `json:"personal_info" bson:"personal_info"`
	GoogleAuth   bool                 `json:"google_auth,omitempty" bson:"google_auth"`
	AccountInfo  AccountInfo          `json:"account_info" bson:"account_info"`
	Blogs        []primitive.ObjectID `json:"blogs,omitempty" bson:"blogs"`
	JoinedAt     time.Time            `json:"joinedAt" bson:"joinedAt"`
}

// Session is the payload returned to a client after any successful auth flow.
type Session struct {
	AccessToken string `json:"access_token"`
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SigninRequest defines the request body for local sign-in
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleAuthRequest defines the request body for federated sign-in
type GoogleAuthRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
