package services

import (
	"context"
	"math/rand"
	"strings"

	"github.com/eventflow/backend/internal/apperr"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// usernameAttempts bounds suffix retries; the unique index on
// personal_info.username remains the final race-safety backstop.
const usernameAttempts = 5

// allocateUsername derives a handle from the local part of the email and
// disambiguates collisions with a short random suffix.
func (s *IdentityService) allocateUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")

	exists, err := s.userRepo.UsernameExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for i := 0; i < usernameAttempts; i++ {
		suffix, err := gonanoid.New(3)
		if err != nil {
			return "", apperr.Internal(err)
		}
		candidate := base + suffix
		exists, err := s.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", apperr.Conflict("could not allocate a unique username")
}

// Avatar defaults for local signups, mirroring the dicebear collections the
// web client expects.
var (
	profileImgCollections = []string{"notionists-neutral", "adventurer-neutral", "fun-emoji"}
	profileImgNames       = []string{"Garfield", "Tinkerbell", "Annie", "Loki", "Cleo", "Angel", "Bob", "Mia", "Coco", "Gracie", "Bear", "Bella", "Abby", "Harley", "Cali", "Leo", "Luna", "Jack", "Felix", "Kiki"}
)

func defaultProfileImg() string {
	collection := profileImgCollections[rand.Intn(len(profileImgCollections))]
	name := profileImgNames[rand.Intn(len(profileImgNames))]
	return "https://api.dicebear.com/6.x/" + collection + "/svg?seed=" + name
}
