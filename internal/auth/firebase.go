package auth

import (
	"context"
	"errors"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/socialgraph/backend/internal/apperrors"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier checks an identity provider's ID token.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

type firebaseTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client firebaseTokenVerifier
}

// NewFirebaseVerifier accepts a *firebaseauth.Client.
func NewFirebaseVerifier(client firebaseTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Join(apperrors.ErrUnauthenticated, err)
	}

	id := &Identity{UID: token.UID}
	id.Email, _ = token.Claims["email"].(string)
	id.Name, _ = token.Claims["name"].(string)
	id.Picture, _ = token.Claims["picture"].(string)
	return id, nil
}
