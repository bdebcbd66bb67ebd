package services

import "github.com/anonto42/socialgraph/backend/internal/apperrors"

// AuthorizeDelete allows a delete only when the actor owns the resource. It
// has no side effects; the delete that follows must still be conditioned on
// ownership in the store.
func AuthorizeDelete(actorID, ownerID uint) error {
	if actorID == 0 || actorID != ownerID {
		return apperrors.ErrForbidden
	}
	return nil
}
