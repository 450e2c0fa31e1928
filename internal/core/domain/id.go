package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh record id. Every store backend uses the same
// 24-character hex format so ids can be validated before any store access.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidateID rejects malformed ids with a ValidationError.
func ValidateID(field, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return NewValidationError(field, "invalid "+field)
	}
	return nil
}
