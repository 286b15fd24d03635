package main

import (
	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ UIDHandler = (*IDsHandler)(nil) // ensure IDsHandler implements UIDHandler.

// UIDHandler generates request ids and checks book ids format.
type UIDHandler interface {
	Generate(prefix string) string
	IsValid(id string) bool
}

// IDsHandler implements the UIDHandler interface.
type IDsHandler struct{}

// NewIDsHandler returns a ready to use IDsHandler.
func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

// Generate provides a random unique identifier.
func (idh *IDsHandler) Generate(prefix string) string {
	id, _ := uuid.NewV4()
	return prefix + ":" + id.String()
}

// IsValid checks if a given string is a well-formed book id, that
// is a 24 characters hexadecimal encoded object id.
func (idh *IDsHandler) IsValid(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewBookID provides a fresh object id in its hexadecimal form. It is used
// by storages which do not assign identifiers on their own.
func NewBookID() string {
	return primitive.NewObjectID().Hex()
}
