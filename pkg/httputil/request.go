package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxEntries is the maximum length of list payloads.
const MaxEntries = 50

const (
	HeaderFamilyID = "X-Family-ID"
	HeaderActorID  = "X-Actor-ID"
)

// ContextURL is the key for the external base URL in the gin context.
const ContextURL = "payday-url"

// BindData binds the data from the request to the struct passed in the interface.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		var syntaxError *json.SyntaxError
		if errors.As(err, &syntaxError) {
			log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
			return ErrInvalidBody
		}

		// Type errors and invalid amounts tell the client which value is wrong
		return fmt.Errorf("%w: %s", ErrInvalidBody, err)
	}

	return nil
}

// UUIDFromString parses a string to a UUID.
func UUIDFromString(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return u, nil
}

// Scope reads the family and the actor from the request headers.
//
// The headers are set by the authenticating proxy in front of the API.
func Scope(c *gin.Context) (models.Scope, error) {
	familyID, err := uuid.Parse(c.GetHeader(HeaderFamilyID))
	if err != nil || familyID == uuid.Nil {
		return models.Scope{}, ErrMissingScope
	}

	actorID, err := uuid.Parse(c.GetHeader(HeaderActorID))
	if err != nil || actorID == uuid.Nil {
		return models.Scope{}, ErrMissingScope
	}

	return models.Scope{FamilyID: familyID, ActorID: actorID}, nil
}

// CheckEntries verifies that a list payload is not longer than MaxEntries.
func CheckEntries(n int) error {
	if n > MaxEntries {
		return ErrTooManyEntries
	}
	return nil
}
