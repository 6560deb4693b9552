package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Alphabet for room codes excludes ambiguous characters: 0, O, 1, I, L.
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const roomCodeLength = 6

// GenerateRoomID - generates an opaque unique identifier for a room.
func GenerateRoomID() string {
	return uuid.NewString()
}

// GenerateRoomCode - generates a short human-shareable code for manual
// entry. The generator makes no uniqueness guarantee; collisions among open
// rooms are rejected at the store and retried by the caller.
func GenerateRoomCode() (string, error) {
	code := make([]byte, roomCodeLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to draw room code character: %w", err)
		}

		code[i] = roomCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

// GenerateSessionID - generates a new unique session identifier.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
