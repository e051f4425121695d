package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	x1, y1 := CanonicalPair(a, b)
	x2, y2 := CanonicalPair(b, a)

	assert.Equal(t, x1, x2, "both argument orders map to the same pair")
	assert.Equal(t, y1, y2)
	assert.True(t, x1.String() < y1.String())
}

func TestConversationMembers(t *testing.T) {
	a, b := CanonicalPair(uuid.New(), uuid.New())
	conv := &Conversation{ID: uuid.New(), UserA: a, UserB: b}

	assert.Equal(t, b, conv.OtherMember(a))
	assert.Equal(t, a, conv.OtherMember(b))
	assert.True(t, conv.HasMember(a))
	assert.True(t, conv.HasMember(b))
	assert.False(t, conv.HasMember(uuid.New()))
}
