package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblemStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusSolved.Valid())
	assert.False(t, ProblemStatus("archived").Valid())
	assert.False(t, ProblemStatus("").Valid())
}

func TestUserDisplayName(t *testing.T) {
	var nobody *User
	assert.Equal(t, "Anonymous", nobody.DisplayName("Anonymous"))
	assert.Equal(t, "Ada", (&User{Name: "Ada", Email: "ada@example.com"}).DisplayName("x"))
	assert.Equal(t, "ada@example.com", (&User{Email: "ada@example.com"}).DisplayName("x"))
}

func TestSolutionIsLikedBy(t *testing.T) {
	s := Solution{LikedBy: []uint{3, 7}}
	assert.True(t, s.IsLikedBy(7))
	assert.False(t, s.IsLikedBy(4))
}
