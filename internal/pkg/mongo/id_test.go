package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDMChatIDSymmetry(t *testing.T) {
	assert.Equal(t, "dm_u1_u2", DMChatID("u1", "u2"))
	assert.Equal(t, DMChatID("u1", "u2"), DMChatID("u2", "u1"))
	assert.Equal(t, "dm_abc_xyz", DMChatID("xyz", "abc"))
}

func TestVibeCheckIDIsDirectional(t *testing.T) {
	assert.Equal(t, "vc_u1_u2", VibeCheckID("u1", "u2"))
	assert.NotEqual(t, VibeCheckID("u1", "u2"), VibeCheckID("u2", "u1"))
}

func TestOtherUID(t *testing.T) {
	members := []string{"u1", "u2"}
	assert.Equal(t, "u2", OtherUID(members, "u1"))
	assert.Equal(t, "u1", OtherUID(members, "u2"))
	// 不在成员里时退回自身
	assert.Equal(t, "u9", OtherUID(members, "u9"))
}
