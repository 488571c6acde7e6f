package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice_chillz", NormalizeUsername("  @Alice_Chillz  "))
	assert.Equal(t, "bob123", NormalizeUsername("Bob-1+2=3!"))
	assert.Equal(t, strings.Repeat("a", 25), NormalizeUsername(strings.Repeat("a", 40)))
	assert.Equal(t, "", NormalizeUsername("@@@"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice_chillz"))
	assert.True(t, IsValidUsername("a1_b2"))
	assert.False(t, IsValidUsername("abcd"))                   // 太短
	assert.False(t, IsValidUsername(strings.Repeat("a", 26))) // 太长
	assert.False(t, IsValidUsername("Alice"))                  // 大写
	assert.False(t, IsValidUsername("ali ce"))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "he", Truncate("hello", 2))
	assert.Equal(t, "你好", Truncate("你好世界", 2))
}
