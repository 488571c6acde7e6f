package util

import (
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{5,25}$`)

// NormalizeUsername 统一用户名格式：小写、去掉前导 @ 和非法字符、限长 25
func NormalizeUsername(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimPrefix(s, "@")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > 25 {
		out = out[:25]
	}
	return out
}

// IsValidUsername 校验用户名是否合法
func IsValidUsername(u string) bool {
	return usernameRegex.MatchString(u)
}

// Truncate 按字符（而非字节）截断字符串
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
