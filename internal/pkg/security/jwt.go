package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// GenerateToken 为指定用户签发 Token, 线上由身份服务签发, 这里主要供本地调试与测试使用
func GenerateToken(uid string, expire time.Duration) (string, error) {
	claims := UserClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chillz",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(JWTSecret))
	if err != nil {
		return "", errors.Wrap(err, "签发 Token 失败")
	}
	return signed, nil
}

// ValidateToken 校验 Token 并解析出用户信息
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非法的签名算法")
		}
		return []byte(JWTSecret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Token 校验失败")
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("Token 无效")
	}
	if claims.UID == "" {
		return nil, errors.New("Token 中缺少用户标识")
	}
	return claims, nil
}
