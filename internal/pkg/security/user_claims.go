package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const JWTSecret string = "chillz_dev_secret"

// UserClaims 身份服务签发的 Token 中我们关心的业务信息
type UserClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}
