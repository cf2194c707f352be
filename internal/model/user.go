package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID       int
	Name     string
	Login    string
	Password string
	Address  string // адрес депозитора в реестре
}

type UserClaims struct {
	jwt.RegisteredClaims
}

type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}
