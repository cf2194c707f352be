package converter

import (
	"custody_backend/internal/api/dto/auth"
	"custody_backend/internal/model"
)

func RegisterRequestToUserModel(req *auth.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
		Address:  req.Address,
	}
}
