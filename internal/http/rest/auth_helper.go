package rest

import (
	"context"
	"strings"
	"time"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/comuna-app/comuna_api/util"
	"github.com/comuna-app/comuna_api/util/values"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

// Simplified token creation
func (api *API) createToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) createRefreshToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.RefreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "refresh",
	})

	tokenString, err := token.SignedString([]byte(api.Config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (api *API) CreateNewUser(ctx context.Context, req model.RegisterRequest) (model.LoginResponse, string, string, error) {
	req.Email = strings.Trim(req.Email, " ")

	if err := util.ValidateStruct(req); err != nil {
		return model.LoginResponse{}, values.NotAllowed, "Invalid email or password provided", err
	}

	exists, err := api.EmailExists(ctx, req.Email)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error checking email", err
	}

	if exists {
		return model.LoginResponse{}, values.Conflict, "Email already exists", nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error hashing password", err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = util.NameFromEmail(req.Email)
	}

	hashStr := string(hash)
	user := model.User{
		ID:           util.GenerateUUID(),
		Email:        req.Email,
		Name:         name,
		PasswordHash: &hashStr,
		AuthProvider: "email",
	}

	err = api.CreateNewUserRepo(ctx, user)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error creating new user", err
	}

	token, _, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	refresh, _, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	resp := model.LoginResponse{
		User: &model.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Token:        token,
		RefreshToken: refresh,
	}

	return resp, values.Created, "User created successfully", nil
}

func (api *API) LoginUser(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	req.Email = strings.Trim(req.Email, " ")

	if err := util.ValidEmail(req.Email); err != nil {
		return model.LoginResponse{}, values.NotAllowed, "Invalid email address provided", err
	}

	user, err := api.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return model.LoginResponse{}, values.NotFound, "User not found", err
	}

	if user.PasswordHash == nil {
		return model.LoginResponse{}, values.NotAuthorised, "Account uses a different sign-in method", nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
	}

	// Sign-in doubles as the profile upsert: the row already exists, so
	// only last_login moves.
	if err := api.TouchLastLogin(ctx, user.ID); err != nil {
		return model.LoginResponse{}, values.Error, "Failed to update last login", err
	}

	token, _, err := api.createToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}
	refresh, _, err := api.createRefreshToken(user.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	resp := model.LoginResponse{
		User: &model.SessionUser{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			AvatarURL: user.AvatarURL,
		},
		Token:        token,
		RefreshToken: refresh,
	}
	return resp, values.Success, "Login successful", nil
}
