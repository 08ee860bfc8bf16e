package rest

import (
	"context"
	"log"

	"github.com/comuna-app/comuna_api/internal/model"
	"github.com/google/uuid"
)

func (api *API) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	stmt := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND is_deleted = FALSE)`

	err := api.DB.QueryRow(ctx, stmt, email).Scan(&exists)
	if err != nil {
		log.Println("error checking email", err)
		return false, err
	}
	return exists, nil
}

func (api *API) CreateNewUserRepo(ctx context.Context, req model.User) error {
	stmt := `
        INSERT INTO users (
            id,
            email,
            name,
            avatar_url,
            password_hash,
            auth_provider,
            last_login
        ) VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `
	_, err := api.Deps.DB.Pool().Exec(ctx, stmt, req.ID, req.Email, req.Name, req.AvatarURL, req.PasswordHash, req.AuthProvider)
	if err != nil {
		log.Println("error creating new user", err)
		return err
	}
	return nil
}

func (api *API) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	stmt := `-- name: get-user-by-email
		SELECT id, email, name, avatar_url, password_hash, auth_provider
		FROM users WHERE email = $1 AND is_deleted = FALSE`

	err := api.DB.QueryRow(ctx, stmt, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.AuthProvider,
	)
	if err != nil {
		log.Println("error getting user by email", err)
		return model.User{}, err
	}
	return user, nil
}

func (api *API) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	stmt := `
		SELECT id, email, name, avatar_url, auth_provider, last_login, created_at, updated_at
		FROM users WHERE id = $1 AND is_deleted = FALSE`

	err := api.Deps.DB.Pool().QueryRow(ctx, stmt, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.AuthProvider,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		log.Println("error getting user by ID", err)
		return model.User{}, err
	}
	return user, nil
}

// TouchLastLogin bumps the profile's last_login on each successful sign-in.
func (api *API) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	stmt := `
        UPDATE users
        SET last_login = NOW(), updated_at = NOW()
        WHERE id = $1
    `
	_, err := api.Deps.DB.Pool().Exec(ctx, stmt, userID)
	if err != nil {
		log.Println("error updating last login", err)
		return err
	}
	return nil
}
