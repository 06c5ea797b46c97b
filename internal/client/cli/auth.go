package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/taskapi/internal/client/storage"
	"github.com/iudanet/taskapi/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password (min 6 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirmPassword, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	resp, err := c.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Username: %s\n", resp.Username)
	c.io.Println("You are now logged in.")

	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", resp.Username)

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	// Сервер ничего не хранит: достаточно забыть токен
	if err := c.sessions.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'taskapi login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	now := c.now()
	if session.Expired(now) {
		c.io.Println("Status: Session expired")
		c.io.Printf("Username: %s\n", session.Username)
		c.io.Println("Run 'taskapi login' to authenticate again.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Server: %s\n", session.ServerURL)
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
		c.io.Printf("Time remaining: %s\n", session.ExpiresAt.Sub(now).Round(time.Second))
	}

	return nil
}

// saveSession сохраняет токен и его срок действия локально
func (c *Cli) saveSession(ctx context.Context, resp *api.AuthResponse) error {
	session := &storage.Session{
		Username:  resp.Username,
		Token:     resp.Token,
		ServerURL: c.serverURL,
		SavedAt:   c.now(),
		ExpiresAt: tokenExpiry(resp.Token),
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// tokenExpiry читает exp из токена без проверки подписи.
// Секрета у клиента нет, срок нужен только для подсказок в status.
func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
