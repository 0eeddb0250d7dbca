package auth

import (
	"context"
	"strings"
	"time"

	"milkatm-backend/internal/config"
	"milkatm-backend/internal/models"
	"milkatm-backend/internal/store"
	"milkatm-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SecurityQuestions are the recovery questions offered during setup.
var SecurityQuestions = []string{
	"What is your pet's name?",
	"What is your birth city?",
	"What is your favorite color?",
	"What is your mother's name?",
	"What was your first vehicle?",
	"What is your favorite food?",
	"What is your best friend's name?",
}

type SetupRequest struct {
	Password         string `json:"password" validate:"required,min=4"`
	SecurityQuestion string `json:"security_question" validate:"required"`
	SecurityAnswer   string `json:"security_answer" validate:"required"`
}

type LoginRequest struct {
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type RecoverRequest struct {
	Answer      string `json:"answer" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4"`
}

func StatusHandler(settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ready, err := isSetup(c.UserContext(), settings)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"is_setup":           ready,
			"security_questions": SecurityQuestions,
		})
	}
}

// SetupHandler stores the operator password and recovery answer once.
func SetupHandler(settings *store.SettingsStore, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		ready, err := isSetup(ctx, settings)
		if err != nil {
			return err
		}
		if ready {
			return fiber.NewError(fiber.StatusConflict, "authentication is already set up")
		}

		var body SetupRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}
		answer := normalizeAnswer(body.SecurityAnswer)
		fields := map[string]string{}
		if !knownQuestion(body.SecurityQuestion) {
			fields["security_question"] = "must be one of the offered questions"
		}
		if len(answer) < 2 {
			fields["security_answer"] = "must be at least 2 characters"
		}
		if len(fields) > 0 {
			return &utils.FieldsError{Message: "validation failed", Fields: fields}
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
		}
		answerHash, err := bcrypt.GenerateFromPassword([]byte(answer), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "answer could not be hashed")
		}

		err = settings.SetMany(ctx, map[string]string{
			models.SettingPasswordHash:       string(passwordHash),
			models.SettingSecurityQuestion:   body.SecurityQuestion,
			models.SettingSecurityAnswerHash: string(answerHash),
			models.SettingAuthSetup:          "true",
		})
		if err != nil {
			return err
		}

		return issueSession(c, cfg, false, fiber.StatusCreated)
	}
}

func LoginHandler(settings *store.SettingsStore, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		hash, ok, err := settings.Get(c.UserContext(), models.SettingPasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "authentication is not set up")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong password")
		}

		return issueSession(c, cfg, body.RememberMe, fiber.StatusOK)
	}
}

func SecurityQuestionHandler(settings *store.SettingsStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		question, ok, err := settings.Get(c.UserContext(), models.SettingSecurityQuestion)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no security question configured")
		}
		return c.JSON(fiber.Map{"question": question})
	}
}

// RecoverHandler resets the password after a correct recovery answer.
func RecoverHandler(settings *store.SettingsStore, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var body RecoverRequest
		if err := utils.BindJSON(c, &body); err != nil {
			return err
		}

		answerHash, ok, err := settings.Get(ctx, models.SettingSecurityAnswerHash)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "authentication is not set up")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(answerHash), []byte(normalizeAnswer(body.Answer))); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong answer")
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "password could not be hashed")
		}
		if err := settings.Set(ctx, models.SettingPasswordHash, string(passwordHash)); err != nil {
			return err
		}

		return issueSession(c, cfg, false, fiber.StatusOK)
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(CtxSessionKey).(*SessionClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "no session")
		}
		return c.JSON(fiber.Map{
			"session_id":  claims.ID,
			"remember_me": claims.RememberMe,
			"expires_at":  claims.ExpiresAt.Time,
		})
	}
}

func issueSession(c *fiber.Ctx, cfg *config.Config, rememberMe bool, status int) error {
	ttl := cfg.SessionTTL
	if rememberMe {
		ttl = cfg.RememberMeTTL
	}
	token, claims, err := GenerateToken(cfg.JWTSecret, ttl, rememberMe, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "token could not be created")
	}
	return c.Status(status).JSON(fiber.Map{
		"token":       token,
		"remember_me": rememberMe,
		"expires_at":  claims.ExpiresAt.Time,
	})
}

func isSetup(ctx context.Context, settings *store.SettingsStore) (bool, error) {
	v, _, err := settings.Get(ctx, models.SettingAuthSetup)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func knownQuestion(q string) bool {
	for _, known := range SecurityQuestions {
		if known == q {
			return true
		}
	}
	return false
}
