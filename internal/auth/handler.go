package auth

import (
	"errors"
	"net/mail"
	"strings"

	"sawitku-backend/internal/audit"
	"sawitku-backend/internal/models"
	"sawitku-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ProfileResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	Phone     *string         `json:"phone"`
	AvatarURL *string         `json:"avatar_url"`
}

func toProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
	}
}

// validatePassword: minimal 8 karakter dan sama dengan konfirmasi.
func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return fiber.NewError(fiber.StatusBadRequest, "Password minimal 8 karakter")
	}
	if password != confirm {
		return fiber.NewError(fiber.StatusBadRequest, "Konfirmasi password tidak cocok")
	}
	return nil
}

func currentProfile(c *fiber.Ctx, db *gorm.DB) (*models.Profile, error) {
	userID, err := UserID(c)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	if err := db.WithContext(c.UserContext()).First(&p, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "User tidak dapat dimuat")
	}
	return &p, nil
}

// POST /api/auth/register
func RegisterHandler(db *gorm.DB, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.FullName = strings.TrimSpace(body.FullName)

		if body.Email == "" || body.FullName == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama, email dan password wajib diisi")
		}
		if _, err := mail.ParseAddress(body.Email); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Format email tidak valid")
		}
		if err := validatePassword(body.Password, body.ConfirmPassword); err != nil {
			return err
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password tidak dapat diproses")
		}

		p := models.Profile{
			Email:        body.Email,
			FullName:     body.FullName,
			Role:         models.RoleMandor,
			PasswordHash: hash,
		}
		if err := db.WithContext(c.UserContext()).Create(&p).Error; err != nil {
			if store.IsDuplicate(err, "email") {
				return fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "User tidak dapat dibuat")
		}

		logs.Record(c.UserContext(), audit.Entry{
			UserID:   p.ID,
			Action:   audit.ActionCreate,
			Table:    "profiles",
			RecordID: p.ID,
			After:    toProfileResponse(&p),
		})

		return c.Status(fiber.StatusCreated).JSON(toProfileResponse(&p))
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, secret string, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var p models.Profile
		if err := db.WithContext(c.UserContext()).Where("email = ?", body.Email).First(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}
		if !CheckPassword(p.PasswordHash, body.Password) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
		}

		token, err := GenerateToken(secret, &p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token tidak dapat dibuat")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: p.ID, Action: audit.ActionLogin, Table: "profiles", RecordID: p.ID})

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toProfileResponse(&p),
		})
	}
}

// POST /api/auth/logout
// Token stateless; client cukup membuang token. Di sini hanya dicatat.
func LogoutHandler(logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}
		logs.Record(c.UserContext(), audit.Entry{UserID: userID, Action: audit.ActionLogout, Table: "profiles", RecordID: userID})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := currentProfile(c, db)
		if err != nil {
			return err
		}
		return c.JSON(toProfileResponse(p))
	}
}

// PUT /api/auth/profile
func UpdateProfileHandler(db *gorm.DB, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := currentProfile(c, db)
		if err != nil {
			return err
		}
		before := toProfileResponse(p)

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		updates := map[string]any{}
		if body.FullName != nil {
			name := strings.TrimSpace(*body.FullName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nama tidak boleh kosong")
			}
			updates["full_name"] = name
		}
		if body.Phone != nil {
			phone := strings.TrimSpace(*body.Phone)
			if phone == "" {
				updates["phone"] = nil
			} else {
				updates["phone"] = phone
			}
		}
		if len(updates) == 0 {
			return c.JSON(before)
		}

		if err := db.WithContext(c.UserContext()).Model(p).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Profil tidak dapat diperbarui")
		}
		if err := db.WithContext(c.UserContext()).First(p, "id = ?", p.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Profil tidak dapat dimuat")
		}

		logs.Record(c.UserContext(), audit.Entry{
			UserID:   p.ID,
			Action:   audit.ActionUpdate,
			Table:    "profiles",
			RecordID: p.ID,
			Before:   before,
			After:    toProfileResponse(p),
		})
		return c.JSON(toProfileResponse(p))
	}
}

// POST /api/auth/password
func ChangePasswordHandler(db *gorm.DB, logs *audit.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := currentProfile(c, db)
		if err != nil {
			return err
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		if !CheckPassword(p.PasswordHash, body.OldPassword) {
			return fiber.NewError(fiber.StatusBadRequest, "Password lama salah")
		}
		if err := validatePassword(body.NewPassword, body.ConfirmPassword); err != nil {
			return err
		}

		hash, err := HashPassword(body.NewPassword)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password tidak dapat diproses")
		}
		if err := db.WithContext(c.UserContext()).Model(p).Update("password_hash", hash).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password tidak dapat diperbarui")
		}

		logs.Record(c.UserContext(), audit.Entry{UserID: p.ID, Action: audit.ActionUpdate, Table: "profiles", RecordID: p.ID})
		return c.JSON(fiber.Map{"message": "Password berhasil diperbarui"})
	}
}
