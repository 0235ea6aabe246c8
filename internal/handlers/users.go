package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vidhub/backend/internal/middleware"
	"github.com/vidhub/backend/internal/models"
	"github.com/vidhub/backend/internal/storage"
	"github.com/vidhub/backend/pkg/logger"
	"github.com/vidhub/backend/pkg/utils"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB            *gorm.DB
	Store         storage.Store
	MaxAvatarSize int64
}

func NewUsersHandler(db *gorm.DB, store storage.Store, maxAvatarSize int64) *UsersHandler {
	return &UsersHandler{DB: db, Store: store, MaxAvatarSize: maxAvatarSize}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	var users []models.User
	err := h.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "category", "user_id")
		}).
		Find(&users).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed retrieving users")
	}

	details := make([]userDetail, 0, len(users))
	for _, user := range users {
		details = append(details, toUserDetail(user, false))
	}

	return utils.Success(c, fiber.StatusOK, "Users retrieved successfully", details)
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var user models.User
	err = h.DB.
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "category", "duration", "user_id")
		}).
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed retrieving user")
	}

	return utils.Success(c, fiber.StatusOK, "User retrieved successfully", toUserDetail(user, true))
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

func (h *UsersHandler) Update(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	// The URL alone decides ownership here, so a foreign id is rejected
	// before any lookup; the caller learns nothing about its existence.
	currentUser := middleware.GetCurrentUser(c)
	if currentUser.ID != userID {
		return utils.Error(c, fiber.StatusForbidden, "You can only update your own profile")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if violations := utils.ValidateStruct(req); violations != nil {
		return utils.ValidationFailed(c, violations)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		value := strings.TrimSpace(*req.Name)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "Name cannot be empty")
		}
		updates["name"] = value
	}
	if req.Email != nil && *req.Email != currentUser.Email {
		var existing models.User
		if err := h.DB.First(&existing, "email = ?", *req.Email).Error; err == nil {
			return utils.Error(c, fiber.StatusBadRequest, "Email is already in use")
		}
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "Failed updating user")
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "No valid fields to update")
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusBadRequest, "Email is already in use")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed updating user")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed updating user")
	}

	return utils.Success(c, fiber.StatusOK, "User updated successfully", user)
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	currentUser := middleware.GetCurrentUser(c)
	if currentUser.ID != userID {
		return utils.Error(c, fiber.StatusForbidden, "You can only delete your own profile")
	}

	// Avatar removal is best-effort; a missing file never blocks the delete.
	if currentUser.Avatar != nil {
		if err := h.Store.Remove(c.Context(), *currentUser.Avatar); err != nil {
			logger.Warn("avatar_remove_failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	// Owned videos go with the user via the ON DELETE CASCADE constraint.
	if err := h.DB.Delete(&models.User{}, userID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed deleting user")
	}

	logger.Info("user_deleted", map[string]interface{}{
		"user_id": userID,
	})

	return utils.Success(c, fiber.StatusOK, "User deleted successfully", nil)
}

func (h *UsersHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	currentUser := middleware.GetCurrentUser(c)
	if currentUser.ID != userID {
		return utils.Error(c, fiber.StatusForbidden, "You can only update your own avatar")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "No file uploaded")
	}
	if file.Size > h.MaxAvatarSize {
		return utils.Error(c, fiber.StatusBadRequest, "File too large. Maximum size is 5MB.")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return utils.Error(c, fiber.StatusBadRequest, "Only image files are allowed")
	}

	source, err := file.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed storing avatar")
	}
	defer source.Close()

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	avatarPath, err := h.Store.Save(c.Context(), filename, source, file.Size, contentType)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed storing avatar")
	}

	if currentUser.Avatar != nil {
		if err := h.Store.Remove(c.Context(), *currentUser.Avatar); err != nil {
			logger.Warn("avatar_remove_failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar", avatarPath).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed storing avatar")
	}

	currentUser.Avatar = &avatarPath
	return utils.Success(c, fiber.StatusOK, "Avatar uploaded successfully", currentUser)
}
