package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vidhub/backend/internal/middleware"
	"github.com/vidhub/backend/internal/models"
	"github.com/vidhub/backend/pkg/logger"
	"github.com/vidhub/backend/pkg/utils"
	"gorm.io/gorm"
)

type VideosHandler struct {
	DB *gorm.DB
}

func NewVideosHandler(db *gorm.DB) *VideosHandler {
	return &VideosHandler{DB: db}
}

type createVideoRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=255"`
	Description    *string `json:"description"`
	YoutubeVideoID string  `json:"youtubeVideoId" validate:"required"`
	Category       string  `json:"category" validate:"required"`
	Duration       *int    `json:"duration" validate:"required,min=0"`
}

func (h *VideosHandler) Create(c *fiber.Ctx) error {
	var req createVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if violations := utils.ValidateStruct(req); violations != nil {
		return utils.ValidationFailed(c, violations)
	}

	currentUser := middleware.GetCurrentUser(c)

	video := models.Video{
		Title:          req.Title,
		Description:    req.Description,
		YoutubeVideoID: req.YoutubeVideoID,
		Category:       req.Category,
		Duration:       *req.Duration,
		UserID:         currentUser.ID,
	}
	if err := h.DB.Create(&video).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed creating video")
	}

	if err := h.DB.Preload("User").First(&video, "id = ?", video.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed creating video")
	}

	logger.InfoWithUser(strconv.FormatUint(uint64(currentUser.ID), 10), "video_created", map[string]interface{}{
		"video_id": video.ID,
		"category": video.Category,
	})

	return utils.Success(c, fiber.StatusCreated, "Video created successfully", toVideoDetail(video))
}

func (h *VideosHandler) List(c *fiber.Ctx) error {
	search := strings.TrimSpace(c.Query("search"))
	category := strings.TrimSpace(c.Query("category"))

	query := h.DB.Model(&models.Video{}).Preload("User")
	if search != "" {
		searchValue := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			searchValue,
			searchValue,
		)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var videos []models.Video
	if err := query.Order("created_at DESC").Find(&videos).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed retrieving videos")
	}

	details := make([]videoDetail, 0, len(videos))
	for _, video := range videos {
		details = append(details, toVideoDetail(video))
	}

	return utils.Success(c, fiber.StatusOK, "Videos retrieved successfully", details)
}

func (h *VideosHandler) Get(c *fiber.Ctx) error {
	videoID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid video id")
	}

	var video models.Video
	if err := h.DB.Preload("User").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Video not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed retrieving video")
	}

	return utils.Success(c, fiber.StatusOK, "Video retrieved successfully", toVideoDetail(video))
}

type updateVideoRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string `json:"description"`
	YoutubeVideoID *string `json:"youtubeVideoId"`
	Category       *string `json:"category"`
	Duration       *int    `json:"duration" validate:"omitempty,min=0"`
}

func (h *VideosHandler) Update(c *fiber.Ctx) error {
	videoID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid video id")
	}

	// Ownership lives on the row, so the row is loaded first: a missing
	// video is 404, someone else's video is 403.
	var video models.Video
	if err := h.DB.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Video not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed updating video")
	}

	currentUser := middleware.GetCurrentUser(c)
	if video.UserID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, "Unauthorized. You can only update your own videos.")
	}

	var req updateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if violations := utils.ValidateStruct(req); violations != nil {
		return utils.ValidationFailed(c, violations)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "Title cannot be empty")
		}
		updates["title"] = value
	}
	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed == "" {
			updates["description"] = nil
		} else {
			updates["description"] = *req.Description
		}
	}
	if req.YoutubeVideoID != nil {
		value := strings.TrimSpace(*req.YoutubeVideoID)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "YoutubeVideoId cannot be empty")
		}
		updates["youtube_video_id"] = value
	}
	if req.Category != nil {
		value := strings.TrimSpace(*req.Category)
		if value == "" {
			return utils.Error(c, fiber.StatusBadRequest, "Category cannot be empty")
		}
		updates["category"] = value
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "No valid fields to update")
	}

	if err := h.DB.Model(&video).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed updating video")
	}

	if err := h.DB.Preload("User").First(&video, "id = ?", videoID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed updating video")
	}

	return utils.Success(c, fiber.StatusOK, "Video updated successfully", toVideoDetail(video))
}

func (h *VideosHandler) Delete(c *fiber.Ctx) error {
	videoID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid video id")
	}

	var video models.Video
	if err := h.DB.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Video not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Failed deleting video")
	}

	currentUser := middleware.GetCurrentUser(c)
	if video.UserID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, "Unauthorized. You can only delete your own videos.")
	}

	if err := h.DB.Delete(&video).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Failed deleting video")
	}

	logger.InfoWithUser(strconv.FormatUint(uint64(currentUser.ID), 10), "video_deleted", map[string]interface{}{
		"video_id": videoID,
	})

	return utils.Success(c, fiber.StatusOK, "Video deleted successfully", nil)
}
