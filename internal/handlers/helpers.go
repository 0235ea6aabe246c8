package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/vidhub/backend/internal/models"
)

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Response projections. Embedded records expose only the fields the API
// documents, not the full row.

type ownerSummary struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

type videoSummary struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Duration *int   `json:"duration,omitempty"`
}

type userDetail struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Avatar    *string        `json:"avatar"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Videos    []videoSummary `json:"videos"`
}

type videoDetail struct {
	ID             uint          `json:"id"`
	Title          string        `json:"title"`
	Description    *string       `json:"description"`
	YoutubeVideoID string        `json:"youtubeVideoId"`
	Category       string        `json:"category"`
	Duration       int           `json:"duration"`
	UserID         uint          `json:"userId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	User           *ownerSummary `json:"user,omitempty"`
}

func toOwnerSummary(user *models.User) *ownerSummary {
	if user == nil {
		return nil
	}
	return &ownerSummary{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
}

func toUserDetail(user models.User, withDuration bool) userDetail {
	videos := make([]videoSummary, 0, len(user.Videos))
	for _, video := range user.Videos {
		summary := videoSummary{
			ID:       video.ID,
			Title:    video.Title,
			Category: video.Category,
		}
		if withDuration {
			duration := video.Duration
			summary.Duration = &duration
		}
		videos = append(videos, summary)
	}

	return userDetail{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Videos:    videos,
	}
}

func toVideoDetail(video models.Video) videoDetail {
	return videoDetail{
		ID:             video.ID,
		Title:          video.Title,
		Description:    video.Description,
		YoutubeVideoID: video.YoutubeVideoID,
		Category:       video.Category,
		Duration:       video.Duration,
		UserID:         video.UserID,
		CreatedAt:      video.CreatedAt,
		UpdatedAt:      video.UpdatedAt,
		User:           toOwnerSummary(video.User),
	}
}
