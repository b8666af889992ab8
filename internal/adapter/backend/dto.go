package backend

import "github.com/pharaohs/pitchside/internal/domain"

// likeResponse is returned by the like and unlike routes
type likeResponse struct {
	Message   string `json:"message"`
	LikeCount *int   `json:"likeCount"`
}

type uploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (r uploadResponse) url() string {
	if r.Data.URL != "" {
		return r.Data.URL
	}
	return r.URL
}

type profileUpdateResponse struct {
	Message        string                `json:"message"`
	ProfileImage   string                `json:"profileImage"`
	UpdatedProfile *domain.PlayerProfile `json:"updatedProfile"`
}

type scoutUpdateResponse struct {
	Message string               `json:"message"`
	Scout   *domain.ScoutProfile `json:"scout"`
}

type statsResponse struct {
	Message string                  `json:"message"`
	Stats   domain.PerformanceStats `json:"stats"`
}

type unreadResponse struct {
	UnreadCount int `json:"unreadCount"`
}

type resetPasswordResponse struct {
	Message      string `json:"message"`
	TempPassword string `json:"tempPassword"`
}

type commentRequest struct {
	VideoID domain.ID `json:"videoId"`
	Content string    `json:"content"`
}

type likeRequest struct {
	VideoID domain.ID `json:"videoId"`
}

type shortlistRequest struct {
	PlayerID domain.ID `json:"player_id"`
}

type inviteRequest struct {
	TryoutID domain.ID `json:"tryout_id"`
	PlayerID domain.ID `json:"player_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

type locationRequest struct {
	Location string `json:"location"`
}
