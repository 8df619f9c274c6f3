package dto

import (
	"time"

	"github.com/unimanage/unimanage-api/internal/models"
)

// CommentCreateRequest describes the payload for adding a comment.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentResponse is the serialized comment representation.
type CommentResponse struct {
	ID        uint      `json:"id"`
	Project   uint      `json:"project"`
	User      uint      `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCommentResponse converts a model into a DTO.
func NewCommentResponse(model models.Comment) CommentResponse {
	return CommentResponse{
		ID:        model.ID,
		Project:   model.ProjectID,
		User:      model.UserID,
		Text:      model.Text,
		Timestamp: model.CreatedAt,
	}
}

// NewCommentResponseSlice converts a slice of models into DTOs.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}

	return responses
}
