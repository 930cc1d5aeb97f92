package handler_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/forum-api/internal/dto"
)

func TestCommentHandlerCreateAndList(t *testing.T) {
	app := setupForumApp(t)

	topic := createTestTopic(t, app, "author-1", "Discussed topic", "Acme")

	req := asUser(jsonRequest(t, "POST", fmt.Sprintf("/api/v1/forum/topics/%d/comments", topic.ID), dto.CommentCreateRequest{
		Content: "solid writeup, congrats",
	}), "u2", "User Two", "student")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Success bool                `json:"success"`
		Data    dto.CommentResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)
	require.True(t, createBody.Success)
	require.Equal(t, topic.ID, createBody.Data.TopicID)
	require.Equal(t, "u2", createBody.Data.Author.UserID)

	// The topic counter reflects the new comment.
	getResp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/v1/forum/topics/%d", topic.ID), nil))
	require.NoError(t, err)
	var topicBody struct {
		Data dto.TopicResponse `json:"data"`
	}
	decodeResponse(t, getResp, &topicBody)
	require.Equal(t, int64(1), topicBody.Data.CommentsCount)

	listResp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/v1/forum/topics/%d/comments?limit=10", topic.ID), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var listBody struct {
		Success bool                    `json:"success"`
		Data    dto.CommentListResponse `json:"data"`
	}
	decodeResponse(t, listResp, &listBody)
	require.Len(t, listBody.Data.Comments, 1)
	require.False(t, listBody.Data.HasMore)
}

func TestCommentHandlerCreateRequiresAuth(t *testing.T) {
	app := setupForumApp(t)

	topic := createTestTopic(t, app, "author-1", "Locked down", "Acme")

	req := jsonRequest(t, "POST", fmt.Sprintf("/api/v1/forum/topics/%d/comments", topic.ID), dto.CommentCreateRequest{Content: "anonymous"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCommentHandlerCreateMissingTopic(t *testing.T) {
	app := setupForumApp(t)

	req := asUser(jsonRequest(t, "POST", "/api/v1/forum/topics/9999/comments", dto.CommentCreateRequest{Content: "ghost"}), "u2", "User Two", "student")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
