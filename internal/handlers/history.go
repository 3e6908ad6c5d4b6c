package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kopiscan/api/internal/classifier"
	"kopiscan/api/internal/media/sniffer"
	"kopiscan/api/internal/repository"
	"kopiscan/api/internal/storage"
)

const maxUploadBytes = 10 << 20

func (h HandlerSet) Predict(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file too large"})
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "could not read file"})
		return
	}
	if len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "empty file"})
		return
	}

	result, err := h.history.Record(c.Request.Context(), user.ID, image)
	if err != nil {
		switch {
		case errors.Is(err, sniffer.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unsupported image type"})
		case errors.Is(err, classifier.ErrInference):
			h.log.Error().Err(err).Str("user_id", user.ID).Msg("inference failed")
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "classification failed"})
		default:
			h.log.Error().Err(err).Str("user_id", user.ID).Msg("predict failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "prediction failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "prediction successful",
		"prediction": result.DisplayLabel,
		"record": gin.H{
			"id":         result.Prediction.ID,
			"image":      result.Prediction.ObjectKey,
			"created_at": result.Prediction.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (h HandlerSet) ListHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	predictions, err := h.history.List(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("list history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not load history"})
		return
	}

	items := make([]gin.H, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, gin.H{
			"id":            p.ID,
			"image":         p.ObjectKey,
			"label":         p.RawLabel,
			"display_label": classifier.DisplayLabel(p.RawLabel),
			"created_at":    p.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": items})
}

func (h HandlerSet) DeleteHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	err := h.history.Delete(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPredictionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "history entry not found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("delete history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not delete history entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "history entry deleted"})
}

func (h HandlerSet) HistoryArtifact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	data, contentType, err := h.history.Artifact(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrPredictionNotFound) || errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "history entry not found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("fetch artifact failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not load image"})
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
