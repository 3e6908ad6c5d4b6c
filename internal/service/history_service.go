package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kopiscan/api/internal/classifier"
	"kopiscan/api/internal/ids"
	"kopiscan/api/internal/media/sniffer"
	"kopiscan/api/internal/models"
)

type PredictionStore interface {
	Create(ctx context.Context, p models.Prediction) error
	ListByUser(ctx context.Context, userID string) ([]models.Prediction, error)
	GetOwned(ctx context.Context, id string, userID string) (models.Prediction, error)
	DeleteOwned(ctx context.Context, id string, userID string) error
}

type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
	Remove(ctx context.Context, key string) error
}

// HistoryService owns the prediction ledger: each entry links a user, a
// stored image artifact and the classifier's label for it.
type HistoryService struct {
	predictions PredictionStore
	artifacts   ArtifactStore
	classify    classifier.Classifier
	log         zerolog.Logger
}

func NewHistoryService(predictions PredictionStore, artifacts ArtifactStore, cls classifier.Classifier, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		predictions: predictions,
		artifacts:   artifacts,
		classify:    cls,
		log:         log,
	}
}

type RecordResult struct {
	Prediction   models.Prediction
	DisplayLabel string
}

// Record stores the artifact, classifies it, then inserts the ledger row.
// The artifact goes first: a row must never reference an artifact that was
// not durably written. If classification or the insert fails afterwards the
// artifact is left behind for the orphan sweeper to reclaim.
func (s *HistoryService) Record(ctx context.Context, userID string, image []byte) (RecordResult, error) {
	sniffed, err := sniffer.Detect(image)
	if err != nil {
		return RecordResult{}, err
	}

	objectKey := fmt.Sprintf("%s.%s", uuid.NewString(), sniffed.Type)
	if err := s.artifacts.Put(ctx, objectKey, image, sniffed.MIME); err != nil {
		return RecordResult{}, err
	}

	rawLabel, err := s.classify.Classify(ctx, image)
	if err != nil {
		s.log.Warn().Err(err).Str("object_key", objectKey).Msg("classification failed, artifact orphaned")
		return RecordResult{}, err
	}

	prediction := models.Prediction{
		ID:        ids.New(),
		UserID:    userID,
		ObjectKey: objectKey,
		RawLabel:  rawLabel,
		SizeBytes: int64(len(image)),
	}
	if err := s.predictions.Create(ctx, prediction); err != nil {
		s.log.Warn().Err(err).Str("object_key", objectKey).Msg("ledger insert failed, artifact orphaned")
		return RecordResult{}, err
	}

	return RecordResult{
		Prediction:   prediction,
		DisplayLabel: classifier.DisplayLabel(rawLabel),
	}, nil
}

func (s *HistoryService) List(ctx context.Context, userID string) ([]models.Prediction, error) {
	return s.predictions.ListByUser(ctx, userID)
}

// Delete removes the entry after verifying ownership. The artifact removal
// is best-effort: the row is the user-facing source of truth, so its
// deletion proceeds even when storage misbehaves.
func (s *HistoryService) Delete(ctx context.Context, id string, userID string) error {
	prediction, err := s.predictions.GetOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.artifacts.Remove(ctx, prediction.ObjectKey); err != nil {
		s.log.Warn().Err(err).Str("object_key", prediction.ObjectKey).Msg("artifact removal failed")
	}

	return s.predictions.DeleteOwned(ctx, id, userID)
}

// Artifact streams back the stored image for an entry the user owns.
func (s *HistoryService) Artifact(ctx context.Context, id string, userID string) ([]byte, string, error) {
	prediction, err := s.predictions.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, "", err
	}
	return s.artifacts.Get(ctx, prediction.ObjectKey)
}
