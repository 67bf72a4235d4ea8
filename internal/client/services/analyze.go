package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/imagestore"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// PathResults is where a finished analysis sends the user.
const PathResults = "/results"

// maxImageSize caps uploads; the analysis service refuses larger bodies anyway.
const maxImageSize = 16 << 20

// AnalyzeService runs one image through the analysis service and records
// the outcome. History is only touched after a successful response.
type AnalyzeService struct {
	api      client.AnalysisAPI
	history  *HistoryStore
	images   imagestore.Store
	nav      Navigator
	notifier Notifier
	log      logging.Logger
	now      func() time.Time
	newID    func() string
}

func NewAnalyzeService(api client.AnalysisAPI, history *HistoryStore, images imagestore.Store, nav Navigator, notifier Notifier, log logging.Logger) *AnalyzeService {
	if log == nil {
		log = logging.Nop()
	}
	return &AnalyzeService{
		api:      api,
		history:  history,
		images:   images,
		nav:      nav,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Analyze uploads the image at imagePath and records the result.
func (s *AnalyzeService) Analyze(ctx context.Context, imagePath string) (models.CurrentResult, error) {
	data, err := readImage(imagePath)
	if err != nil {
		return models.CurrentResult{}, err
	}
	name := filepath.Base(imagePath)

	resp, err := s.api.Analyze(ctx, name, data)
	if err == nil && resp.AQI < 0 {
		err = &client.APIError{Kind: client.ErrUnavailable, Message: fmt.Sprintf("analysis response has negative aqi %d", resp.AQI)}
	}
	if err != nil {
		s.log.Warn(ctx, "analysis failed", "file", name, "error", err)
		s.publish(models.NotificationError, "Analysis failed", client.Message(err, "Failed to analyze image"))
		return models.CurrentResult{}, fmt.Errorf("analyze: %w", err)
	}

	result := models.AnalysisResult{
		ID:        s.newID(),
		AQI:       resp.AQI,
		Category:  resp.Category,
		HazeLevel: models.HazeLevelFor(resp.AQI),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	ref := s.archive(ctx, imagePath, name, data)

	cur, err := s.history.Record(ctx, result, ref)
	if err != nil {
		s.log.Error(ctx, "record result failed", "result_id", result.ID, "error", err)
		s.publish(models.NotificationError, "Analysis failed", "The result could not be saved")
		return models.CurrentResult{}, err
	}

	s.log.Info(ctx, "analysis recorded", "result_id", result.ID, "aqi", result.AQI)
	s.publish(models.NotificationSuccess, "Analysis complete", fmt.Sprintf("AQI %d (%s)", result.AQI, result.Category))
	if s.nav != nil {
		s.nav.Navigate(PathResults)
	}
	return cur, nil
}

// archive falls back to the original path when no store is configured or
// the copy fails.
func (s *AnalyzeService) archive(ctx context.Context, imagePath, name string, data []byte) string {
	fallback, err := filepath.Abs(imagePath)
	if err != nil {
		fallback = imagePath
	}
	if s.images == nil {
		return fallback
	}
	ref, err := s.images.Put(ctx, name, data)
	if err != nil {
		s.log.Warn(ctx, "image archive failed, keeping local path", "error", err)
		return fallback
	}
	return ref
}

func (s *AnalyzeService) publish(kind models.NotificationKind, title, body string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(models.Notification{Title: title, Body: body, Kind: kind})
}

func readImage(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, client.NewValidationError("image", "is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, client.NewValidationError("image", "file not found")
		}
		return nil, client.NewValidationError("image", err.Error())
	}
	if info.IsDir() {
		return nil, client.NewValidationError("image", "is a directory")
	}
	if info.Size() == 0 {
		return nil, client.NewValidationError("image", "file is empty")
	}
	if info.Size() > maxImageSize {
		return nil, client.NewValidationError("image", fmt.Sprintf("file is larger than %d MB", maxImageSize>>20))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, client.NewValidationError("image", err.Error())
	}
	return data, nil
}
