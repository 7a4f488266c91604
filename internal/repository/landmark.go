package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rajaryan190/world-map/internal/domain/entities"
)

var (
	ErrLandmarkNotFound = errors.New("landmark not found")
	ErrEmptyDataset     = errors.New("landmark dataset is empty")
	ErrPlayerNotFound   = errors.New("player not found")
)

// LandmarkRepository provides read-only access to the landmark dataset loaded from JSON.
type LandmarkRepository struct {
	landmarks []entities.Landmark
	byID      map[int]int
}

// NewLandmarkRepository loads the dataset from path.
func NewLandmarkRepository(path string) (*LandmarkRepository, error) {
	landmarks, err := loadLandmarks(path)
	if err != nil {
		return nil, err
	}
	return NewLandmarkRepositoryFrom(landmarks)
}

// NewLandmarkRepositoryFrom wraps an already decoded dataset.
func NewLandmarkRepositoryFrom(landmarks []entities.Landmark) (*LandmarkRepository, error) {
	if len(landmarks) == 0 {
		return nil, ErrEmptyDataset
	}

	byID := make(map[int]int, len(landmarks))
	for i, l := range landmarks {
		if _, dup := byID[l.ID]; dup {
			return nil, fmt.Errorf("duplicate landmark id %d", l.ID)
		}
		byID[l.ID] = i
	}

	return &LandmarkRepository{landmarks: landmarks, byID: byID}, nil
}

// GetAll returns a copy of every landmark in dataset order.
func (r *LandmarkRepository) GetAll(_ context.Context) ([]entities.Landmark, error) {
	return append([]entities.Landmark(nil), r.landmarks...), nil
}

// GetByID retrieves a landmark by its dataset identifier.
func (r *LandmarkRepository) GetByID(_ context.Context, id int) (*entities.Landmark, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrLandmarkNotFound
	}
	l := r.landmarks[i]
	return &l, nil
}

// Len returns the dataset size.
func (r *LandmarkRepository) Len() int {
	return len(r.landmarks)
}

func loadLandmarks(path string) ([]entities.Landmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read landmarks: %w", err)
	}

	var wrapper struct {
		Landmarks []entities.Landmark `json:"landmarks"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal landmarks JSON: %w", err)
	}

	return wrapper.Landmarks, nil
}
