package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
	appErrors "github.com/gistjackdaniel/filmWithAi-sub001/pkg/errors"
)

// LocationResolver maps a scene to its location group and real location via
// the external location registry. Implementations must be safe for
// concurrent use.
type LocationResolver interface {
	Resolve(ctx context.Context, projectID, sceneID string) (*models.SceneLocation, error)
}

// RegistryClient calls the filmWithAi location registry over HTTP.
type RegistryClient struct {
	baseURL    string
	token      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	logger     *zap.Logger
}

// NewRegistryClient builds a registry client from resolver configuration.
func NewRegistryClient(cfg config.ResolverConfig, logger *zap.Logger) *RegistryClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	return &RegistryClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type registryLocationPayload struct {
	RealLocationID struct {
		ID              string `json:"_id"`
		Name            string `json:"name"`
		LocationGroupID struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"locationGroupId"`
	} `json:"realLocationId"`
}

// Resolve fetches the scene's real-location assignment, retrying transient
// failures with a fixed backoff. Client errors (e.g. 404 for an unassigned
// scene) are returned immediately.
func (c *RegistryClient) Resolve(ctx context.Context, projectID, sceneID string) (*models.SceneLocation, error) {
	url := fmt.Sprintf("%s/projects/%s/contes/%s/real-location", c.baseURL, projectID, sceneID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		loc, retryable, err := c.fetch(ctx, url)
		if err == nil {
			return loc, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Warn("location lookup failed, retrying",
			zap.String("scene_id", sceneID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func (c *RegistryClient) fetch(ctx context.Context, url string) (*models.SceneLocation, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build registry request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("call location registry: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, appErrors.Clone(appErrors.ErrResolverFailure, fmt.Sprintf("registry returned %d", resp.StatusCode))
	default:
		return nil, false, appErrors.Clone(appErrors.ErrResolverFailure, fmt.Sprintf("registry returned %d", resp.StatusCode))
	}

	var payload registryLocationPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode registry response: %w", err)
	}
	if payload.RealLocationID.ID == "" || payload.RealLocationID.LocationGroupID.ID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrResolverFailure, "registry response missing location identifiers")
	}

	return &models.SceneLocation{
		LocationGroupID:  payload.RealLocationID.LocationGroupID.ID,
		RealLocationID:   payload.RealLocationID.ID,
		GroupName:        payload.RealLocationID.LocationGroupID.Name,
		RealLocationName: payload.RealLocationID.Name,
	}, false, nil
}

// Fallback returns the synthetic singleton group for a scene whose lookup
// failed. The group id embeds the scene number so failed lookups never
// cluster together.
func Fallback(sceneNumber int) models.SceneLocation {
	id := fmt.Sprintf("unknown_scene_%d", sceneNumber)
	return models.SceneLocation{
		LocationGroupID: id,
		RealLocationID:  id,
		GroupName:       models.LocationUnspecified,
	}
}
