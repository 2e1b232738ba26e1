package strava

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type StreamService interface {
	// Get fetches the heartrate, time, and velocity series for one activity
	// in a single call.
	Get(ctx context.Context, activityID int64) (*Streams, error)
}

type streamService struct {
	client *Client
}

func (s *streamService) Get(ctx context.Context, activityID int64) (*Streams, error) {
	path := "/activities/" + strconv.FormatInt(activityID, 10) + "/streams"

	query := make(url.Values)
	query.Set("keys", "heartrate,time,velocity_smooth")
	query.Set("key_by_type", "true")

	var streams Streams
	if err := s.client.do(ctx, http.MethodGet, path, query, &streams); err != nil {
		return nil, err
	}
	return &streams, nil
}
