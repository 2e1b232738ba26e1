package strava

import (
	"context"
	"net/http"
)

type AthleteService interface {
	// Zones returns the athlete's configured heart-rate zone boundaries,
	// ordered from zone 1 upward. A nil slice with nil error means the
	// athlete has no HR zones configured.
	Zones(ctx context.Context) ([]ZoneRange, error)
}

type athleteService struct {
	client *Client
}

func (s *athleteService) Zones(ctx context.Context) ([]ZoneRange, error) {
	const route = "/athlete/zones"

	var resp struct {
		HeartRate struct {
			Zones []ZoneRange `json:"zones"`
		} `json:"heart_rate"`
	}
	if err := s.client.do(ctx, http.MethodGet, route, nil, &resp); err != nil {
		return nil, err
	}
	return resp.HeartRate.Zones, nil
}
