package strava

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stravanotion/internal/xslog"
)

type ActivityService interface {
	// List fetches one page of activities started after the given time.
	List(ctx context.Context, params *ListParams) ([]Activity, error)
	// ListAll walks every page of the window.
	ListAll(ctx context.Context, after time.Time) ([]Activity, error)
	// Get fetches the detail view of a single activity (photo reference).
	Get(ctx context.Context, id int64) (*ActivityDetail, error)
}

type ListParams struct {
	After   time.Time
	Page    int
	PerPage int
}

func (p *ListParams) values() url.Values {
	if p == nil {
		return nil
	}

	v := make(url.Values)
	if !p.After.IsZero() {
		v.Set("after", strconv.FormatInt(p.After.Unix(), 10))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v
}

const listPageSize = 200

type activityService struct {
	client *Client
}

func (s *activityService) List(ctx context.Context, params *ListParams) ([]Activity, error) {
	const route = "/athlete/activities"

	var activities []Activity
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *activityService) ListAll(ctx context.Context, after time.Time) ([]Activity, error) {
	var all []Activity
	for page := 1; ; page++ {
		batch, err := s.List(ctx, &ListParams{After: after, Page: page, PerPage: listPageSize})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		s.client.logger.Debug("fetched activity page",
			xslog.Count(len(batch)),
			xslog.Operation("activities.list"),
		)

		if len(batch) < listPageSize {
			break
		}
	}
	return all, nil
}

func (s *activityService) Get(ctx context.Context, id int64) (*ActivityDetail, error) {
	path := "/activities/" + strconv.FormatInt(id, 10)

	query := make(url.Values)
	query.Set("include_all_efforts", "false")
	query.Set("photo_sources", "true")

	var detail ActivityDetail
	if err := s.client.do(ctx, http.MethodGet, path, query, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
