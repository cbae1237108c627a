package client

import (
	"context"
	"fmt"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// List retrieves every alert from the configured alerts endpoint
func (s *AlertService) List(ctx context.Context) ([]Alert, error) {
	return s.Fetch(ctx, s.client.alertsURL)
}

// Fetch retrieves alerts from an explicit endpoint URL.
// Any record that fails to decode invalidates the whole response.
func (s *AlertService) Fetch(ctx context.Context, endpoint string) ([]Alert, error) {
	body, err := s.client.get(ctx, endpoint, "alerts")
	if err != nil {
		return nil, err
	}

	alerts, err := s.client.decodeAlerts(body)
	decoded("alerts", err)
	if err != nil {
		s.client.log.WithError(err).Warn("Failed to decode alerts")
		return nil, err
	}

	s.client.log.With("count", len(alerts)).Debug("Alerts fetched")
	return alerts, nil
}

// ListAsync starts List in the background
func (s *AlertService) ListAsync(ctx context.Context) *Task[[]Alert] {
	return Go(ctx, s.List)
}

// Comments retrieves the comment thread of a single alert
func (s *AlertService) Comments(ctx context.Context, alertID int64) ([]Comment, error) {
	endpoint := fmt.Sprintf("%s/%d/comments", s.client.commentsURL, alertID)

	body, err := s.client.get(ctx, endpoint, "comments")
	if err != nil {
		return nil, err
	}

	comments, err := decodeComments(body, alertID)
	decoded("comments", err)
	if err != nil {
		s.client.log.WithError(err).With("alert_id", alertID).Warn("Failed to decode comments")
		return nil, err
	}
	return comments, nil
}

// CommentsAsync starts Comments in the background
func (s *AlertService) CommentsAsync(ctx context.Context, alertID int64) *Task[[]Comment] {
	return Go(ctx, func(ctx context.Context) ([]Comment, error) {
		return s.Comments(ctx, alertID)
	})
}
