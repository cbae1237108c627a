package dashboard

import (
	"context"
	"time"

	"github.com/httech/voltgo/internal/domain/alert"
	apperrors "github.com/httech/voltgo/internal/pkg/errors"
	"github.com/httech/voltgo/pkg/client"
)

const (
	// NoData is shown when a list has nothing to display
	NoData = "No data"

	// NoComments is shown for an empty or failed comment fetch
	NoComments = "No comments available"
)

// AlertSource starts alert fetches. *client.AlertService implements it.
type AlertSource interface {
	ListAsync(ctx context.Context) *client.Task[[]alert.Alert]
}

// CommentSource starts comment fetches. *client.AlertService implements it.
type CommentSource interface {
	CommentsAsync(ctx context.Context, alertID int64) *client.Task[[]alert.Comment]
}

// AlertList is the view model behind the alert list and the dashboard summary.
type AlertList struct {
	src    AlertSource
	state  latest[[]alert.Alert]
	filter alert.FilterState
}

// NewAlertList creates an empty list backed by src
func NewAlertList(src AlertSource) *AlertList {
	return &AlertList{src: src}
}

// Refresh starts a fetch. Only the most recent Refresh may update the list;
// the returned channel closes once its completion has been handled.
func (l *AlertList) Refresh(ctx context.Context) <-chan struct{} {
	gen, ctx, ok := l.state.start(ctx)
	if !ok {
		return closedChan()
	}
	return follow(ctx, &l.state, gen, l.src.ListAsync)
}

// Close detaches the list. Pending and future completions are ignored.
func (l *AlertList) Close() {
	l.state.close()
}

// SetFilter replaces the current selection
func (l *AlertList) SetFilter(f alert.FilterState) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.filter = f
}

// Filter returns the current selection
func (l *AlertList) Filter() alert.FilterState {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	return l.filter
}

// All returns the last successfully fetched collection, unfiltered
func (l *AlertList) All() []alert.Alert {
	alerts, _, _ := l.state.snapshot()
	return alerts
}

// Err returns the failure of the last completed fetch, if any
func (l *AlertList) Err() error {
	_, _, err := l.state.snapshot()
	return err
}

// Loaded reports whether any fetch has succeeded
func (l *AlertList) Loaded() bool {
	_, loaded, _ := l.state.snapshot()
	return loaded
}

// Visible returns the collection narrowed and ordered by the current filter
func (l *AlertList) Visible(now time.Time) []alert.Alert {
	return alert.Apply(l.All(), l.Filter(), now)
}

// Message is the line shown in place of rows: the fetch error, NoData for an
// empty selection, or "" when there are rows to show.
func (l *AlertList) Message(now time.Time) string {
	if err := l.Err(); err != nil {
		return ErrorMessage(err)
	}
	if len(l.Visible(now)) == 0 {
		return NoData
	}
	return ""
}

// AlertDetail is the view model of one alert and its comment thread.
type AlertDetail struct {
	Alert alert.Alert
	src   CommentSource
	state latest[[]alert.Comment]
}

// NewAlertDetail creates a detail view for a
func NewAlertDetail(a alert.Alert, src CommentSource) *AlertDetail {
	return &AlertDetail{Alert: a, src: src}
}

// Refresh starts a comment fetch for the alert
func (d *AlertDetail) Refresh(ctx context.Context) <-chan struct{} {
	gen, ctx, ok := d.state.start(ctx)
	if !ok {
		return closedChan()
	}
	return follow(ctx, &d.state, gen, func(ctx context.Context) *client.Task[[]alert.Comment] {
		return d.src.CommentsAsync(ctx, d.Alert.ID)
	})
}

// Close detaches the view
func (d *AlertDetail) Close() {
	d.state.close()
}

// Comments returns the fetched thread and the last fetch error
func (d *AlertDetail) Comments() ([]alert.Comment, error) {
	comments, _, err := d.state.snapshot()
	return comments, err
}

// CommentLines renders the thread, or NoComments when it is empty or failed to load
func (d *AlertDetail) CommentLines(loc *time.Location) []string {
	comments, err := d.Comments()
	if err != nil || len(comments) == 0 {
		return []string{NoComments}
	}
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, FormatComment(c, loc))
	}
	return lines
}

// ErrorMessage renders a fetch failure the way list views show it
func ErrorMessage(err error) string {
	return "Error: " + apperrors.FromFetch(err).Message
}
