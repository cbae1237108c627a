package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// alertWire mirrors the alert JSON object. Pointers distinguish a missing key
// from a zero value so absent fields fail the whole response.
type alertWire struct {
	ID          *int64  `json:"id" validate:"required"`
	Category    *string `json:"category" validate:"required"`
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Severity    *string `json:"severity" validate:"required,min=1"`
	Status      *string `json:"status" validate:"required,min=1"`
	Customer    *string `json:"customer" validate:"required"`
	Source      *string `json:"source" validate:"required"`
	SourceRef   *string `json:"source_ref" validate:"required"`
	Rule        *string `json:"rule" validate:"required"`
	Tags        *string `json:"tags" validate:"required"`
	References  *string `json:"references" validate:"required"`
	ClosureCode *string `json:"closure_code"`
	Date        *string `json:"date"`
	CreatedBy   *string `json:"created_by" validate:"required"`
	UpdatedBy   *string `json:"updated_by" validate:"required"`
	CreatedAt   *string `json:"created_at" validate:"required"`
	UpdatedAt   *string `json:"updated_at" validate:"required"`
}

type commentWire struct {
	ID        *int64  `json:"id" validate:"required"`
	AlertID   *int64  `json:"alert_id" validate:"required"`
	CreatedAt *string `json:"created_at" validate:"required"`
	Email     *string `json:"email" validate:"required"`
	Username  *string `json:"username" validate:"required"`
	Text      *string `json:"text" validate:"required"`
}

// splitArray decodes the top level JSON array without touching the records.
func splitArray(body []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Index: -1, Err: errors.New("expected a JSON array, got null")}
	}
	return raw, nil
}

// duplicateID reports a record whose id was already seen in the same response.
func duplicateID(seen map[int64]struct{}, index int, id int64) error {
	if _, ok := seen[id]; ok {
		return &DecodeError{Index: index, Field: "id", Err: fmt.Errorf("duplicate id %d", id)}
	}
	seen[id] = struct{}{}
	return nil
}

// decodeRecord unmarshals one record into a wire struct and checks required fields.
func decodeRecord(index int, data []byte, into interface{}) error {
	if err := json.Unmarshal(data, into); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DecodeError{Index: index, Field: typeErr.Field, Err: err}
		}
		return &DecodeError{Index: index, Err: err}
	}
	if err := schema.Struct(into); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &DecodeError{Index: index, Field: fe.Field(), Err: fmt.Errorf("failed %q constraint", fe.Tag())}
		}
		return &DecodeError{Index: index, Err: err}
	}
	return nil
}

func (c *Client) decodeAlerts(body []byte) ([]Alert, error) {
	raw, err := splitArray(body)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for i, data := range raw {
		var w alertWire
		if err := decodeRecord(i, data, &w); err != nil {
			return nil, err
		}
		if err := duplicateID(seen, i, *w.ID); err != nil {
			return nil, err
		}

		createdAt, err := c.ParseTimestamp(*w.CreatedAt)
		if err != nil {
			return nil, &DecodeError{Index: i, Field: "created_at", Err: err}
		}
		updatedAt, err := c.ParseTimestamp(*w.UpdatedAt)
		if err != nil {
			return nil, &DecodeError{Index: i, Field: "updated_at", Err: err}
		}

		a := Alert{
			ID:          *w.ID,
			Category:    *w.Category,
			Title:       *w.Title,
			Description: *w.Description,
			Severity:    *w.Severity,
			Status:      *w.Status,
			Customer:    *w.Customer,
			Source:      *w.Source,
			SourceRef:   *w.SourceRef,
			Rule:        *w.Rule,
			Tags:        *w.Tags,
			References:  *w.References,
			ClosureCode: w.ClosureCode,
			CreatedBy:   *w.CreatedBy,
			UpdatedBy:   *w.UpdatedBy,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		}
		if w.Date != nil {
			a.Date = *w.Date
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func decodeComments(body []byte, alertID int64) ([]Comment, error) {
	raw, err := splitArray(body)
	if err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for i, data := range raw {
		var w commentWire
		if err := decodeRecord(i, data, &w); err != nil {
			return nil, err
		}
		if err := duplicateID(seen, i, *w.ID); err != nil {
			return nil, err
		}
		if *w.AlertID != alertID {
			return nil, &DecodeError{
				Index: i,
				Field: "alert_id",
				Err:   fmt.Errorf("comment belongs to alert %d, requested %d", *w.AlertID, alertID),
			}
		}
		comments = append(comments, Comment{
			ID:        *w.ID,
			AlertID:   *w.AlertID,
			CreatedAt: *w.CreatedAt,
			Email:     *w.Email,
			Username:  *w.Username,
			Text:      *w.Text,
		})
	}
	return comments, nil
}
