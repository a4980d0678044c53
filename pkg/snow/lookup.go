package snow

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/record"
	"github.com/clcollins/nowdesk/pkg/searchselect"
)

// Lookup searches a reference table for search-select candidates.
type Lookup struct {
	gateway   RecordGateway
	query     func(text string) string
	candidate func(r record.Record) searchselect.Candidate
}

// Search returns the candidates matching text. Records without an id are
// skipped so they can never be selected.
func (l *Lookup) Search(ctx context.Context, text string) ([]searchselect.Candidate, error) {
	records, err := l.gateway.List(ctx, map[string]string{"sysparm_query": l.query(text)})
	if err != nil {
		return nil, err
	}

	candidates := make([]searchselect.Candidate, 0, len(records))
	for _, r := range records {
		c := l.candidate(r)
		if c.ID == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	log.Debug("snow.Lookup.Search", "query", text, "candidates", len(candidates))
	return candidates, nil
}

// sanitizeQuery strips the encoded query separator so user text cannot add
// clauses of its own.
func sanitizeQuery(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "^", "")
}

// NewUserLookup searches users by name or user name.
func NewUserLookup(gw RecordGateway) *Lookup {
	return &Lookup{
		gateway: gw,
		query: func(text string) string {
			text = sanitizeQuery(text)
			return fmt.Sprintf("nameLIKE%s^ORuser_nameLIKE%s", text, text)
		},
		candidate: func(r record.Record) searchselect.Candidate {
			label := r.DisplayOr("name", "")
			if label == "" {
				label = r.DisplayOr("user_name", r.ID())
			}
			return searchselect.Candidate{
				ID:       r.ID(),
				Label:    label,
				Subtitle: r.DisplayOr("email", ""),
			}
		},
	}
}

// NewNotificationLookup searches subscribable notifications by name.
func NewNotificationLookup(gw RecordGateway) *Lookup {
	return &Lookup{
		gateway: gw,
		query: func(text string) string {
			q := "subscribable=true"
			if text = sanitizeQuery(text); text != "" {
				q += "^nameLIKE" + text
			}
			return q
		},
		candidate: func(r record.Record) searchselect.Candidate {
			return searchselect.Candidate{
				ID:       r.ID(),
				Label:    r.DisplayOr("name", r.ID()),
				Subtitle: r.DisplayOr("description", ""),
			}
		},
	}
}

// Subscription ties a user to a notification. Device is optional.
type Subscription struct {
	User         string
	Notification string
	Device       string
}

// SubscriptionGateway creates notification subscriptions.
type SubscriptionGateway struct {
	gateway RecordGateway
}

func NewSubscriptionGateway(gw RecordGateway) *SubscriptionGateway {
	return &SubscriptionGateway{gateway: gw}
}

// Create stores sub and returns the created record.
func (s *SubscriptionGateway) Create(ctx context.Context, sub Subscription) (record.Record, error) {
	if sub.User == "" || sub.Notification == "" {
		return nil, fmt.Errorf("snow.SubscriptionGateway.Create(): user and notification are required")
	}
	payload := map[string]any{
		"user":         sub.User,
		"notification": sub.Notification,
	}
	if sub.Device != "" {
		payload["device"] = sub.Device
	}
	return s.gateway.Create(ctx, payload)
}

// IncidentURL returns the platform UI address of an incident.
func IncidentURL(baseURL, id string) string {
	q := url.Values{}
	q.Set("sys_id", id)
	q.Set("sysparm_stack", "incident_list.do")
	return strings.TrimRight(baseURL, "/") + "/incident.do?" + q.Encode()
}
