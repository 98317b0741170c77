package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers records with regulatory significance, such as
	// a recommendation handed to an applicant.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// failed logins, denied admin access, rate limit violations.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// UserID is the authenticated user when there is one.
	UserID string
	// Subject is the entity the event is about: an email on login, a
	// recommendation ID on submission, an IP on rate limiting.
	Subject   string
	Action    string
	Decision  string
	Reason    string
	IP        string
	RequestID string
}

type AuditEvent string

const (
	// Auth events
	EventLoginSucceeded    AuditEvent = "login_succeeded"
	EventLoginFailed       AuditEvent = "login_failed"
	EventAdminAccessDenied AuditEvent = "admin_access_denied"
	EventAdminProvisioned  AuditEvent = "admin_provisioned"

	// Recommendation events
	EventRecommendationCreated AuditEvent = "recommendation_created"

	// Rate limit events
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRecommendationCreated: CategoryCompliance,
	EventAdminProvisioned:      CategoryCompliance,

	EventLoginFailed:       CategorySecurity,
	EventAdminAccessDenied: CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,

	EventLoginSucceeded: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store is a sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what domain services depend on. Emission is best-effort: callers
// log a failure and carry on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
