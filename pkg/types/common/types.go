// Package common holds the small value types shared by every atlas layer:
// identifiers, flat rows, attribution identities and API envelopes.
package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4 identifiers.
type ID string

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// Validate checks if the ID is a valid UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// Row is one flat record from the row store: string keys mapped to scalars
// (string, float64, int64, bool or nil).
type Row map[string]interface{}

// Clone returns a shallow copy of r. A nil row clones to an empty row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value at key rendered as a trimmed string; nil and
// missing values render as "".
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Identity is the attribution value produced by login: it is written into the
// author field of change-log and activity entries and carries no permissions.
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// AnonymousIdentity is used as author when a request carries no identity.
var AnonymousIdentity = Identity{Email: "", Name: "Anonymous", Initials: "?"}

// Author returns the display form stored in author columns.
func (i Identity) Author() string {
	switch {
	case i.Name != "" && i.Email != "":
		return fmt.Sprintf("%s <%s>", i.Name, i.Email)
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return AnonymousIdentity.Name
	}
}

// InitialsFor derives up to two upper-case initials from a display name.
func InitialsFor(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(firstRune(parts[0]))
	default:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[len(parts)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// LoginResult is the body returned by POST /auth/login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}

// SnapshotInfo describes one stored statistics export.
type SnapshotInfo struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportLink is a time-limited download URL for a snapshot.
type ExportLink struct {
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
	Snapshot  SnapshotInfo `json:"snapshot"`
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Offset returns the SQL OFFSET value.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the generic envelope for API responses.
type APIResponse[T any] struct {
	Data       T            `json:"data"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in an APIResponse.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{Data: data, Timestamp: time.Now().UTC()}
}

// NewPaginatedResponse wraps data with pagination metadata.
func NewPaginatedResponse[T any](data T, p Pagination) APIResponse[T] {
	return APIResponse[T]{Data: data, Pagination: &p, Timestamp: time.Now().UTC()}
}

// HealthStatus indicates the health of a component.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ContextKey is the type of request-context keys owned by this module.
type ContextKey string

const (
	// ContextKeyIdentity holds the caller's Identity.
	ContextKeyIdentity ContextKey = "identity"
	// ContextKeyRequestID holds the request id.
	ContextKeyRequestID ContextKey = "request_id"
)

//Personal.AI order the ending
