package models

// QueryPayload is the inbound trip-planning chat request. Not persisted.
type QueryPayload struct {
	UserQuery string                 `json:"user_query"`
	UserID    string                 `json:"user_id"`
	UserMeta  map[string]interface{} `json:"user_meta,omitempty"`
}

// ResolveUserID returns the top-level user_id, falling back to user_meta.user_id
// for clients that still send the identifier inside the metadata map.
func (p *QueryPayload) ResolveUserID() string {
	if p.UserID != "" {
		return p.UserID
	}
	if p.UserMeta == nil {
		return ""
	}
	if id, ok := p.UserMeta["user_id"].(string); ok {
		return id
	}
	return ""
}
