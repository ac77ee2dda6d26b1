// Package session implements the per-request authorization core: the user
// profile model, the two-cookie session store, the route classifier, and the
// session gate middleware that ties them to the identity service.
package session

import (
	"encoding/json"
	"strconv"
	"time"
)

// User is the authenticated profile for one browser session. Canonical
// fields are extracted from the identity service payload with fallback
// defaults; Extra preserves every raw field the service returned so nothing
// is lost on the round-trip through the user cookie.
//
// A User without a valid token grants nothing; the gate only attaches it to
// request context alongside a token.
type User struct {
	Username   string
	ID         string
	Email      string
	Role       string
	OfficeCode string
	OfficeName string
	DeptCode   string
	DeptName   string
	DivCode    string
	DivName    string
	LoginTime  time.Time

	// Extra holds the raw service-supplied fields, which are authoritative
	// over the derived defaults when the profile is serialized.
	Extra map[string]any
}

// BuildUser constructs a profile from the raw identity service payload.
// Canonical fields come from the service when present; fallbackUsername is
// consulted only when the service did not supply one. The login time is
// stamped fresh.
func BuildUser(raw map[string]any, fallbackUsername string, now time.Time) User {
	u := User{
		Username:   stringField(raw, "username"),
		ID:         stringField(raw, "id"),
		Email:      stringField(raw, "email"),
		Role:       stringField(raw, "groupName"),
		OfficeCode: stringField(raw, "officeCode"),
		OfficeName: stringField(raw, "officeName"),
		DeptCode:   stringField(raw, "deptCode"),
		DeptName:   stringField(raw, "deptName"),
		DivCode:    stringField(raw, "divCode"),
		DivName:    stringField(raw, "divName"),
		LoginTime:  now.UTC(),
		Extra:      cloneMap(raw),
	}
	if u.Username == "" {
		u.Username = fallbackUsername
	}
	return u
}

// BasicUser constructs the minimal profile used when the identity service
// returns no profile at login.
func BasicUser(username string, now time.Time) User {
	return User{
		Username:  username,
		LoginTime: now.UTC(),
		Extra:     map[string]any{"username": username, "name": username},
	}
}

// MarshalJSON flattens the profile: derived defaults first, then every raw
// service field on top (the service is authoritative), then a fresh
// loginTime stamp.
func (u User) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"username":   u.Username,
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"officecode": u.OfficeCode,
		"officename": u.OfficeName,
		"deptcode":   u.DeptCode,
		"deptname":   u.DeptName,
		"divcode":    u.DivCode,
		"divname":    u.DivName,
	}
	for k, v := range u.Extra {
		out[k] = v
	}
	out["loginTime"] = u.LoginTime.UTC().Format(time.RFC3339)
	return json.Marshal(out)
}

// UnmarshalJSON restores a profile previously written by MarshalJSON. The
// derived fields are re-extracted from the flattened map so a decode/encode
// cycle is stable.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	loginTime := time.Time{}
	if s, ok := raw["loginTime"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			loginTime = t
		}
	}
	delete(raw, "loginTime")

	*u = User{
		Username:   firstString(raw, "username"),
		ID:         firstString(raw, "id"),
		Email:      firstString(raw, "email"),
		Role:       firstString(raw, "role", "groupName"),
		OfficeCode: firstString(raw, "officecode", "officeCode"),
		OfficeName: firstString(raw, "officename", "officeName"),
		DeptCode:   firstString(raw, "deptcode", "deptCode"),
		DeptName:   firstString(raw, "deptname", "deptName"),
		DivCode:    firstString(raw, "divcode", "divCode"),
		DivName:    firstString(raw, "divname", "divName"),
		LoginTime:  loginTime,
		Extra:      raw,
	}
	return nil
}

// DisplayID returns the "<id> - <USERNAME>" string shown on planogram pages.
func (u User) DisplayID() string {
	if u.ID == "" {
		return ""
	}
	return u.ID + " - " + upper(u.Username)
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// stringField coerces a JSON value to its string form. Numbers are
// formatted without an exponent so numeric IDs survive as readable strings.
func stringField(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	return coerceString(raw[key])
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
