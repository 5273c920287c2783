package database

import "net/url"

// RedactURI hides the password of a connection string for logging.
func RedactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
