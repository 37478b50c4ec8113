package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// BuildKey produces the object key for an uploaded media file:
// {resourceType}/user-{userID}/{uuid}{ext}. Grouping by resource type
// and owner keeps buckets browsable and deletes scoped.
func BuildKey(resourceType string, userID uint, originalFilename string) string {
	ext := strings.ToLower(path.Ext(originalFilename))
	return fmt.Sprintf("%s/user-%d/%s%s", resourceType, userID, uuid.NewString(), ext)
}

// keyFromURL recovers the object key from a public URL produced by a
// Put with the given base URL. The base prefix is stripped first so that
// bases carrying a path of their own (local "/uploads", path-style S3
// endpoints) do not leak into the key. URLs that cannot be parsed map
// to an empty string.
func keyFromURL(rawURL, baseURL string) string {
	if rawURL == "" {
		return ""
	}
	if baseURL != "" && strings.HasPrefix(rawURL, baseURL+"/") {
		return unescapeKey(strings.TrimPrefix(rawURL, baseURL+"/"))
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return unescapeKey(strings.TrimPrefix(u.Path, "/"))
}

func unescapeKey(key string) string {
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
