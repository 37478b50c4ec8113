package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	key := BuildKey("characters", 42, "portrait.PNG")

	assert.True(t, strings.HasPrefix(key, "characters/user-42/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	// Generated names must not collide between calls.
	other := BuildKey("characters", 42, "portrait.PNG")
	assert.NotEqual(t, key, other)
}

func TestBuildKeyNoExtension(t *testing.T) {
	key := BuildKey("blogs", 7, "cover")

	assert.True(t, strings.HasPrefix(key, "blogs/user-7/"))
	assert.False(t, strings.Contains(key[len("blogs/user-7/"):], "."))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		base string
		want string
	}{
		{
			name: "s3 url",
			url:  "https://my-bucket.s3.us-east-1.amazonaws.com/characters/user-1/abc.png",
			base: "https://my-bucket.s3.us-east-1.amazonaws.com",
			want: "characters/user-1/abc.png",
		},
		{
			name: "encoded path",
			url:  "https://my-bucket.s3.us-east-1.amazonaws.com/blogs/user-2/a%20b.png",
			base: "https://my-bucket.s3.us-east-1.amazonaws.com",
			want: "blogs/user-2/a b.png",
		},
		{
			name: "local url keeps only the key below the base path",
			url:  "/uploads/users/user-3/avatar.jpg",
			base: "/uploads",
			want: "users/user-3/avatar.jpg",
		},
		{
			name: "path-style endpoint base",
			url:  "https://minio.test:9000/my-bucket/blogs/user-4/cover.jpg",
			base: "https://minio.test:9000/my-bucket",
			want: "blogs/user-4/cover.jpg",
		},
		{
			name: "foreign url falls back to the url path",
			url:  "https://elsewhere.test/characters/user-1/abc.png",
			base: "https://my-bucket.s3.us-east-1.amazonaws.com",
			want: "characters/user-1/abc.png",
		},
		{
			name: "empty",
			url:  "",
			base: "/uploads",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyFromURL(tt.url, tt.base))
		})
	}
}
