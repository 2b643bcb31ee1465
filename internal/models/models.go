package models

// User represents a tapelist account as returned by the auth endpoints.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserRef is the compact owner reference embedded in playlist payloads.
type UserRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Tag represents a playlist tag.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video represents an embedded short-form video within a playlist.
type Video struct {
	ID              int    `json:"id"`
	Title           string `json:"title,omitempty"`
	TikTokURL       string `json:"tiktok_url"`
	TikTokID        string `json:"tiktok_id"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	CustomThumbnail string `json:"custom_thumbnail,omitempty"`
	Playlist        int    `json:"playlist,omitempty"`
	AddedAt         string `json:"added_at,omitempty"`
	Order           int    `json:"order"`
}

// Playlist represents a playlist snapshot from any listing or detail endpoint.
//
// Detail payloads include Videos; listing payloads may omit them.
type Playlist struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	CoverImage  string  `json:"cover_image,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	IsPublic    bool    `json:"is_public"`
	User        UserRef `json:"user"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	Videos      []Video `json:"videos,omitempty"`
	Tags        []Tag   `json:"tags,omitempty"`
	VideoCount  int     `json:"video_count"`
	LikeCount   int     `json:"like_count"`
	IsLiked     bool    `json:"is_liked"`
	ViewCount   int     `json:"view_count"`
	ShareCount  int     `json:"share_count"`
}

// Follow represents a follow relationship between two users.
type Follow struct {
	ID       int   `json:"id"`
	Follower int   `json:"follower"`
	Followed int   `json:"followed"`
	Detail   *User `json:"followed_detail,omitempty"`
}

// TokenPair is the credential pair returned by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// PlaylistInput is the payload for creating or updating a playlist.
type PlaylistInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags,omitempty"`
	CoverImage  string   `json:"-"` // local file path, sent as multipart when set
}

// VideoInput is the payload for adding a video to a playlist.
type VideoInput struct {
	TikTokURL string `json:"tiktok_url"`
	TikTokID  string `json:"tiktok_id"`
	Title     string `json:"title,omitempty"`
	Playlist  int    `json:"playlist"`
}

// ProfileInput is the payload for editing the authenticated user's
// profile. The PATCH semantics mean every field is sent; callers seed
// the input from the current profile and overlay the changes.
type ProfileInput struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"-"` // local file path, sent as multipart when set
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Password       string `json:"password"`
	RePassword     string `json:"re_password"`
	ProfilePicture string `json:"-"` // local file path, sent as multipart when set
}
