package models

import (
	"fmt"
	"strings"
)

// Field length limits enforced before any request is issued.
// The backend enforces the same limits server-side.
const (
	MaxPlaylistTitleLen = 100
	MaxDescriptionLen   = 500
	MaxVideoTitleLen    = 200
)

// FieldErrors maps an input field name to a human-readable message.
type FieldErrors map[string]string

// Error implements the error interface by joining messages per field.
func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidatePlaylist checks playlist form input.
// Returns nil when the input is acceptable.
func ValidatePlaylist(input PlaylistInput) FieldErrors {
	errs := FieldErrors{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs["title"] = "Playlist name is required"
	} else if len([]rune(title)) > MaxPlaylistTitleLen {
		errs["title"] = fmt.Sprintf("Playlist name must be less than %d characters", MaxPlaylistTitleLen)
	}

	if len([]rune(input.Description)) > MaxDescriptionLen {
		errs["description"] = fmt.Sprintf("Description must be less than %d characters", MaxDescriptionLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateVideo checks video form input. URL validity is the caller's concern
// (see the links package); this only enforces presence and length limits.
func ValidateVideo(input VideoInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(input.TikTokURL) == "" {
		errs["tiktok_url"] = "Video URL is required"
	}

	if len([]rune(input.Title)) > MaxVideoTitleLen {
		errs["title"] = fmt.Sprintf("Title must be less than %d characters", MaxVideoTitleLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateProfile checks profile edit input.
func ValidateProfile(input ProfileInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(input.Email) == "" {
		errs["email"] = "Email is required"
	} else if !strings.Contains(input.Email, "@") {
		errs["email"] = "Enter a valid email address"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateRegistration checks account creation input.
func ValidateRegistration(input RegisterInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(input.Username) == "" {
		errs["username"] = "Username is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		errs["email"] = "Email is required"
	} else if !strings.Contains(input.Email, "@") {
		errs["email"] = "Enter a valid email address"
	}
	if input.FirstName == "" {
		errs["first_name"] = "First name is required"
	}
	if input.LastName == "" {
		errs["last_name"] = "Last name is required"
	}
	if input.Password == "" {
		errs["password"] = "Password is required"
	} else if input.RePassword != input.Password {
		errs["re_password"] = "Passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
