package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	maxCaptionLen = 2200
	maxCommentLen = 500
	maxBioLen     = 160
)

func ValidateRegister(email, username, name, password string) ValidationErrors {
	errs := make(ValidationErrors)

	// Email
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	// Username
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 20 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers and underscores")
	}

	// Name
	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) < 2 {
		errs.Add("name", "Name must be at least 2 characters")
	} else if len(name) > 50 {
		errs.Add("name", "Name is too long")
	}

	// Password
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateProfile(name, bio string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) < 2 {
		errs.Add("name", "Name must be at least 2 characters")
	} else if len(name) > 50 {
		errs.Add("name", "Name is too long")
	}

	if len(bio) > maxBioLen {
		errs.Add("bio", fmt.Sprintf("Bio cannot exceed %d characters", maxBioLen))
	}

	return errs
}

func ValidatePost(caption string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(caption) == "" {
		errs.Add("caption", "Caption is required")
	} else if len(caption) > maxCaptionLen {
		errs.Add("caption", fmt.Sprintf("Caption cannot exceed %d characters", maxCaptionLen))
	}

	return errs
}

func ValidateComment(body string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(body) == "" {
		errs.Add("body", "Comment body is required")
	} else if len(body) > maxCommentLen {
		errs.Add("body", fmt.Sprintf("Comment cannot exceed %d characters", maxCommentLen))
	}

	return errs
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
