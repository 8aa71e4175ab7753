package domain

import "time"

// Profile is the developer profile owned by exactly one user.
type Profile struct {
	ID             string
	UserID         string
	Status         string
	Skills         []string
	Company        string
	Website        string
	Location       string
	Bio            string
	GithubUsername string
	Social         *Social
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// User is filled by the service layer; repositories never set it.
	User *UserSummary
}

// Social holds optional links. Empty strings mean the link was not supplied.
type Social struct {
	Youtube   string
	Twitter   string
	Facebook  string
	Linkedin  string
	Instagram string
}

// IsZero reports whether no link is set.
func (s *Social) IsZero() bool {
	return s == nil || (s.Youtube == "" && s.Twitter == "" && s.Facebook == "" && s.Linkedin == "" && s.Instagram == "")
}
