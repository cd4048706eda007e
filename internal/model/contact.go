// Package model defines the contact records flowing through the
// deduplication pipeline.
package model

import "time"

// NotAvailable is the sentinel for a name slot no source has filled.
const NotAvailable = "N/A"

// Source identifies which export a contact mention came from.
type Source string

const (
	SourceMailFrom      Source = "mail-from"
	SourceMailTo        Source = "mail-to"
	SourceMailCC        Source = "mail-cc"
	SourceNetworkExport Source = "network-export"
	SourcePhoneBook     Source = "phone-book"
)

// NameCategory returns which of the three output name slots a source feeds.
// All mail roles collapse into the email-name category.
func (s Source) NameCategory() Category {
	switch s {
	case SourceNetworkExport:
		return CategoryLinkedIn
	case SourcePhoneBook:
		return CategoryPhoneBook
	default:
		return CategoryEmail
	}
}

// Category is one of the three name slots on a merged record.
type Category string

const (
	CategoryLinkedIn  Category = "linkedin"
	CategoryPhoneBook Category = "phonebook"
	CategoryEmail     Category = "email"
)

// RawContact is one mention of a person from one source row. It is built by
// an adapter, never mutated afterwards, and consumed by exact-key grouping.
// Adapters must drop mentions carrying no email, no phone, and no name.
type RawContact struct {
	Source         Source `json:"source"`
	OriginalName   string `json:"original_name"`             // display name as found, trimmed
	NormalizedName string `json:"normalized_name,omitempty"` // lowercase alpha+space form, "" if nothing survives
	Email          string `json:"email,omitempty"`           // canonical or ""
	Phone          string `json:"phone,omitempty"`           // canonical 10/12-digit or ""
}

// HasIdentity reports whether the mention carries at least one usable field.
func (r RawContact) HasIdentity() bool {
	return r.Email != "" || r.Phone != "" || r.OriginalName != ""
}

// Candidate is the unit the merge passes operate on. The exact-key phase
// creates one per group (or per keyless singleton); the fuzzy phase then
// folds similar candidates together in place. Name slots hold display names
// or NotAvailable; a populated slot is never overwritten.
type Candidate struct {
	LinkedInName  string `json:"linkedin_name"`
	PhoneBookName string `json:"phonebook_name"`
	EmailName     string `json:"email_name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// NewCandidate returns a candidate with all three name slots empty.
func NewCandidate() *Candidate {
	return &Candidate{
		LinkedInName:  NotAvailable,
		PhoneBookName: NotAvailable,
		EmailName:     NotAvailable,
	}
}

// Name returns the display name for a category, or NotAvailable.
func (c *Candidate) Name(cat Category) string {
	switch cat {
	case CategoryLinkedIn:
		return c.LinkedInName
	case CategoryPhoneBook:
		return c.PhoneBookName
	default:
		return c.EmailName
	}
}

// SetName fills a name slot if it is still NotAvailable. The first writer
// per slot wins; later values for an occupied slot are ignored.
func (c *Candidate) SetName(cat Category, name string) {
	if name == "" || name == NotAvailable {
		return
	}
	switch cat {
	case CategoryLinkedIn:
		if c.LinkedInName == NotAvailable {
			c.LinkedInName = name
		}
	case CategoryPhoneBook:
		if c.PhoneBookName == NotAvailable {
			c.PhoneBookName = name
		}
	default:
		if c.EmailName == NotAvailable {
			c.EmailName = name
		}
	}
}

// ComparisonName picks the display name used for similarity scoring, by
// fixed source priority: network, then phone book, then email.
func (c *Candidate) ComparisonName() string {
	if c.LinkedInName != NotAvailable {
		return c.LinkedInName
	}
	if c.PhoneBookName != NotAvailable {
		return c.PhoneBookName
	}
	if c.EmailName != NotAvailable {
		return c.EmailName
	}
	return ""
}

// PriorityScore ranks candidates for output ordering: 1 when a network name
// is present, 2 for phone-book only, 3 for email-derived only.
func (c *Candidate) PriorityScore() int {
	switch {
	case c.LinkedInName != NotAvailable:
		return 1
	case c.PhoneBookName != NotAvailable:
		return 2
	default:
		return 3
	}
}

// RankName returns the name the priority score was derived from.
func (c *Candidate) RankName() string {
	return c.ComparisonName()
}

// RunStatus represents the state of a dedupe batch run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one batch execution in the structured store.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	RawCount   int        `json:"raw_count"`
	Candidates int        `json:"candidates"`
	Merged     int        `json:"merged"`
	Final      int        `json:"final"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
