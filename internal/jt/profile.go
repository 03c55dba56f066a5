package jt

import (
	"strings"
	"time"
)

// Profile carries the per-user settings that extraction and resolution depend on.
// It is passed explicitly to every component that needs it.
type Profile struct {
	Name            string
	Location        *time.Location
	DefaultLocation string
	// CompanyAliases maps a lower-cased alias to its canonical company name.
	CompanyAliases map[string]string
}

// NewProfile builds a Profile, normalizing alias keys for lookup.
func NewProfile(name string, loc *time.Location, defaultLocation string, aliases map[string]string) Profile {
	norm := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		key := normalizeCompany(alias)
		if key == "" || strings.TrimSpace(canonical) == "" {
			continue
		}
		norm[key] = strings.TrimSpace(canonical)
	}
	return Profile{
		Name:            name,
		Location:        loc,
		DefaultLocation: defaultLocation,
		CompanyAliases:  norm,
	}
}

func (p Profile) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// CanonicalCompany trims name and replaces it with its canonical form when it is a known alias.
func (p Profile) CanonicalCompany(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if canonical, ok := p.CompanyAliases[normalizeCompany(name)]; ok {
		return canonical
	}
	return name
}

// normalizeCompany lower-cases a company name, collapses whitespace and drops
// trailing punctuation so "Google, " and "google" compare equal.
func normalizeCompany(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	return strings.TrimRight(name, ".,;:!?")
}
