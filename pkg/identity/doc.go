// Package identity maps parsed CSV rows onto employee identities.
//
// Column synonyms are evaluated through an ordered rule table: for every
// logical field the first listed header with a non-empty value wins.
// Header matching is case-sensitive.
//
// The subject identity key is the email when present and the synthesized
// full name otherwise. The manager reference prefers manager_email and
// falls back to the manager's typed name.
//
// Two people who share a full name and have no email resolve to the same
// key and therefore merge into one node. This matches the behavior of the
// existing data sets and is reported by the "audit duplicates" command
// rather than corrected here.
package identity
