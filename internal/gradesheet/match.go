package gradesheet

import (
	"errors"
	"fmt"
	"strings"
)

// Candidate is a roster student considered by the name matcher.
type Candidate struct {
	ID    uint
	First string
	Last  string
}

// FullName returns the candidate's display name.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.First + " " + c.Last)
}

// ErrNoMatch indicates no matcher strategy produced a hit.
var ErrNoMatch = errors.New("no roster match")

// AmbiguousMatchError reports every candidate a strategy hit so the uploader
// can disambiguate the source row instead of the system guessing.
type AmbiguousMatchError struct {
	Name       string
	Candidates []Candidate
}

func (e *AmbiguousMatchError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, candidate := range e.Candidates {
		names = append(names, candidate.FullName())
	}
	return fmt.Sprintf("name %q matches multiple students: %s", e.Name, strings.Join(names, ", "))
}

// matcher reports whether the entered name refers to the candidate.
type matcher func(tokens []string, whole string, candidate Candidate) bool

// Strategies run in order; the first one producing exactly one hit wins.
// Each is independent so it can be tested in isolation.
var strategies = []matcher{matchExact, matchSubstring, matchSwapped}

// Resolve maps an entered student name to exactly one candidate. It returns
// ErrNoMatch when every strategy whiffs, or an *AmbiguousMatchError when a
// strategy hits more than one candidate.
func Resolve(name string, candidates []Candidate) (Candidate, error) {
	whole := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(name, ",", " ")), " "))
	tokens := strings.Fields(whole)
	if len(tokens) == 0 {
		return Candidate{}, ErrNoMatch
	}

	for _, strategy := range strategies {
		var hits []Candidate
		for _, candidate := range candidates {
			if strategy(tokens, whole, candidate) {
				hits = append(hits, candidate)
			}
		}
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0], nil
		default:
			return Candidate{}, &AmbiguousMatchError{Name: name, Candidates: hits}
		}
	}

	return Candidate{}, ErrNoMatch
}

// matchExact accepts "First Last" at any token split, or the whole entry
// equalling the first name alone or the last name alone.
func matchExact(tokens []string, whole string, candidate Candidate) bool {
	first := strings.ToLower(candidate.First)
	last := strings.ToLower(candidate.Last)

	if whole == first || whole == last {
		return true
	}

	for split := 1; split < len(tokens); split++ {
		if strings.Join(tokens[:split], " ") == first && strings.Join(tokens[split:], " ") == last {
			return true
		}
	}
	return false
}

// matchSubstring accepts the entry as a case-insensitive substring of the
// first name, the last name, or the "first last" concatenation.
func matchSubstring(tokens []string, whole string, candidate Candidate) bool {
	first := strings.ToLower(candidate.First)
	last := strings.ToLower(candidate.Last)
	full := strings.TrimSpace(first + " " + last)

	return strings.Contains(first, whole) ||
		strings.Contains(last, whole) ||
		strings.Contains(full, whole)
}

// matchSwapped handles "Last, First" entry order: the leading tokens are
// tried as the last name and the remainder as the first name.
func matchSwapped(tokens []string, whole string, candidate Candidate) bool {
	first := strings.ToLower(candidate.First)
	last := strings.ToLower(candidate.Last)

	for split := 1; split < len(tokens); split++ {
		if strings.Join(tokens[:split], " ") == last && strings.Join(tokens[split:], " ") == first {
			return true
		}
	}
	return false
}
