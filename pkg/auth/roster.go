package auth

import (
	"sort"
	"sync"
)

// Entry is one speaker's enrollment record. Failed enrollments are
// recorded, not omitted: Profile is nil and Err holds the cause.
type Entry struct {
	SpeakerID string
	Profile   *Profile
	Err       error
}

// Enrolled reports whether the entry holds a usable profile.
func (e *Entry) Enrolled() bool { return e.Profile != nil && e.Err == nil }

// Roster maps speaker ids to enrollment records. It supports one
// writer during enrollment and many readers during identification.
// Entries are replaced wholesale, never field-mutated.
type Roster struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string // successful enrollments, oldest first
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{entries: make(map[string]*Entry)}
}

// Record stores the outcome of an enrollment attempt, replacing any
// previous record for the speaker. Successful enrollments also
// become the "most recent" profile used by verification.
func (r *Roster) Record(id string, profile *Profile, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &Entry{SpeakerID: id, Profile: profile, Err: err}
	if err == nil && profile != nil {
		r.order = append(r.order, id)
	}
}

// Get returns the record for a speaker, or nil if never attempted.
func (r *Roster) Get(id string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// Enrolled returns the successfully enrolled entries, sorted by
// speaker id for deterministic iteration.
func (r *Roster) Enrolled() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Enrolled() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpeakerID < out[j].SpeakerID })
	return out
}

// Last returns the most recently enrolled entry whose record still
// holds a usable profile, or nil if none. A failed re-enrollment
// knocks its speaker out of the running; the slot falls back to the
// enrollee before it.
func (r *Roster) Last() *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if e := r.entries[r.order[i]]; e != nil && e.Enrolled() {
			return e
		}
	}
	return nil
}

// Len returns the number of recorded speakers, enrolled or not.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
