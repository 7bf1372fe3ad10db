// Package store holds the epics of one report run in memory.
// It attaches stories and SCRs to their parent epic by key and flattens the
// result into report rows.
package store

import "github.com/robby/epicreport/internal/domain"

// Store owns the epic mapping for the duration of a run. It is not safe for
// concurrent use; the pipeline is strictly sequential.
type Store struct {
	// Epic storage
	epics map[string]*domain.Epic // Key -> Epic

	// Insertion order of epic keys; drives row order
	order []string

	// Children whose epic key matched nothing
	dropped int
}

// Stats summarizes the contents of a store.
type Stats struct {
	Epics   int
	Stories int
	Scrs    int
	Rows    int
	Dropped int
}

// New creates a new empty Store instance.
func New() *Store {
	return &Store{
		epics: make(map[string]*domain.Epic),
	}
}

// Build aggregates one run's tickets: epics first, then stories, then SCRs.
func Build(scrs, stories, epics []domain.Ticket) *Store {
	s := New()
	s.AddEpics(epics)
	s.AttachStories(stories)
	s.AttachScrs(scrs)
	return s
}

// AddEpics inserts an empty epic record per ticket.
// A repeated key replaces the record but keeps its original position.
func (s *Store) AddEpics(tickets []domain.Ticket) {
	for _, t := range tickets {
		if _, exists := s.epics[t.Key]; !exists {
			s.order = append(s.order, t.Key)
		}
		s.epics[t.Key] = &domain.Epic{
			GenericIssue: t.Issue(),
			SVP:          t.SVP,
			Stories:      []domain.Story{},
			Scrs:         []domain.Scr{},
		}
	}
}

// AttachStories appends each story to the epic it references, in encounter order.
// Stories without a known epic are dropped.
func (s *Store) AttachStories(tickets []domain.Ticket) {
	for _, t := range tickets {
		epic := s.parent(t)
		if epic == nil {
			continue
		}
		epic.Stories = append(epic.Stories, domain.Story{GenericIssue: t.Issue()})
	}
}

// AttachScrs appends each SCR to the epic it references, carrying the reporter.
// SCRs without a known epic are dropped.
func (s *Store) AttachScrs(tickets []domain.Ticket) {
	for _, t := range tickets {
		epic := s.parent(t)
		if epic == nil {
			continue
		}
		epic.Scrs = append(epic.Scrs, domain.Scr{GenericIssue: t.Issue(), Reporter: t.Reporter})
	}
}

// parent returns the epic a child references, counting the child as dropped if none.
func (s *Store) parent(t domain.Ticket) *domain.Epic {
	if t.Epic != nil {
		if epic, exists := s.epics[*t.Epic]; exists {
			return epic
		}
	}
	s.dropped++
	return nil
}

// Epics returns all epics in insertion order.
func (s *Store) Epics() []*domain.Epic {
	epics := make([]*domain.Epic, 0, len(s.order))
	for _, key := range s.order {
		epics = append(epics, s.epics[key])
	}
	return epics
}

// Dropped returns the number of children whose epic was not in the store.
func (s *Store) Dropped() int {
	return s.dropped
}

// Rows flattens the store into report rows.
// All story rows come first, then all SCR rows. Within each group epics follow
// insertion order and children follow append order. Epics without children
// produce no rows.
func (s *Store) Rows() []domain.Row {
	var rows []domain.Row

	for _, epic := range s.Epics() {
		for _, story := range epic.Stories {
			rows = append(rows, domain.Row{
				Epic:  epic,
				Type:  domain.RowTypeStory,
				Child: domain.Child{GenericIssue: story.GenericIssue},
			})
		}
	}

	for _, epic := range s.Epics() {
		for _, scr := range epic.Scrs {
			rows = append(rows, domain.Row{
				Epic:  epic,
				Type:  domain.RowTypeSCR,
				Child: domain.Child{GenericIssue: scr.GenericIssue, Reporter: scr.Reporter},
			})
		}
	}

	return rows
}

// Stats counts epics, children, rows and dropped children.
func (s *Store) Stats() Stats {
	stats := Stats{Epics: len(s.order), Dropped: s.dropped}
	for _, epic := range s.epics {
		stats.Stories += len(epic.Stories)
		stats.Scrs += len(epic.Scrs)
	}
	stats.Rows = stats.Stories + stats.Scrs
	return stats
}
