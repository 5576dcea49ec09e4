package models

import "time"

// FixtureRecord is a not-started fixture enriched with its prediction.
// Records are built once per run and never modified afterwards.
type FixtureRecord struct {
	CompetitionID   string
	CompetitionName string
	CountryName     string
	FixtureID       int
	HomeTeam        string
	AwayTeam        string
	Kickoff         time.Time
	Prediction      *string // nil when no prediction could be fetched
}

// CompetitionGroup keeps fixtures grouped by competition, in query order.
// Fixtures inside a group keep upstream order.
type CompetitionGroup struct {
	order    []string
	fixtures map[string][]FixtureRecord
}

// NewCompetitionGroup creates an empty group
func NewCompetitionGroup() *CompetitionGroup {
	return &CompetitionGroup{
		fixtures: make(map[string][]FixtureRecord),
	}
}

// Register adds a competition with no fixtures so its position is kept
// even when it contributes nothing.
func (g *CompetitionGroup) Register(competitionID string) {
	if _, ok := g.fixtures[competitionID]; ok {
		return
	}
	g.order = append(g.order, competitionID)
	g.fixtures[competitionID] = nil
}

// Append adds a record to the group of its own competition.
func (g *CompetitionGroup) Append(record FixtureRecord) {
	g.Register(record.CompetitionID)
	g.fixtures[record.CompetitionID] = append(g.fixtures[record.CompetitionID], record)
}

// Competitions returns competition ids in insertion order
func (g *CompetitionGroup) Competitions() []string {
	return append([]string(nil), g.order...)
}

// Fixtures returns the fixtures for a competition in upstream order
func (g *CompetitionGroup) Fixtures(competitionID string) []FixtureRecord {
	return append([]FixtureRecord(nil), g.fixtures[competitionID]...)
}

// Len returns the total number of fixtures across all competitions
func (g *CompetitionGroup) Len() int {
	total := 0
	for _, records := range g.fixtures {
		total += len(records)
	}
	return total
}

// IsEmpty reports whether every competition is empty
func (g *CompetitionGroup) IsEmpty() bool {
	return g == nil || g.Len() == 0
}
