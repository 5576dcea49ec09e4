package message

import (
	"strings"
	"testing"

	"github.com/matchtips/core/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestCompose_EmptyGroups(t *testing.T) {
	tests := []struct {
		name  string
		group *models.CompetitionGroup
	}{
		{name: "nil group", group: nil},
		{name: "no competitions", group: models.NewCompetitionGroup()},
		{
			name: "only empty competitions",
			group: func() *models.CompetitionGroup {
				g := models.NewCompetitionGroup()
				g.Register("333")
				g.Register("71")
				return g
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := NewComposer("").Compose(tt.group)
			if ok {
				t.Errorf("Compose() ok = true, text = %q", text)
			}
			if text != "" {
				t.Errorf("Compose() text = %q, want empty", text)
			}
		})
	}
}

func TestCompose_SingleCompetition(t *testing.T) {
	g := models.NewCompetitionGroup()
	g.Register("333")
	g.Register("71")
	g.Append(models.FixtureRecord{
		CompetitionID:   "333",
		CompetitionName: "Premier League",
		CountryName:     "Ukraine",
		FixtureID:       1,
		HomeTeam:        "TeamA",
		AwayTeam:        "TeamB",
		Prediction:      strPtr("Home Win"),
	})

	text, ok := NewComposer("").Compose(g)
	if !ok {
		t.Fatal("Compose() returned no message")
	}

	want := Title + "\n\n" +
		"*⚽ Ukraine - Premier League Fixtures*\n\n" +
		"1. TeamA vs TeamB\n" +
		"   🏆 Prediction: Home Win" +
		"\n\n" + DefaultFooter

	if text != want {
		t.Errorf("Compose() =\n%s\nwant\n%s", text, want)
	}

	if strings.Count(text, "Fixtures*") != 1 {
		t.Errorf("expected exactly one competition section, got %d", strings.Count(text, "Fixtures*"))
	}
}

func TestCompose_TitleAndFooterOnce(t *testing.T) {
	g := models.NewCompetitionGroup()
	for _, id := range []string{"1", "2", "3"} {
		for i := 0; i < 3; i++ {
			g.Append(models.FixtureRecord{
				CompetitionID:   id,
				CompetitionName: "League " + id,
				CountryName:     "Country",
				HomeTeam:        "Home",
				AwayTeam:        "Away",
			})
		}
	}

	footer := "Custom footer line"
	text, ok := NewComposer(footer).Compose(g)
	if !ok {
		t.Fatal("Compose() returned no message")
	}

	if !strings.HasPrefix(text, Title) {
		t.Error("message does not start with the title")
	}
	if !strings.HasSuffix(text, "\n\n"+footer) {
		t.Error("message does not end with the footer")
	}
	if strings.Count(text, footer) != 1 {
		t.Errorf("footer appears %d times, want 1", strings.Count(text, footer))
	}
	if strings.Count(text, Title) != 1 {
		t.Errorf("title appears %d times, want 1", strings.Count(text, Title))
	}
	for _, id := range []string{"1", "2", "3"} {
		if !strings.Contains(text, "*⚽ Country - League "+id+" Fixtures*") {
			t.Errorf("missing section for league %s", id)
		}
	}
	if !strings.Contains(text, "3. Home vs Away") {
		t.Error("entries are not numbered per competition")
	}
	if strings.Contains(text, "4. Home vs Away") {
		t.Error("numbering must restart for each competition")
	}
	// placeholder replaces every missing prediction
	if got := strings.Count(text, "Prediction: "+PredictionPlaceholder); got != 9 {
		t.Errorf("placeholder count = %d, want 9", got)
	}
}

func TestCompose_PlaceholderKeepsSiblings(t *testing.T) {
	g := models.NewCompetitionGroup()
	g.Append(models.FixtureRecord{CompetitionID: "71", CompetitionName: "Serie A", CountryName: "Brazil", HomeTeam: "Flamengo", AwayTeam: "Santos", Prediction: strPtr("Flamengo wins")})
	g.Append(models.FixtureRecord{CompetitionID: "71", CompetitionName: "Serie A", CountryName: "Brazil", HomeTeam: "Gremio", AwayTeam: "Bahia"})
	g.Append(models.FixtureRecord{CompetitionID: "71", CompetitionName: "Serie A", CountryName: "Brazil", HomeTeam: "Vasco", AwayTeam: "Fortaleza", Prediction: strPtr("Draw")})

	text, _ := NewComposer("").Compose(g)

	for _, want := range []string{
		"1. Flamengo vs Santos\n   🏆 Prediction: Flamengo wins",
		"2. Gremio vs Bahia\n   🏆 Prediction: " + PredictionPlaceholder,
		"3. Vasco vs Fortaleza\n   🏆 Prediction: Draw",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestCompose_Deterministic(t *testing.T) {
	build := func() *models.CompetitionGroup {
		g := models.NewCompetitionGroup()
		g.Append(models.FixtureRecord{CompetitionID: "b", CompetitionName: "B", CountryName: "X", HomeTeam: "1", AwayTeam: "2"})
		g.Append(models.FixtureRecord{CompetitionID: "a", CompetitionName: "A", CountryName: "Y", HomeTeam: "3", AwayTeam: "4"})
		return g
	}

	composer := NewComposer("")
	first, _ := composer.Compose(build())
	second, _ := composer.Compose(build())
	if first != second {
		t.Error("Compose() is not deterministic")
	}
	if strings.Index(first, "X - B") > strings.Index(first, "Y - A") {
		t.Error("competition order must follow insertion order")
	}
}

func TestCompose_EscapesMarkdown(t *testing.T) {
	g := models.NewCompetitionGroup()
	g.Append(models.FixtureRecord{CompetitionID: "1", CompetitionName: "Liga_1", CountryName: "Peru", HomeTeam: "Sport_Boys", AwayTeam: "Alianza*Lima"})

	text, _ := NewComposer("").Compose(g)

	if !strings.Contains(text, `1. Sport\_Boys vs Alianza\*Lima`) {
		t.Errorf("team names not escaped: %q", text)
	}
	if !strings.Contains(text, `Peru - Liga\_1 Fixtures`) {
		t.Errorf("competition name not escaped: %q", text)
	}
}
