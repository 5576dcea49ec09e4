package message

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/matchtips/core/pkg/models"
)

const (
	// Title opens every digest
	Title = "*⚽ Next 24 hours matches and predictions 🤑*"

	// PredictionPlaceholder replaces a prediction that could not be fetched
	PredictionPlaceholder = "Prediction unavailable"

	// DefaultFooter is appended once at the end of every digest
	DefaultFooter = "Get 200% bonus 💰 on Melbet, use Promo code: BNS 👉 melbet.com\n" +
		"For daily odds boost 🚀 use Promo code BST on 1Xbet 👉 1xbet.com"
)

// Composer renders grouped fixtures as a Telegram Markdown message.
// It is pure: the same group always yields the same text.
type Composer struct {
	footer string
}

// NewComposer creates a composer; an empty footer selects DefaultFooter
func NewComposer(footer string) *Composer {
	if strings.TrimSpace(footer) == "" {
		footer = DefaultFooter
	}
	return &Composer{footer: footer}
}

// Compose builds the digest. It returns false when no competition has fixtures.
func (c *Composer) Compose(group *models.CompetitionGroup) (string, bool) {
	if group.IsEmpty() {
		return "", false
	}

	var b strings.Builder
	b.WriteString(Title)
	b.WriteString("\n\n")

	for _, competitionID := range group.Competitions() {
		fixtures := group.Fixtures(competitionID)
		if len(fixtures) == 0 {
			continue
		}

		fmt.Fprintf(&b, "*⚽ %s - %s Fixtures*\n\n", escape(fixtures[0].CountryName), escape(fixtures[0].CompetitionName))

		for i, fixture := range fixtures {
			prediction := PredictionPlaceholder
			if fixture.Prediction != nil {
				prediction = escape(*fixture.Prediction)
			}

			fmt.Fprintf(&b, "%d. %s vs %s\n", i+1, escape(fixture.HomeTeam), escape(fixture.AwayTeam))
			fmt.Fprintf(&b, "   🏆 Prediction: %s\n\n", prediction)
		}

		b.WriteString("\n\n")
	}

	text := strings.TrimRight(b.String(), "\n-")
	return text + "\n\n" + c.footer, true
}

// escape neutralises Markdown control characters coming from upstream names
func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}
