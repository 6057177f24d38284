package roles

import (
	"fmt"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
)

// FormatDeck renders a deck into the human-readable layout the reviewer
// prompt and the CLI summary both use.
func FormatDeck(deck content.DraftArtifact) string {
	if len(deck.Slides) == 0 {
		return "No deck content available"
	}
	var sb strings.Builder
	divider := strings.Repeat("=", 60)
	sb.WriteString("\n" + divider + "\n")
	fmt.Fprintf(&sb, "DECK: %s\n", deck.Topic)
	fmt.Fprintf(&sb, "Total Slides: %d\n", deck.SlideCount)
	sb.WriteString(divider + "\n")
	for _, slide := range deck.Slides {
		fmt.Fprintf(&sb, "\n--- SLIDE %d ---\n", slide.Index)
		fmt.Fprintf(&sb, "Title: %s\n", slide.Title)
		fmt.Fprintf(&sb, "\nContent:\n%s\n", slide.Body)
		fmt.Fprintf(&sb, "\nLayout: %s\n", slide.Layout)
		sb.WriteString(strings.Repeat("-", 60) + "\n")
	}
	return sb.String()
}
