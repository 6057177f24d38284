// Package stylevault parses the markdown vault of example decks that the
// drafter uses as few-shot style references. The vault format is a plain
// markdown file holding <post> blocks:
//
//	<post id="example-1" topic="Gradient Boosting" style="educational" slides="5">
//	### Slide 1
//	**Title:** ...
//	**Content:** ...
//	**Layout:** ...
//	</post>
package stylevault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/slidesmith/slidesmith/internal/content"
)

// Post is one example deck from the vault.
type Post struct {
	ID         string
	Topic      string
	Style      string
	SlideCount int
	Slides     []content.Slide
}

var (
	postPattern  = regexp.MustCompile(`(?s)<post\s+([^>]+)>(.*?)</post>`)
	attrPattern  = regexp.MustCompile(`(\w+)=["'](.*?)["']`)
	slidePattern = regexp.MustCompile(`###\s+Slide\s+(\d+)`)
	fieldPattern = regexp.MustCompile(`\*\*(Title|Content|Layout):\*\*`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// Load reads and parses the vault file. A missing file is not an error:
// the drafter simply runs without style examples.
func Load(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stylevault: read %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse extracts every example post from vault markdown.
func Parse(markdown string) []Post {
	var posts []Post
	for _, match := range postPattern.FindAllStringSubmatch(markdown, -1) {
		attrs := parseAttributes(match[1])
		slides := parseSlides(match[2])
		count := len(slides)
		if declared, err := strconv.Atoi(attrs["slides"]); err == nil && declared > 0 {
			count = declared
		}
		post := Post{
			ID:         attrValue(attrs, "id", "unknown"),
			Topic:      attrValue(attrs, "topic", "Unknown"),
			Style:      attrValue(attrs, "style", "educational"),
			SlideCount: count,
			Slides:     slides,
		}
		posts = append(posts, post)
	}
	return posts
}

// ByTopic filters posts whose topic contains the query (case-insensitive).
func ByTopic(posts []Post, topic string) []Post {
	needle := strings.ToLower(topic)
	var out []Post
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Topic), needle) {
			out = append(out, post)
		}
	}
	return out
}

func parseAttributes(raw string) map[string]string {
	attrs := map[string]string{}
	for _, match := range attrPattern.FindAllStringSubmatch(raw, -1) {
		attrs[match[1]] = match[2]
	}
	return attrs
}

func attrValue(attrs map[string]string, key, fallback string) string {
	if v, ok := attrs[key]; ok && v != "" {
		return v
	}
	return fallback
}

// parseSlides splits the post body on "### Slide N" headers and extracts
// the Title/Content/Layout fields from each section.
func parseSlides(body string) []content.Slide {
	headers := slidePattern.FindAllStringSubmatchIndex(body, -1)
	var slides []content.Slide
	for i, header := range headers {
		number, _ := strconv.Atoi(body[header[2]:header[3]])
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		section := body[header[1]:end]
		slides = append(slides, content.Slide{
			Index:  number,
			Title:  extractField(section, "Title"),
			Body:   extractField(section, "Content"),
			Layout: extractField(section, "Layout"),
		})
	}
	return slides
}

// extractField returns the text between a **Name:** marker and the next
// field marker (or the end of the section).
func extractField(section, name string) string {
	markers := fieldPattern.FindAllStringSubmatchIndex(section, -1)
	for i, marker := range markers {
		if section[marker[2]:marker[3]] != name {
			continue
		}
		end := len(section)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		value := strings.TrimSpace(section[marker[1]:end])
		return blankRuns.ReplaceAllString(value, "\n\n")
	}
	return ""
}
