package domain

import "time"

// DetailPage is what the detail processor needs from an article page.
type DetailPage struct {
	PublicationDate *time.Time
	// DateErr explains a missing PublicationDate (ErrStructure or ErrDateFormat).
	DateErr error
	// Hrefs holds the href of every anchor in document order, duplicates included.
	Hrefs []string
	// AnchorsWithoutHref counts anchors skipped for lacking an href.
	AnchorsWithoutHref int
}
