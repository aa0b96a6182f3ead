package services

import (
	"math/rand/v2"
	"strings"
)

// letterAlphabet is the pool of poem-starter letters. Letters that rarely
// begin English words are left out.
const letterAlphabet = "ABCDEFGHIKLMNOPRSTW"

const (
	poemHeading    = "Today's poem"
	journalHeading = "Today's journal"
)

// RandomLetters draws n letters from the pool, repeats allowed.
func RandomLetters(n int) []string {
	letters := make([]string, n)
	for i := range letters {
		letters[i] = string(letterAlphabet[rand.IntN(len(letterAlphabet))])
	}
	return letters
}

// ComposeEntryText renders the editable two-section layout: a poem section
// seeded with the starter letters, then the journal section. With empty
// content this doubles as the blank template for a new day.
func ComposeEntryText(letters []string, journalContent string) string {
	return poemHeading + "\n\n" + strings.Join(letters, "\n") + "\n\n\n" + journalHeading + "\n\n" + journalContent
}

// ParseEntryText splits the edited text back into poem and journal content.
// The poem section keeps the starter letters the user wrote around; only the
// headings are stripped. Text without a journal heading is treated as all
// journal.
func ParseEntryText(text string) (poem, journal string) {
	sections := strings.Split(text, journalHeading)
	if len(sections) < 2 {
		return "", text
	}
	poem = strings.TrimSpace(strings.ReplaceAll(sections[0], poemHeading, ""))
	journal = strings.TrimSpace(sections[1])
	return poem, journal
}
