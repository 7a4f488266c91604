package quiz

import (
	"fmt"
	"strings"
)

const (
	genericIncorrectMessage = "Incorrect. Try again!"
	shortfallNotice         = "Add more landmark data to unlock higher levels!"

	flagImageURL = "https://flagcdn.com/w160/%s.png"
)

func correctMessage(landmark, country string) string {
	return fmt.Sprintf("Correct! %s is in %s.", landmark, country)
}

func incorrectMessage(clicked string, km int, direction string) string {
	return fmt.Sprintf("Incorrect, that's %s. The landmark is %d km to the %s.", clicked, km, direction)
}

// joinList renders a human list: "a", "a and b", "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
