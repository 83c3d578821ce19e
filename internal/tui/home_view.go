package tui

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`   *        .            ✦           .       *`,
	` ___ _ __   __ _  ___ ___  __ _  __ _| | | ___ _ __ _   _`,
	`/ __| '_ \ / _' |/ __/ _ \/ _' |/ _' | | |/ _ \ '__| | | |`,
	`\__ \ |_) | (_| | (_|  __/ (_| | (_| | | |  __/ |  | |_| |`,
	`|___/ .__/ \__,_|\___\___|\__, |\__,_|_|_|\___|_|   \__, |`,
	`    |_|        .          |___/      ✦              |___/`,
}

// loadingFacts rotate while the catalog is loading.
var loadingFacts = []string{
	"Did you know? The Hubble Space Telescope has observed objects more than 13 billion light-years away.",
	"Did you know? Voyager 1 is the farthest human-made object from Earth and is still sending back data.",
	"Did you know? The Sun makes up 99.86% of the mass in our solar system.",
	"Did you know? NASA's Perseverance rover collects rock samples to help search for signs of ancient life on Mars.",
	"Did you know? The International Space Station travels around Earth at about 17,150 miles per hour (27,600 km/h).",
	"Did you know? Black holes can warp space and time so severely that not even light can escape from them.",
}

func factAt(i int) string {
	if i < 0 {
		i = -i
	}
	return loadingFacts[i%len(loadingFacts)]
}

func randomFact(rng *rand.Rand) string {
	return loadingFacts[rng.Intn(len(loadingFacts))]
}

// renderSplash is shown while nothing has been rendered yet.
func renderSplash(width, height int, status, fact string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorPrimary)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "", "")
	if status != "" {
		lines = append(lines, status)
	}
	if fact != "" {
		factWidth := width - 8
		if factWidth > 70 {
			factWidth = 70
		}
		lines = append(lines, "", factStyle.Render(wrapText(fact, factWidth)))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	// Center horizontally
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
