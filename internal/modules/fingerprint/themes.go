package fingerprint

import (
	"embed"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pearlapp/pearl-backend/internal/domain/astro"
)

const themesYAMLEnv = "SYNTHESIS_THEMES_YAML"

//go:embed themes.yaml
var themesFS embed.FS

// fallback tables used when the YAML is missing or invalid
var fallbackElementThemes = map[astro.Element]string{
	astro.ElementFire:  "Creative fire and bold self-expression",
	astro.ElementEarth: "Grounded building and tangible results",
	astro.ElementAir:   "Ideas, connection, and clear communication",
	astro.ElementWater: "Emotional depth and intuitive knowing",
}

var fallbackElementSuperpowers = map[astro.Element]string{
	astro.ElementFire:  "igniting momentum where others hesitate",
	astro.ElementEarth: "turning vision into something solid",
	astro.ElementAir:   "seeing the pattern and naming it",
	astro.ElementWater: "reading the undercurrent in any room",
}

type themeTables struct {
	ElementThemes      map[string]string `yaml:"element_themes"`
	ElementSuperpowers map[string]string `yaml:"element_superpowers"`
}

var (
	themesOnce   sync.Once
	loadedThemes themeTables
)

func themes() themeTables {
	themesOnce.Do(func() {
		raw, err := readThemesYAML()
		if err != nil {
			loadedThemes = themeTables{}
			return
		}
		var t themeTables
		if err := yaml.Unmarshal(raw, &t); err != nil {
			loadedThemes = themeTables{}
			return
		}
		loadedThemes = t
	})
	return loadedThemes
}

func readThemesYAML() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(themesYAMLEnv)); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			return raw, nil
		}
	}
	return themesFS.ReadFile("themes.yaml")
}

func elementTheme(e astro.Element) string {
	if v, ok := themes().ElementThemes[string(e)]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallbackElementThemes[e]
}

func elementSuperpower(e astro.Element) string {
	if v, ok := themes().ElementSuperpowers[string(e)]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallbackElementSuperpowers[e]
}
