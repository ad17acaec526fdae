package sankey

import "fmt"

// DefaultPalette is the fixed seven-color display palette. Links cycle
// through it by position in the link list.
func DefaultPalette() []string {
	return []string{
		"#0077BB", // vivid blue
		"#33BBEE", // very light blue
		"#009988", // vivid teal
		"#EE7733", // vivid orange
		"#CC3311", // vivid red
		"#EE3377", // vivid pink
		"#BBBBBB", // very light gray
	}
}

// ValidatePalette rejects empty overrides; color cycling needs at least
// one entry.
func ValidatePalette(palette []string) error {
	if len(palette) == 0 {
		return fmt.Errorf("palette must have at least one color")
	}
	for i, c := range palette {
		if c == "" {
			return fmt.Errorf("palette entry %d is empty", i)
		}
	}
	return nil
}
