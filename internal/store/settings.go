// Package store persists a player's best score and preferences.
package store

// Settings are the player's preferences. Missing values load as their
// defaults (see DefaultSettings).
type Settings struct {
	Particles        bool `toml:"particles" json:"particles"`
	Shake            bool `toml:"shake" json:"shake"`
	SFX              bool `toml:"sfx" json:"sfx"`
	HighContrastHUD  bool `toml:"high_contrast_hud" json:"highContrastHud"`
	MirroredControls bool `toml:"mirrored_controls" json:"mirroredControls"`
	TouchControls    bool `toml:"touch_controls" json:"touchControls"`
}

// DefaultSettings returns the settings a new profile starts with.
func DefaultSettings() Settings {
	return Settings{
		Particles: true,
		Shake:     true,
		SFX:       true,
	}
}

// SettingLabels names the settings in menu order. Toggle takes the 1-based
// position in this list.
var SettingLabels = [...]string{
	"Particles",
	"Screen shake",
	"Sound effects",
	"High-contrast HUD",
	"Mirrored controls",
	"Touch controls",
}

// Values returns the flags in menu order.
func (s Settings) Values() [len(SettingLabels)]bool {
	return [...]bool{s.Particles, s.Shake, s.SFX, s.HighContrastHUD, s.MirroredControls, s.TouchControls}
}

// Toggle flips the n-th setting (1-based). Out-of-range values are ignored.
func (s *Settings) Toggle(n int) {
	switch n {
	case 1:
		s.Particles = !s.Particles
	case 2:
		s.Shake = !s.Shake
	case 3:
		s.SFX = !s.SFX
	case 4:
		s.HighContrastHUD = !s.HighContrastHUD
	case 5:
		s.MirroredControls = !s.MirroredControls
	case 6:
		s.TouchControls = !s.TouchControls
	}
}
