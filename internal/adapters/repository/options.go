package repository

const defaultDeviationThreshold = 5.0

// SettingsOption applies a configuration option to the settings store.
type SettingsOption func(*MemSettingsStore)

// WithDeviationThreshold sets the starting panel-deviation threshold.
func WithDeviationThreshold(threshold float64) SettingsOption {
	return func(s *MemSettingsStore) {
		if threshold >= 0 {
			s.deviationThreshold = threshold
		}
	}
}
