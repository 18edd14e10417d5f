package config

// DefaultEscapeTimeoutMS is how long a lone ESC waits for the rest of a
// sequence.
const DefaultEscapeTimeoutMS = 50

// Default returns the built-in settings.
func Default() *Config {
	prompt, hint := "INPUT> ", "Type something …"
	multiline := true
	timeout := DefaultEscapeTimeoutMS
	return &Config{
		Prompt:          &prompt,
		Hint:            &hint,
		Frame:           FrameNone,
		Multiline:       &multiline,
		EscapeTimeoutMS: &timeout,
		SemanticPrompts: SemanticAuto,
	}
}

// Merge fills unset fields of partial from defaults.
func Merge(partial, defaults *Config) *Config {
	result := *partial

	if result.Prompt == nil {
		result.Prompt = defaults.Prompt
	}
	if result.Hint == nil {
		result.Hint = defaults.Hint
	}
	if result.Frame == "" {
		result.Frame = defaults.Frame
	}
	if result.FrameColor == "" {
		result.FrameColor = defaults.FrameColor
	}
	if result.Multiline == nil {
		result.Multiline = defaults.Multiline
	}
	if result.EscapeTimeoutMS == nil {
		result.EscapeTimeoutMS = defaults.EscapeTimeoutMS
	}
	if result.SemanticPrompts == "" {
		result.SemanticPrompts = defaults.SemanticPrompts
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	return &result
}
