package agents

// OutputMode is the response format an agent asks its model for
type OutputMode string

const (
	OutputText OutputMode = "text"
	OutputJSON OutputMode = "json"
)

// Definition describes one agent: which model it runs on and how it is prompted.
type Definition struct {
	Name        string     `yaml:"name" json:"name"`
	DisplayName string     `yaml:"display_name" json:"display_name"`
	Description string     `yaml:"description" json:"description"`
	Model       string     `yaml:"model" json:"model"`
	Output      OutputMode `yaml:"output" json:"output"`
	Instruction string     `yaml:"instruction" json:"-"`

	// Temperature is optional; unset uses the provider default.
	Temperature *float32 `yaml:"temperature" json:"temperature,omitempty"`
}

// WantsJSON reports whether replies should be a JSON object.
func (d *Definition) WantsJSON() bool {
	return d.Output == OutputJSON
}
