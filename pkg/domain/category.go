package domain

// Category is a named entry point into the tree.
type Category struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	StartNodeID string `json:"startNodeId" mapstructure:"startNodeId"`

	// Icon is an SVG path rendered on the category card.
	Icon string `json:"icon,omitempty" mapstructure:"icon"`
}
