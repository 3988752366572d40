package components

// Appearance holds the visual properties fixed at creation.
type Appearance struct {
	Radius float32 // drawn radius in logical pixels
	Alpha  float32 // opacity in (0, 1]
}
